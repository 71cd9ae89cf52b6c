/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package store

import (
	"time"

	"github.com/pkg/errors"
)

// Record is one monitoring log entry: the free and total spot counts of a
// camera at a point in time.
type Record struct {
	ID     int64
	Run    string // Identifies the monitoring run that wrote the record.
	Camera string
	Time   time.Time
	Free   int
	Total  int
}

// Occupied returns the number of occupied spots in r.
func (r Record) Occupied() int { return r.Total - r.Free }

// Insert writes r. The ID of r is ignored.
func (db *DB) Insert(r Record) error {
	_, err := db.Exec(
		`INSERT INTO records (run, camera, recorded_at, free, total) VALUES (?, ?, ?, ?, ?)`,
		r.Run, r.Camera, r.Time.UnixNano(), r.Free, r.Total,
	)
	return errors.Wrap(err, "could not insert record")
}

// Records returns the records of camera ordered by time, or the records of
// every camera if camera is empty.
func (db *DB) Records(camera string) ([]Record, error) {
	q := `SELECT id, run, camera, recorded_at, free, total FROM records`
	var args []interface{}
	if camera != "" {
		q += ` WHERE camera = ?`
		args = append(args, camera)
	}
	q += ` ORDER BY recorded_at, id`

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "could not query records")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r  Record
			ns int64
		)
		err := rows.Scan(&r.ID, &r.Run, &r.Camera, &ns, &r.Free, &r.Total)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan record")
		}
		r.Time = time.Unix(0, ns)
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "could not read records")
}

// Recorder writes monitoring records for one run.
type Recorder struct {
	db  *DB
	run string
	now func() time.Time
}

// Recorder returns a Recorder that tags its records with run and the current
// time.
func (db *DB) Recorder(run string) *Recorder {
	return &Recorder{db: db, run: run, now: time.Now}
}

// Record logs the free and total spot counts of camera.
func (r *Recorder) Record(camera string, free, total int) error {
	return r.db.Insert(Record{Run: r.run, Camera: camera, Time: r.now(), Free: free, Total: total})
}
