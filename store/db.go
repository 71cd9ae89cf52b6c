/*
DESCRIPTION
  db.go provides DB, the sqlite database holding persisted parking spots and
  monitoring records.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package store persists parking spot lists and monitoring records in a
// sqlite database, and summarises the records for analysis.
package store

import (
	"database/sql"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Connection pragmas. busy_timeout is per connection so these are given in
// the DSN, which the driver applies to every new connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
}

// DB is a sqlite database. It is safe for concurrent use.
type DB struct {
	*sql.DB
	log logging.Logger
}

// Open opens the database at path, creating it if needed, and migrates it to
// the latest schema.
func Open(path string, l logging.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "could not connect to database %s", path)
	}

	d := &DB{DB: db, log: l}
	if err := d.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	l.Debug("opened database", "path", path)
	return d, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=" + strings.Join(pragmas, "&_pragma=")
}
