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
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoRecords = errors.New("no monitoring data available")
	ErrNoSpaces  = errors.New("records have no parking spaces")
)

// Summary is the analysis of a set of monitoring records.
type Summary struct {
	Entries          int
	TotalSpaces      int     // Taken from the first record.
	AverageOccupancy float64 // Percent.
	BusiestTime      time.Time
	BusiestOccupied  int
}

// Summarize analyses records. Occupancy of every record is measured against
// the spot total of the first record. The busiest record is the first with
// the most occupied spots.
func Summarize(records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}
	total := records[0].Total
	if total == 0 {
		return Summary{}, ErrNoSpaces
	}

	rates := make([]float64, len(records))
	busiest := 0
	for i, r := range records {
		occ := total - r.Free
		rates[i] = float64(occ) / float64(total) * 100
		if occ > total-records[busiest].Free {
			busiest = i
		}
	}

	return Summary{
		Entries:          len(records),
		TotalSpaces:      total,
		AverageOccupancy: stat.Mean(rates, nil),
		BusiestTime:      records[busiest].Time,
		BusiestOccupied:  total - records[busiest].Free,
	}, nil
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"Parking Slot Analysis\nEntries: %d\nAverage Occupancy Rate: %.2f%%\nBusiest Time: %s\nOccupancy at Busiest Time: %d/%d\n",
		s.Entries, s.AverageOccupancy, s.BusiestTime.Format(time.DateTime), s.BusiestOccupied, s.TotalSpaces,
	)
}
