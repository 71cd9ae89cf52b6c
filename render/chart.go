/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package render

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/parkwatch/store"
)

// Chart dimensions.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// Chart plots the occupancy percentage of each camera in records over time
// and saves it to path. The image format is chosen by the extension of path.
func Chart(records []store.Record, path string) error {
	if len(records) == 0 {
		return store.ErrNoRecords
	}

	byCamera := make(map[string]plotter.XYs)
	for _, r := range records {
		if r.Total == 0 {
			continue
		}
		byCamera[r.Camera] = append(byCamera[r.Camera], plotter.XY{
			X: float64(r.Time.Unix()),
			Y: float64(r.Occupied()) / float64(r.Total) * 100,
		})
	}
	if len(byCamera) == 0 {
		return errors.New("no records with parking spaces")
	}
	cameras := make([]string, 0, len(byCamera))
	for c := range byCamera {
		cameras = append(cameras, c)
	}
	sort.Strings(cameras)

	p := plot.New()
	p.Title.Text = "Parking Occupancy"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Occupied (%)"
	p.X.Tick.Marker = plot.TimeTicks{
		Format: "01-02 15:04",
		Time:   func(t float64) time.Time { return time.Unix(int64(t), 0) },
	}
	p.Y.Min, p.Y.Max = 0, 100
	p.Add(plotter.NewGrid())

	for i, c := range cameras {
		line, err := plotter.NewLine(byCamera[c])
		if err != nil {
			return fmt.Errorf("could not plot camera %s: %w", c, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("Camera "+c, line)
	}

	err := p.Save(chartWidth, chartHeight, path)
	if err != nil {
		return fmt.Errorf("could not save chart: %w", err)
	}
	return nil
}
