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
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/occupancy"
	"github.com/ausocean/parkwatch/spot"
	"github.com/ausocean/parkwatch/store"
)

var grey = color.RGBA{0x80, 0x80, 0x80, 0xff}

func testConfig() config.Config {
	return config.Config{SpotWidth: 103, SpotHeight: 43, FreeColour: "#00c800", OccupiedColour: "#c80000"}
}

func frame(r image.Rectangle) *image.RGBA {
	img := image.NewRGBA(r)
	draw.Draw(img, r, image.NewUniform(grey), image.Point{}, draw.Src)
	return img
}

func TestNewBadColour(t *testing.T) {
	c := testConfig()
	c.OccupiedColour = "red"
	if _, err := New(c); err == nil {
		t.Error("expected error for bad colour")
	}
}

func TestDraw(t *testing.T) {
	r, err := New(testConfig())
	if err != nil {
		t.Fatalf("could not create renderer: %v", err)
	}
	free := color.RGBA{0, 200, 0, 0xff}
	occ := color.RGBA{200, 0, 0, 0xff}

	res := occupancy.Result{
		Free: 1,
		Spots: []occupancy.SpotResult{
			{Index: 0, Spot: spot.Spot{X: 10, Y: 170}},
			{Index: 1, Spot: spot.Spot{X: 150, Y: 170}, Count: 1000, Occupied: true},
		},
	}

	in := frame(image.Rect(5, 5, 305, 245))
	got := r.Draw(in, res, Info{FPS: 25, Camera: "1"})
	if got.Rect != image.Rect(0, 0, 300, 240) {
		t.Fatalf("unexpected bounds %v", got.Rect)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{x: 60, y: 170, want: free},  // Free top edge.
		{x: 60, y: 171, want: free},  // Second pixel of free edge.
		{x: 60, y: 172, want: grey},  // Inside free spot.
		{x: 200, y: 170, want: occ},  // Occupied top edge.
		{x: 200, y: 171, want: grey}, // Occupied edge is one pixel.
		{x: 252, y: 200, want: occ},  // Occupied right edge.
		{x: 41, y: 40, want: free},   // Banner box with free spots.
		{x: 290, y: 10, want: grey},  // Untouched.
	}
	for _, test := range tests {
		if c := got.RGBAAt(test.x, test.y); c != test.want {
			t.Errorf("pixel (%d, %d): got %v, want %v", test.x, test.y, c, test.want)
		}
	}

	if in.RGBAAt(65, 175) != grey {
		t.Error("input frame was modified")
	}

	// No free spots turns the banner to the occupied colour.
	res.Free = 0
	res.Spots[0].Occupied = true
	got = r.Draw(in, res, Info{})
	if c := got.RGBAAt(41, 40); c != occ {
		t.Errorf("banner: got %v, want %v", c, occ)
	}
}

func TestSnapshotter(t *testing.T) {
	s, err := NewSnapshotter(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("could not create snapshotter: %v", err)
	}

	img := frame(image.Rect(0, 0, 20, 10))
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	steps := []struct {
		at   time.Duration
		want bool
	}{
		{at: 0, want: true},
		{at: 30 * time.Second, want: false},
		{at: time.Minute, want: true},
	}
	for i, step := range steps {
		saved, err := s.Save("2", img, now.Add(step.at))
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if saved != step.want {
			t.Errorf("step %d: got saved %v, want %v", i, saved, step.want)
		}
	}

	got, err := imgio.Open(s.Path("2"))
	if err != nil {
		t.Fatalf("could not open snapshot: %v", err)
	}
	if got.Bounds().Size() != image.Pt(20, 10) {
		t.Errorf("unexpected snapshot size %v", got.Bounds().Size())
	}
	if !s.Due("3", now) {
		t.Error("expected first snapshot of a camera to be due")
	}
}

func TestChart(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var records []store.Record
	for i := 0; i < 10; i++ {
		records = append(records,
			store.Record{Camera: "1", Time: base.Add(time.Duration(i) * time.Minute), Free: i % 4, Total: 4},
			store.Record{Camera: "2", Time: base.Add(time.Duration(i) * time.Minute), Free: 1, Total: 2},
		)
	}

	for _, ext := range []string{".png", ".svg"} {
		path := filepath.Join(t.TempDir(), "chart"+ext)
		err := Chart(records, path)
		if err != nil {
			t.Fatalf("did not expect error for %s chart: %v", ext, err)
		}
		fi, err := os.Stat(path)
		if err != nil || fi.Size() == 0 {
			t.Errorf("expected %s chart to be written: %v", ext, err)
		}
	}

	err := Chart(nil, filepath.Join(t.TempDir(), "chart.png"))
	if !errors.Is(err, store.ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
	err = Chart([]store.Record{{Camera: "1", Time: base}}, filepath.Join(t.TempDir(), "chart.png"))
	if err == nil {
		t.Error("expected error for records without spaces")
	}
}
