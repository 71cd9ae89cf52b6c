/*
DESCRIPTION
  monitor_test.go tests the Monitor processing loop using ManualInput.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package monitor

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/device/ffmpeg"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/occupancy"
	"github.com/ausocean/parkwatch/render"
	"github.com/ausocean/parkwatch/spot"
)

var testSpots = []spot.Spot{{X: 0, Y: 0}, {X: 50, Y: 50}}

type entry struct {
	camera      string
	free, total int
}

// fakeRecorder keeps every record in memory.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []entry
	err     error
}

func (r *fakeRecorder) Record(camera string, free, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{camera, free, total})
	return r.err
}

func (r *fakeRecorder) get() []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entry(nil), r.entries...)
}

// solidFilter returns a mask of the size of the frame with every pixel set to
// val.
type solidFilter struct{ val uint8 }

func (f solidFilter) Apply(img image.Image) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	for i := range g.Pix {
		g.Pix[i] = f.val
	}
	return g
}

func (f solidFilter) Close() error { return nil }

func frame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func testConfig(t *testing.T) config.Config {
	return config.Config{Logger: (*logging.TestLogger)(t), LogLevel: logging.Debug}
}

// run starts m in a goroutine and returns the channel its result is sent on.
func run(ctx context.Context, m *Monitor) chan error {
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()
	return errc
}

func result(t *testing.T, errc chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not return")
		return nil
	}
}

func TestRun(t *testing.T) {
	in := device.NewManualInput()
	rec := &fakeRecorder{}
	m, err := New(testConfig(t), "1", in, testSpots, rec)
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}

	errc := run(context.Background(), m)
	for _, img := range []image.Image{frame(200, 200), nil, frame(200, 200), frame(200, 200)} {
		err := in.Write(img)
		if err != nil {
			t.Fatalf("could not write frame: %v", err)
		}
	}
	in.Stop()

	err = result(t, errc)
	if err != nil {
		t.Errorf("did not expect error from Run: %v", err)
	}

	// The nil frame is skipped and flat frames have no active pixels.
	want := []entry{{"1", 2, 2}, {"1", 2, 2}, {"1", 2, 2}}
	if got := rec.get(); !cmp.Equal(got, want, cmp.AllowUnexported(entry{})) {
		t.Errorf("unexpected records\n%s", cmp.Diff(want, got, cmp.AllowUnexported(entry{})))
	}
	last, n := m.Last()
	if n != 3 || last.Free != 2 || last.Total() != 2 {
		t.Errorf("unexpected last result %+v after %d frames", last, n)
	}
}

func TestRunOccupied(t *testing.T) {
	in := device.NewManualInput()
	rec := &fakeRecorder{}
	m, err := New(testConfig(t), "2", in, testSpots, rec, WithFilter(solidFilter{0xff}))
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}

	errc := run(context.Background(), m)
	in.Write(frame(200, 200))
	in.Stop()
	if err := result(t, errc); err != nil {
		t.Errorf("did not expect error from Run: %v", err)
	}

	last, _ := m.Last()
	want := occupancy.Result{
		Free: 0,
		Spots: []occupancy.SpotResult{
			{Index: 0, Spot: testSpots[0], Count: 103 * 43, Occupied: true},
			{Index: 1, Spot: testSpots[1], Count: 103 * 43, Occupied: true},
		},
	}
	if !cmp.Equal(last, want) {
		t.Errorf("unexpected result\n%s", cmp.Diff(want, last))
	}
	if got := rec.get(); len(got) != 1 || got[0].free != 0 || got[0].total != 2 {
		t.Errorf("unexpected records %+v", got)
	}
}

func TestRunCancel(t *testing.T) {
	in := device.NewManualInput()
	m, err := New(testConfig(t), "1", in, testSpots, nil)
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := run(ctx, m)
	in.Write(frame(64, 48))

	// Run is now blocked waiting for a frame; cancellation must release it.
	cancel()
	if err := result(t, errc); err != nil {
		t.Errorf("did not expect error from cancelled Run: %v", err)
	}
	if in.IsRunning() {
		t.Error("source still running after Run returned")
	}
}

func TestRunFrameSize(t *testing.T) {
	tests := []struct {
		name   string
		w, h   uint
		frames []image.Image
	}{
		{
			name:   "configured",
			w:      64,
			h:      48,
			frames: []image.Image{frame(64, 48), frame(32, 32)},
		},
		{
			name:   "locked to first frame",
			frames: []image.Image{frame(64, 48), frame(64, 48), frame(48, 64)},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := testConfig(t)
			c.FrameWidth, c.FrameHeight = test.w, test.h
			in := device.NewManualInput()
			rec := &fakeRecorder{}
			m, err := New(c, "1", in, testSpots, rec)
			if err != nil {
				t.Fatalf("did not expect error from New: %v", err)
			}

			errc := run(context.Background(), m)
			for _, img := range test.frames {
				in.Write(img)
			}
			err = result(t, errc)
			if !errors.Is(err, occupancy.ErrFrameSize) {
				t.Errorf("expected ErrFrameSize, got %v", err)
			}
			if n := len(rec.get()); n != len(test.frames)-1 {
				t.Errorf("got %d records, want %d", n, len(test.frames)-1)
			}
		})
	}
}

func TestRecorderError(t *testing.T) {
	in := device.NewManualInput()
	rec := &fakeRecorder{err: errors.New("sink unavailable")}
	m, err := New(testConfig(t), "1", in, testSpots, rec)
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}

	errc := run(context.Background(), m)
	in.Write(frame(200, 200))
	in.Write(frame(200, 200))
	in.Stop()
	if err := result(t, errc); err != nil {
		t.Errorf("recorder failure should not stop monitor: %v", err)
	}
	if n := len(rec.get()); n != 2 {
		t.Errorf("got %d records, want 2", n)
	}
}

// TestRunSourceExit checks that a looped video whose decoder exits ends the
// run with an error rather than as the end of the source.
func TestRunSourceExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a posix shell")
	}
	script := filepath.Join(t.TempDir(), "ffmpeg")
	err := os.WriteFile(script, []byte("#!/bin/sh\necho 'parking1.mp4: No such file or directory' >&2\nexit 1\n"), 0755)
	if err != nil {
		t.Fatalf("could not write script: %v", err)
	}
	old := ffmpeg.Binary
	ffmpeg.Binary = script
	defer func() { ffmpeg.Binary = old }()

	c := testConfig(t)
	c.Input = config.InputAuto
	src, err := NewSource(c, "parking1.mp4")
	if err != nil {
		t.Fatalf("could not create source: %v", err)
	}
	rec := &fakeRecorder{}
	m, err := New(c, "1", src, testSpots, rec)
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}

	err = result(t, run(context.Background(), m))
	if err == nil || !strings.Contains(err.Error(), "No such file") {
		t.Errorf("expected decoder failure from Run, got %v", err)
	}
	if n := len(rec.get()); n != 0 {
		t.Errorf("got %d records, want 0", n)
	}
}

func TestSpotsCopied(t *testing.T) {
	spots := append([]spot.Spot(nil), testSpots...)
	m, err := New(testConfig(t), "1", device.NewManualInput(), spots, nil)
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}
	spots[0] = spot.Spot{X: 999, Y: 999}
	if m.spots[0] != testSpots[0] {
		t.Error("monitor spots changed with caller's slice")
	}
}

func TestSnapshots(t *testing.T) {
	c := testConfig(t)
	c.SnapshotDir = t.TempDir()
	r, err := render.New(validated(t, c))
	if err != nil {
		t.Fatalf("could not create renderer: %v", err)
	}
	s, err := render.NewSnapshotter(c.SnapshotDir, time.Hour)
	if err != nil {
		t.Fatalf("could not create snapshotter: %v", err)
	}

	in := device.NewManualInput()
	m, err := New(c, "4", in, testSpots, nil, WithSnapshots(r, s))
	if err != nil {
		t.Fatalf("did not expect error from New: %v", err)
	}
	errc := run(context.Background(), m)
	in.Write(frame(200, 200))
	in.Stop()
	if err := result(t, errc); err != nil {
		t.Errorf("did not expect error from Run: %v", err)
	}

	_, err = os.Stat(s.Path("4"))
	if err != nil {
		t.Errorf("expected snapshot to be written: %v", err)
	}

	_, err = New(c, "4", in, testSpots, nil, WithSnapshots(nil, s))
	if err == nil {
		t.Error("expected error for snapshots without renderer")
	}
}

func TestNoSource(t *testing.T) {
	_, err := New(testConfig(t), "1", nil, testSpots, nil)
	if err == nil {
		t.Error("expected error for nil source")
	}
}

func validated(t *testing.T, c config.Config) config.Config {
	err := c.Validate()
	if err != nil {
		t.Fatalf("config struct is bad: %v", err)
	}
	return c
}
