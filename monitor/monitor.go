/*
DESCRIPTION
  monitor.go provides Monitor, the processing loop that takes frames from a
  source, classifies the parking spots of each and records the result.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package monitor provides parking spot monitoring of one or more video
// sources.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/filter"
	"github.com/ausocean/parkwatch/metrics"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/occupancy"
	"github.com/ausocean/parkwatch/render"
	"github.com/ausocean/parkwatch/spot"
)

// Recorder is the monitoring log sink. Record is called once per processed
// frame and must be safe for concurrent use by several monitors.
type Recorder interface {
	Record(camera string, free, total int) error
}

// Option configures a Monitor.
type Option func(*Monitor) error

// WithMetrics reports every frame to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(mon *Monitor) error {
		mon.metrics = m
		return nil
	}
}

// WithSnapshots draws annotated frames with r and saves them with s.
func WithSnapshots(r *render.Renderer, s *render.Snapshotter) Option {
	return func(mon *Monitor) error {
		if r == nil || s == nil {
			return errors.New("snapshots need a renderer and a snapshotter")
		}
		mon.renderer, mon.snap = r, s
		return nil
	}
}

// WithFilter replaces the filter chosen by the config Backend.
func WithFilter(f filter.Filter) Option {
	return func(mon *Monitor) error {
		mon.filter = f
		return nil
	}
}

// WithClock sets the time source used for timing and snapshots.
func WithClock(now func() time.Time) Option {
	return func(mon *Monitor) error {
		mon.now = now
		return nil
	}
}

// Monitor runs the processing loop of one camera.
type Monitor struct {
	cfg    config.Config
	camera string
	src    device.Source
	spots  []spot.Spot
	rec    Recorder
	filter filter.Filter
	eval   *occupancy.Evaluator

	metrics  *metrics.Metrics
	renderer *render.Renderer
	snap     *render.Snapshotter
	now      func() time.Time

	// fps is a running estimate of the processing rate.
	fps float64
	at  time.Time

	mu     sync.Mutex
	last   occupancy.Result
	frames uint64
}

// New returns a Monitor of camera taking frames from src. The monitor keeps
// its own copy of spots. A nil rec disables recording.
func New(c config.Config, camera string, src device.Source, spots []spot.Spot, rec Recorder, opts ...Option) (*Monitor, error) {
	if src == nil {
		return nil, errors.New("monitor needs a source")
	}
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("config struct is bad: %w", err)
	}

	m := &Monitor{
		cfg:    c,
		camera: camera,
		src:    src,
		spots:  append([]spot.Spot(nil), spots...),
		rec:    rec,
		eval:   occupancy.NewEvaluator(c),
		now:    time.Now,
	}
	for _, opt := range opts {
		err := opt(m)
		if err != nil {
			return nil, err
		}
	}
	if m.filter == nil {
		m.filter = filter.New(c)
	}
	return m, nil
}

// Camera returns the camera identifier of m.
func (m *Monitor) Camera() string { return m.camera }

// Last returns the result of the most recently processed frame and the
// number of frames processed.
func (m *Monitor) Last() (occupancy.Result, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.frames
}

// Run starts the source and processes frames until ctx is cancelled or the
// source ends. Cancellation is checked once per frame; a frame being
// processed is finished first. Run returns nil on cancellation or at the end
// of the source, and an error if the source fails or a frame does not have
// the configured size.
func (m *Monitor) Run(ctx context.Context) error {
	l := m.cfg.Logger

	l.Debug("starting source", "camera", m.camera, "source", m.src.Name())
	err := m.src.Start()
	if err != nil {
		return fmt.Errorf("could not start source: %w", err)
	}
	l.Info("source started", "camera", m.camera)

	// Stopping the source releases a blocked Frame call.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			m.src.Stop()
		case <-done:
		}
	}()
	defer func() {
		close(done)
		err := m.src.Stop()
		if err != nil {
			l.Error("could not stop source", "camera", m.camera, "error", err.Error())
			return
		}
		l.Info("source stopped", "camera", m.camera)
	}()

	// Calculate delay between frames if the FileFPS != 0. Otherwise use no delay.
	var tick <-chan time.Time
	if m.cfg.FileFPS != 0 {
		t := time.NewTicker(time.Second / time.Duration(m.cfg.FileFPS))
		defer t.Stop()
		tick = t.C
	}

	for {
		if !wait(ctx, tick) {
			return nil
		}

		img, err := m.src.Frame()
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, io.EOF):
			l.Info("end of source", "camera", m.camera)
			return nil
		case errors.Is(err, device.ErrNoFrame):
			l.Debug("skipping frame", "camera", m.camera, "error", err.Error())
			if m.metrics != nil {
				m.metrics.Skip(m.camera)
			}
			continue
		default:
			return fmt.Errorf("could not get frame: %w", err)
		}

		err = m.process(img)
		if err != nil {
			return err
		}
	}
}

// wait blocks until the next tick, returning false if ctx is done first. A
// nil tick does not block.
func wait(ctx context.Context, tick <-chan time.Time) bool {
	if tick == nil {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-tick:
		return true
	}
}

// process filters and evaluates one frame, then publishes the result.
func (m *Monitor) process(img image.Image) error {
	start := m.now()
	mask := m.filter.Apply(img)

	// Lock the session to the size of the first frame.
	if m.cfg.FrameWidth == 0 {
		sz := mask.Bounds().Size()
		m.cfg.FrameWidth, m.cfg.FrameHeight = uint(sz.X), uint(sz.Y)
		m.eval = occupancy.NewEvaluator(m.cfg)
		m.cfg.Logger.Info("frame size set", "camera", m.camera, "width", sz.X, "height", sz.Y)
	}

	res, err := m.eval.Evaluate(mask, m.spots)
	if err != nil {
		return fmt.Errorf("could not evaluate frame: %w", err)
	}

	now := m.now()
	m.updateFPS(now)
	m.mu.Lock()
	m.last = res
	m.frames++
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.Observe(m.camera, res, now.Sub(start))
	}

	if m.snap != nil && m.snap.Due(m.camera, now) {
		out := m.renderer.Draw(img, res, render.Info{FPS: m.fps, Camera: m.camera})
		_, err := m.snap.Save(m.camera, out, now)
		if err != nil {
			m.cfg.Logger.Warning("could not save snapshot", "camera", m.camera, "error", err.Error())
		}
	}

	if m.rec != nil {
		err := m.rec.Record(m.camera, res.Free, res.Total())
		if err != nil {
			m.cfg.Logger.Error("could not record result", "camera", m.camera, "error", err.Error())
		}
	}
	m.cfg.Logger.Debug("frame processed", "camera", m.camera, "free", res.Free, "total", res.Total())
	return nil
}

// updateFPS smooths the rate of processed frames. With a paced source the
// configured rate is reported.
func (m *Monitor) updateFPS(now time.Time) {
	const alpha = 0.1
	switch {
	case m.cfg.FileFPS != 0:
		m.fps = float64(m.cfg.FileFPS)
	case m.at.IsZero():
	default:
		dt := now.Sub(m.at).Seconds()
		if dt <= 0 {
			break
		}
		if m.fps == 0 {
			m.fps = 1 / dt
		} else {
			m.fps += alpha * (1/dt - m.fps)
		}
	}
	m.at = now
}
