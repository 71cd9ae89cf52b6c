/*
DESCRIPTION
  group.go provides Group, which runs a Monitor for each configured source
  concurrently.

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
	"fmt"
	"strconv"
	"sync"

	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/spot"
)

// Group runs one Monitor per source. Every monitor reads the same spots and
// writes to the same Recorder.
type Group struct {
	cfg      config.Config
	monitors []*Monitor

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	errs    device.MultiError
	running bool
}

// NewGroup returns a Group monitoring each of c.Sources. The camera
// identifier of a source is its 1-based position in c.Sources.
func NewGroup(c config.Config, spots []spot.Spot, rec Recorder, opts ...Option) (*Group, error) {
	if len(c.Sources) == 0 {
		return nil, errors.New("no sources to monitor")
	}
	g := &Group{cfg: c}
	for i, path := range c.Sources {
		src, err := NewSource(c, path)
		if err != nil {
			return nil, fmt.Errorf("could not create source %q: %w", path, err)
		}
		m, err := New(c, strconv.Itoa(i+1), src, spots, rec, opts...)
		if err != nil {
			return nil, fmt.Errorf("could not create monitor for %q: %w", path, err)
		}
		g.monitors = append(g.monitors, m)
	}
	return g, nil
}

// Monitors returns the monitors of g in source order.
func (g *Group) Monitors() []*Monitor { return g.monitors }

// Start runs every monitor in its own goroutine until ctx is cancelled, Stop
// is called or the monitor ends.
func (g *Group) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.cfg.Logger.Warning("start called, but group already running")
		return
	}
	g.running = true
	g.errs = nil

	ctx, g.cancel = context.WithCancel(ctx)
	for _, m := range g.monitors {
		g.wg.Add(1)
		go func(m *Monitor) {
			defer g.wg.Done()
			err := m.Run(ctx)
			if err == nil {
				g.cfg.Logger.Info("monitor finished", "camera", m.camera)
				return
			}
			g.cfg.Logger.Error("monitor failed", "camera", m.camera, "error", err.Error())
			g.mu.Lock()
			g.errs = append(g.errs, fmt.Errorf("camera %s: %w", m.camera, err))
			g.mu.Unlock()
		}(m)
	}
	g.cfg.Logger.Info("monitors started", "count", len(g.monitors))
}

// Stop cancels every monitor and waits for them to finish. It returns the
// same as Wait.
func (g *Group) Stop() error {
	g.mu.Lock()
	cancel := g.cancel
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return g.Wait()
}

// Wait waits for every monitor to finish. The returned error is a
// device.MultiError of the monitors that failed, or nil.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
	if len(g.errs) == 0 {
		return nil
	}
	return append(device.MultiError(nil), g.errs...)
}
