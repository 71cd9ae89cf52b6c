/*
DESCRIPTION
  monitor.go provides the monitor command, which runs a monitor group until
  signalled, restarting it whenever the config file changes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/ausocean/parkwatch/metrics"
	"github.com/ausocean/parkwatch/monitor"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/render"
	"github.com/ausocean/parkwatch/store"
	"github.com/ausocean/utils/logging"
)

const (
	reloadSettle    = 250 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// runMonitor monitors every configured source until interrupted. A change to
// the config file stops the monitors, re-reads the config and starts them
// again; a bad config file keeps the previous config.
func runMonitor(ctx context.Context, cfgPath string, overrides map[string]string, l logging.Logger) error {
	c, err := loadConfig(cfgPath, overrides, l)
	if err != nil {
		return err
	}

	db, err := store.Open(c.DBPath, l)
	if err != nil {
		return err
	}
	defer db.Close()

	run := uuid.NewString()
	rec := db.Recorder(run)
	l.Info("monitoring run started", "run", run)

	m := metrics.New()
	if c.MetricsAddr != "" {
		srv := serveMetrics(c.MetricsAddr, m, l)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reload <-chan struct{}
	if cfgPath != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("could not create config watcher: %w", err)
		}
		defer w.Close()
		// Editors often replace the file, so the directory is watched.
		err = w.Add(filepath.Dir(cfgPath))
		if err != nil {
			return fmt.Errorf("could not watch config: %w", err)
		}
		reload = watchConfig(ctx, w, cfgPath, l)
	}

	notify(l, daemon.SdNotifyReady)
	for {
		g, err := newGroup(c, db, rec, m)
		if err != nil {
			return err
		}
		g.Start(ctx)
		done := make(chan error, 1)
		go func() { done <- g.Wait() }()

		select {
		case err := <-done:
			// Only single pass sources end by themselves.
			l.Info("all monitors finished")
			return err
		case <-ctx.Done():
			l.Info("stopping monitors")
			notify(l, daemon.SdNotifyStopping)
			g.Stop()
			return <-done
		case <-reload:
			notify(l, daemon.SdNotifyReloading)
			l.Info("config changed, restarting monitors")
			err := g.Stop()
			if err != nil {
				l.Warning("monitors failed before reload", "error", err.Error())
			}
			<-done
			nc, err := loadConfig(cfgPath, overrides, l)
			if err != nil {
				l.Error("could not reload config, keeping previous", "error", err.Error())
			} else {
				if nc.MetricsAddr != c.MetricsAddr || nc.DBPath != c.DBPath {
					l.Warning("MetricsAddr and DBPath changes need a restart")
				}
				c = nc
			}
			notify(l, daemon.SdNotifyReady)
		}
	}
}

// newGroup builds the monitor group of c using the spots currently saved.
func newGroup(c config.Config, db *store.DB, rec monitor.Recorder, m *metrics.Metrics) (*monitor.Group, error) {
	spots, err := db.LoadSpots(c.SpotsKey)
	if err != nil {
		return nil, err
	}
	if len(spots) == 0 {
		c.Logger.Warning("no parking spots defined", "key", c.SpotsKey)
	}

	opts := []monitor.Option{monitor.WithMetrics(m)}
	if c.SnapshotDir != "" {
		r, err := render.New(c)
		if err != nil {
			return nil, err
		}
		s, err := render.NewSnapshotter(c.SnapshotDir, c.SnapshotInterval)
		if err != nil {
			return nil, err
		}
		opts = append(opts, monitor.WithSnapshots(r, s))
	}
	return monitor.NewGroup(c, spots, rec, opts...)
}

func serveMetrics(addr string, m *metrics.Metrics, l logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		l.Info("serving metrics", "addr", addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics server failed", "error", err.Error())
		}
	}()
	return srv
}

// watchConfig signals on the returned channel when the file at path is
// written, created or replaced. Bursts of events are coalesced.
func watchConfig(ctx context.Context, w *fsnotify.Watcher, path string, l logging.Logger) <-chan struct{} {
	path = filepath.Clean(path)
	reload := make(chan struct{}, 1)
	go func() {
		var settle <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				l.Debug("config event", "event", ev.String())
				settle = time.After(reloadSettle)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.Warning("config watcher error", "error", err.Error())
			case <-settle:
				settle = nil
				select {
				case reload <- struct{}{}:
				default:
				}
			}
		}
	}()
	return reload
}

// notify sends state to systemd. It does nothing when not run by systemd.
func notify(l logging.Logger, state string) {
	ok, err := daemon.SdNotify(false, state)
	if err != nil {
		l.Warning("could not notify systemd", "state", state, "error", err.Error())
		return
	}
	if ok {
		l.Debug("notified systemd", "state", state)
	}
}
