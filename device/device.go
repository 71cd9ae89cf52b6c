/*
DESCRIPTION
  device.go provides Source, an interface that describes a configurable
  video source that can be started and stopped from which frames may be
  obtained.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for video sources
// that can be started and stopped from which frames can be obtained.
package device

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/ausocean/parkwatch/monitor/config"
)

// ErrNoFrame is returned, possibly wrapped, by Frame when a frame could not
// be obtained or decoded but later frames may be. Callers should skip the
// frame and ask again.
var ErrNoFrame = errors.New("no frame available")

// Source describes a configurable video source from which frames can be
// obtained. When a finite source is exhausted and does not restart, Frame
// returns io.EOF.
type Source interface {
	// Name returns the name of the Source.
	Name() string

	// Set allows for configuration of the Source using a Config struct. All,
	// some or none of the fields of the Config struct may be used for configuration
	// by an implementation. An implementation should specify what fields are
	// considered.
	Set(c config.Config) error

	// Start will start the Source capturing frames; after which the Frame
	// method may be called to obtain them.
	Start() error

	// Stop will stop the Source from capturing frames. From this point calls
	// to Frame will no longer be successful. Stop may be called from another
	// goroutine to unblock a pending Frame, and may be called more than once.
	Stop() error

	// IsRunning is used to determine if the source is running.
	IsRunning() bool

	// Frame returns the next frame.
	Frame() (image.Image, error)
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multiple errors, such as those from validation of configuration
// parameters for a Source or those from concurrently running monitors.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}

// Unwrap allows errors.Is and errors.As to inspect each error.
func (me MultiError) Unwrap() []error { return me }

// ManualInput is an implementation of the Source interface that represents
// a manual input mechanism, i.e. frames are written to this input manually
// through software. Every Write blocks until a matching call to Frame takes
// the frame, or the input is stopped. Writes and a Stop made before Start
// are kept, so a writer need not wait for the reader to start. Once stopped
// the input stays stopped.
type ManualInput struct {
	mu        sync.Mutex
	isRunning bool
	stopped   bool
	frames    chan image.Image
	done      chan struct{}
}

// NewManualInput provides a new ManualInput.
func NewManualInput() *ManualInput {
	return &ManualInput{
		frames: make(chan image.Image),
		done:   make(chan struct{}),
	}
}

// Name returns the name of ManualInput i.e. "ManualInput".
func (m *ManualInput) Name() string { return "ManualInput" }

// Set is a stub to satisfy the Source interface; no configuration fields are
// required by ManualInput.
func (m *ManualInput) Set(c config.Config) error { return nil }

// Start sets the ManualInput isRunning flag to true. Starting a stopped
// input has no effect.
func (m *ManualInput) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stopped {
		m.isRunning = true
	}
	return nil
}

// Stop releases any blocked Write or Frame and sets the isRunning flag to
// false.
func (m *ManualInput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stopped {
		m.stopped = true
		close(m.done)
	}
	m.isRunning = false
	return nil
}

// IsRunning returns the value of the isRunning flag to indicate if Start has
// been called (and Stop has not been called after).
func (m *ManualInput) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

// Write passes img to the next call to Frame. A nil img is reported by
// Frame as ErrNoFrame.
func (m *ManualInput) Write(img image.Image) error {
	select {
	case <-m.done:
		return errors.New("manual input stopped, can't write")
	default:
	}
	select {
	case m.frames <- img:
		return nil
	case <-m.done:
		return errors.New("manual input stopped during write")
	}
}

// Frame returns the next written frame. Once the input is stopped Frame
// returns io.EOF.
func (m *ManualInput) Frame() (image.Image, error) {
	select {
	case <-m.done:
		return nil, io.EOF
	default:
	}
	select {
	case img := <-m.frames:
		if img == nil {
			return nil, ErrNoFrame
		}
		return img, nil
	case <-m.done:
		return nil, io.EOF
	}
}
