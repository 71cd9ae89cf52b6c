/*
DESCRIPTION
  file.go provides an implementation of the Source interface for MJPEG files.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an implementation of Source for MJPEG files.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"sync"

	mjpeg "github.com/ausocean/parkwatch/codec/jpeg"
	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

// MJPEG is an implementation of the Source interface for a file of
// concatenated JPEG images.
type MJPEG struct {
	f         *os.File
	s         *mjpeg.Scanner
	path      string
	loop      bool
	isRunning bool
	log       logging.Logger
	mu        sync.Mutex
}

// New returns a new MJPEG reading from path. The file restarts from the
// beginning when exhausted unless Set is called with SinglePass.
func New(l logging.Logger, path string) *MJPEG { return &MJPEG{log: l, path: path, loop: true} }

// Name returns the name of the device.
func (m *MJPEG) Name() string {
	return "File"
}

// Set considers the SinglePass field of c.
func (m *MJPEG) Set(c config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loop = !c.SinglePass
	return nil
}

// Start will open the file at the path given to New.
func (m *MJPEG) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f != nil {
		return nil
	}
	var err error
	m.f, err = os.Open(m.path)
	if err != nil {
		return fmt.Errorf("could not open media file: %w", err)
	}
	m.s = mjpeg.NewScanner(m.f)
	m.isRunning = true
	return nil
}

// Stop will close the file such that any further calls to Frame will fail.
func (m *MJPEG) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	m.isRunning = false
	return err
}

// Frame implements Source. If Start has not been called, or Start has been
// called and Stop has since been called, an error is returned. An undecodable
// image yields an error wrapping device.ErrNoFrame.
func (m *MJPEG) Frame() (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil, errors.New("media file is closed, MJPEG not started")
	}

	b, err := m.s.Next()
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		if !m.loop {
			return nil, io.EOF
		}

		// In the case that we reach end of file, or a truncated final frame,
		// we seek to start and keep reading from there.
		m.log.Info("looping input file", "path", m.path)
		_, err = m.f.Seek(0, io.SeekStart)
		if err != nil {
			return nil, fmt.Errorf("could not seek to start of file for input loop: %w", err)
		}
		m.s = mjpeg.NewScanner(m.f)

		b, err = m.s.Next()
		if err != nil {
			return nil, fmt.Errorf("could not read after start seek: %w", err)
		}
	default:
		return nil, err
	}

	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: could not decode jpeg: %v", device.ErrNoFrame, err)
	}
	return img, nil
}

// IsRunning is used to determine if the MJPEG device is running.
func (m *MJPEG) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f != nil && m.isRunning
}
