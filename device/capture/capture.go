//go:build withcv
// +build withcv

/*
DESCRIPTION
  capture.go provides an implementation of Source using an OpenCV video
  capture, for cameras and any file OpenCV can open.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package capture

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

// Capture is an implementation of the Source interface backed by a
// gocv.VideoCapture.
type Capture struct {
	path      string
	vc        *gocv.VideoCapture
	frame     gocv.Mat
	loop      bool
	isRunning bool
	log       logging.Logger
	mu        sync.Mutex
}

// New returns a new Capture. A path of the form camera:N opens camera N.
func New(l logging.Logger, path string) *Capture {
	return &Capture{log: l, path: path, loop: true}
}

// Name returns the name of the device.
func (c *Capture) Name() string { return "Capture" }

// Set considers the SinglePass field of cfg. Cameras are never looped.
func (c *Capture) Set(cfg config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, cam := CameraID(c.path)
	c.loop = !cfg.SinglePass && !cam
	return nil
}

// Start opens the capture.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if id, ok := CameraID(c.path); ok {
		vc, err = gocv.OpenVideoCapture(id)
	} else {
		vc, err = gocv.OpenVideoCapture(c.path)
	}
	if err != nil {
		return fmt.Errorf("could not open video capture: %w", err)
	}
	c.vc = vc
	c.frame = gocv.NewMat()
	c.isRunning = true
	c.log.Info("video capture opened", "path", c.path)
	return nil
}

// Stop closes the capture.
func (c *Capture) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isRunning {
		return nil
	}
	c.isRunning = false
	c.frame.Close()
	return c.vc.Close()
}

// IsRunning is used to determine if the capture is open.
func (c *Capture) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// Frame reads the next frame. When a looped file is exhausted the capture
// is rewound and device.ErrNoFrame returned.
func (c *Capture) Frame() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isRunning {
		return nil, errors.New("video capture not started")
	}

	if ok := c.vc.Read(&c.frame); !ok || c.frame.Empty() {
		if !c.loop {
			return nil, io.EOF
		}
		c.log.Info("looping video capture", "path", c.path)
		c.vc.Set(gocv.VideoCapturePosFrames, 0)
		return nil, device.ErrNoFrame
	}

	img, err := c.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: could not convert frame: %v", device.ErrNoFrame, err)
	}
	return img, nil
}
