//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the OpenCV capture Source in builds without OpenCV.

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
	"image"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

var errNoCV = errors.New("capture source requires a build with the withcv tag")

// Capture is a placeholder that can never be started.
type Capture struct{}

// New returns a new Capture.
func New(l logging.Logger, path string) *Capture { return &Capture{} }

func (c *Capture) Name() string                { return "Capture" }
func (c *Capture) Set(cfg config.Config) error { return nil }
func (c *Capture) Start() error                { return errNoCV }
func (c *Capture) Stop() error                 { return nil }
func (c *Capture) IsRunning() bool             { return false }
func (c *Capture) Frame() (image.Image, error) { return nil, errNoCV }
