/*
DESCRIPTION
  config.go provides the Config struct holding every tunable parameter of a
  parkwatch monitoring session, together with methods for validating and
  updating it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for parkwatch.
package config

import (
	"time"

	"github.com/ausocean/utils/logging"
)

// Enums to define inputs.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	// Inputs.
	InputAuto   // Choose by source path.
	InputFile   // MJPEG or concatenated JPEG file.
	InputDir    // Directory of still images.
	InputFFmpeg // Anything ffmpeg can decode.
	InputCV     // OpenCV capture, requires the withcv build tag.
)

// The frame filter backends.
const (
	BackendGo = iota
	BackendCV
)

// Config provides the parameters of a parkwatch monitoring session. A config
// must be validated before use; default values for unset or bad fields are
// defined in variables.go.
type Config struct {
	// Backend selects the frame filter implementation, one of BackendGo or
	// BackendCV. BackendCV needs a binary built with the withcv tag.
	Backend uint8

	BlurKernel uint    // Size of the square Gaussian blur kernel, must be odd.
	BlurSigma  float64 // Standard deviation of the Gaussian blur.

	// DBPath is the location of the sqlite database holding spot positions and
	// monitoring records.
	DBPath string

	DilateIterations uint // Number of dilation passes.
	DilateKernel     uint // Size of the square all-ones dilation element, must be odd.

	FileFPS uint // Defines the rate at which frames from a file source are processed. 0 is unpaced.

	// FrameWidth and FrameHeight define the expected processing size. Masks of
	// any other size are rejected. Zero means the size of the first frame of
	// a session is used.
	FrameWidth  uint
	FrameHeight uint

	// FreeColour and OccupiedColour are hex colours used when drawing spots.
	FreeColour     string
	OccupiedColour string

	// Input defines how sources are opened, one of the Input enums.
	Input uint8

	// Logger holds an implementation of the Logger interface. This must be
	// set for parkwatch to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	MedianKernel uint // Size of the median filter window, must be odd.

	// MetricsAddr is the listen address of the prometheus endpoint. Empty
	// disables it.
	MetricsAddr string

	// OccupancyThreshold is the minimum number of active pixels within a spot
	// for it to be classified occupied. It depends on the spot dimensions and
	// the camera resolution.
	OccupancyThreshold uint

	// SinglePass stops file sources at the end of the stream. By default
	// file sources restart from the beginning.
	SinglePass bool

	SnapshotDir      string        // Directory annotated frames are written to. Empty disables snapshots.
	SnapshotInterval time.Duration // Minimum time between snapshots of one camera.

	// Sources lists the video sources to monitor. Camera identifiers are the
	// 1-based positions in this list.
	Sources []string

	SpotWidth  uint // Width of every spot rectangle in pixels.
	SpotHeight uint // Height of every spot rectangle in pixels.

	// SpotsKey is the identifier under which the spot list is persisted.
	SpotsKey string

	Suppress bool // Holds logger suppression state.

	ThresholdBlock  uint    // Neighbourhood size of the adaptive threshold, must be odd.
	ThresholdOffset float64 // Constant subtracted from the local mean.

	// A zero ThresholdOffset means unset and is replaced by the default of
	// 16 by Validate, so an offset of exactly 0 cannot be configured. Use a
	// small value such as 0.5 instead, which thresholds the same way since
	// the offset is floored before comparison.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// SpotArea returns the number of pixels covered by one spot rectangle.
func (c *Config) SpotArea() uint { return c.SpotWidth * c.SpotHeight }
