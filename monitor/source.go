/*
DESCRIPTION
  source.go provides selection and configuration of the frame source of a
  monitored video path.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ausocean/parkwatch/device"
	"github.com/ausocean/parkwatch/device/capture"
	"github.com/ausocean/parkwatch/device/ffmpeg"
	"github.com/ausocean/parkwatch/device/file"
	"github.com/ausocean/parkwatch/device/imgdir"
	"github.com/ausocean/parkwatch/monitor/config"
)

// NewSource returns a configured frame source for path. The kind of source
// is given by c.Input; with config.InputAuto it is chosen from path: camera:N
// opens an OpenCV capture, a directory gives an image directory source,
// .mjpeg and .mjpg files are read directly and anything else is decoded by
// ffmpeg.
func NewSource(c config.Config, path string) (device.Source, error) {
	input := c.Input
	if input == config.InputAuto {
		input = inputFor(path)
	}

	var src device.Source
	switch input {
	case config.InputFile:
		c.Logger.Debug("using file input", "path", path)
		src = file.New(c.Logger, path)
	case config.InputDir:
		c.Logger.Debug("using image directory input", "path", path)
		src = imgdir.New(c.Logger, path)
	case config.InputFFmpeg:
		c.Logger.Debug("using ffmpeg input", "path", path)
		src = ffmpeg.New(c.Logger, path)
	case config.InputCV:
		c.Logger.Debug("using capture input", "path", path)
		src = capture.New(c.Logger, path)
	default:
		return nil, fmt.Errorf("unrecognised input type: %v", c.Input)
	}

	// Defaults are set, so configuration errors are only logged.
	err := src.Set(c)
	if err != nil {
		c.Logger.Warning("errors from configuring source", "path", path, "errors", err)
	}
	return src, nil
}

func inputFor(path string) uint8 {
	if _, ok := capture.CameraID(path); ok {
		return config.InputCV
	}
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return config.InputDir
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjpeg", ".mjpg":
		return config.InputFile
	}
	return config.InputFFmpeg
}
