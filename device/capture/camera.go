/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package capture provides an implementation of Source using OpenCV video
// capture. It requires the withcv build tag.
package capture

import (
	"strconv"
	"strings"
)

// CameraPrefix marks a source path naming a camera by index.
const CameraPrefix = "camera:"

// CameraID returns the camera index of a path of the form camera:N.
func CameraID(path string) (int, bool) {
	if !strings.HasPrefix(path, CameraPrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(path, CameraPrefix))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
