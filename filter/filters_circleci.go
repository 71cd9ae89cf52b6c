//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces filters that use the gocv package when Circle-CI builds parkwatch.
  This is needed because Circle-CI does not have a copy of Open CV installed.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"github.com/ausocean/parkwatch/monitor/config"
)

// NewCV returns the pure Go Edge filter, since this build has no OpenCV.
func NewCV(c config.Config) Filter {
	c.Logger.Warning("built without withcv tag, using go filter backend")
	return NewEdge(c)
}
