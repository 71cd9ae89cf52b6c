//go:build !debug && withcv
// +build !debug,withcv

/*
DESCRIPTION
  Replaces the CV filter debug windows in builds without the debug tag.

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

import "gocv.io/x/gocv"

// debugWindows does nothing without the debug tag.
type debugWindows struct{}

func newWindows(string) debugWindows { return debugWindows{} }
func (debugWindows) close() error { return nil }
func (debugWindows) show(gocv.Mat, gocv.Mat, ...string) {}
