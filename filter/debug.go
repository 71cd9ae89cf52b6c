//go:build debug && withcv
// +build debug,withcv

/*
DESCRIPTION
  Displays debug information for the CV filter.

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
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// debugWindows shows each frame next to the mask the CV filter made of it.
type debugWindows struct {
	frame, mask *gocv.Window
}

func newWindows(name string) debugWindows {
	return debugWindows{
		frame: gocv.NewWindow(name + ": Video"),
		mask:  gocv.NewWindow(name + ": Mask"),
	}
}

func (d *debugWindows) close() error {
	err := d.frame.Close()
	if err != nil {
		return err
	}
	return d.mask.Close()
}

// show draws text and the active fraction of mask onto a copy of img.
func (d *debugWindows) show(img, mask gocv.Mat, text ...string) {
	textColour := color.RGBA{191, 0, 0, 0}

	im := img.Clone()
	defer im.Close()

	if n := mask.Rows() * mask.Cols(); n > 0 {
		text = append(text, fmt.Sprintf("Active: %.1f%%", 100*float64(gocv.CountNonZero(mask))/float64(n)))
	}
	for i, line := range text {
		gocv.PutText(&im, line, image.Pt(32, 32*(i+1)), gocv.FontHersheyPlain, 2.0, textColour, 2)
	}

	d.frame.IMShow(im)
	d.mask.IMShow(mask)
	d.frame.WaitKey(1)
}
