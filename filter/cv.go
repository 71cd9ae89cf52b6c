//go:build withcv
// +build withcv

/*
DESCRIPTION
  An edge and texture filter performing the same steps as Edge using OpenCV.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/utils/logging"
)

// CV is an edge and texture filter backed by gocv.
type CV struct {
	debugging debugWindows
	p         params
	knl       gocv.Mat // Dilation structuring element.
	fallback  *Edge    // Used for frames gocv cannot convert.
	log       logging.Logger
}

// NewCV returns a pointer to a new CV filter.
func NewCV(c config.Config) Filter {
	p := newParams(c)
	return &CV{
		debugging: newWindows("PARKWATCH"),
		p:         p,
		knl:       gocv.GetStructuringElement(gocv.MorphRect, image.Pt(p.dilate, p.dilate)),
		fallback:  &Edge{p: p, blur: gaussianKernel(p.blur, p.sigma)},
		log:       c.Logger,
	}
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (f *CV) Close() error {
	f.knl.Close()
	return f.debugging.close()
}

// Apply implements Filter.
func (f *CV) Apply(img image.Image) *image.Gray {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		f.log.Warning("cannot convert frame to mat, using go filter", "error", err.Error())
		return f.fallback.Apply(img)
	}
	defer src.Close()

	grey := gocv.NewMat()
	defer grey.Close()
	gocv.CvtColor(src, &grey, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(grey, &blurred, image.Pt(f.p.blur, f.p.blur), f.p.sigma, f.p.sigma, gocv.BorderReflect101)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blurred, &thresh, Active, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, f.p.block, float32(f.p.offset))

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MedianBlur(thresh, &mask, f.p.median)

	// Grow marked regions.
	for i := 0; i < f.p.iteration; i++ {
		gocv.Dilate(mask, &mask, f.knl)
	}

	f.debugging.show(src, mask)

	out, err := mask.ToImage()
	if err != nil {
		f.log.Warning("cannot convert mask to image, using go filter", "error", err.Error())
		return f.fallback.Apply(img)
	}
	g, ok := out.(*image.Gray)
	if !ok {
		f.log.Warning("unexpected mask image type, using go filter")
		return f.fallback.Apply(img)
	}
	return g
}
