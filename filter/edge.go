/*
DESCRIPTION
  A filter that marks edge and texture pixels of a frame. Each frame is
  converted to grey, blurred, adaptively thresholded against its local mean,
  median filtered to remove speckle and finally dilated so marked regions
  grow slightly.

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

	"github.com/ausocean/parkwatch/monitor/config"
)

const (
	defaultBlurKernel       = 3
	defaultBlurSigma        = 1.0
	defaultThresholdBlock   = 25
	defaultThresholdOffset  = 16.0
	defaultMedianKernel     = 5
	defaultDilateKernel     = 3
	defaultDilateIterations = 1
)

// params holds the validated parameters shared by the filter backends.
type params struct {
	blur      int
	sigma     float64
	block     int
	offset    float64
	median    int
	dilate    int
	iteration int
}

func newParams(c config.Config) params {
	// Validate parameters.
	if c.BlurKernel == 0 || c.BlurKernel%2 == 0 {
		c.LogInvalidField("BlurKernel", defaultBlurKernel)
		c.BlurKernel = defaultBlurKernel
	}
	if c.BlurSigma <= 0 {
		c.LogInvalidField("BlurSigma", defaultBlurSigma)
		c.BlurSigma = defaultBlurSigma
	}
	if c.ThresholdBlock < 3 || c.ThresholdBlock%2 == 0 {
		c.LogInvalidField("ThresholdBlock", defaultThresholdBlock)
		c.ThresholdBlock = defaultThresholdBlock
	}
	if c.ThresholdOffset == 0 {
		c.LogInvalidField("ThresholdOffset", defaultThresholdOffset)
		c.ThresholdOffset = defaultThresholdOffset
	}
	if c.MedianKernel == 0 || c.MedianKernel%2 == 0 {
		c.LogInvalidField("MedianKernel", defaultMedianKernel)
		c.MedianKernel = defaultMedianKernel
	}
	if c.DilateKernel == 0 || c.DilateKernel%2 == 0 {
		c.LogInvalidField("DilateKernel", defaultDilateKernel)
		c.DilateKernel = defaultDilateKernel
	}
	if c.DilateIterations == 0 {
		c.LogInvalidField("DilateIterations", defaultDilateIterations)
		c.DilateIterations = defaultDilateIterations
	}

	return params{
		blur:      int(c.BlurKernel),
		sigma:     c.BlurSigma,
		block:     int(c.ThresholdBlock),
		offset:    c.ThresholdOffset,
		median:    int(c.MedianKernel),
		dilate:    int(c.DilateKernel),
		iteration: int(c.DilateIterations),
	}
}

// Edge is a pure Go edge and texture filter. It holds no per-frame state and
// may be shared between goroutines.
type Edge struct {
	p    params
	blur []float64
}

// NewEdge returns a pointer to a new Edge filter struct.
func NewEdge(c config.Config) *Edge {
	p := newParams(c)
	return &Edge{p: p, blur: gaussianKernel(p.blur, p.sigma)}
}

// Apply implements Filter.
func (e *Edge) Apply(img image.Image) *image.Gray {
	g := grey(img)
	g = convolve(g, e.blur, reflect101)
	g = adaptiveThreshold(g, e.p.block, e.p.offset)
	g = median(g, e.p.median)
	return dilate(g, e.p.dilate, e.p.iteration)
}

// Close implements Filter.
func (e *Edge) Close() error { return nil }
