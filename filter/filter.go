/*
NAME
  filter.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the interface and implementations of the filters
// that turn colour video frames into binary activity masks.
package filter

import (
	"image"

	"github.com/ausocean/parkwatch/monitor/config"
)

// Active is the mask value of a pixel judged to be part of an edge or
// texture. Every other pixel is 0.
const Active = 0xff

// Interface for all filters.
type Filter interface {
	// Apply returns a mask with the width and height of img whose pixels are
	// either 0 or Active. Apply must not modify img and must be safe to call
	// from multiple goroutines.
	Apply(img image.Image) *image.Gray

	// Close frees any resources held by the filter.
	Close() error
}

// New returns the filter selected by c.Backend.
func New(c config.Config) Filter {
	switch c.Backend {
	case config.BackendCV:
		return NewCV(c)
	default:
		return NewEdge(c)
	}
}
