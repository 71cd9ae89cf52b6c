/*
DESCRIPTION
  occupancy.go provides classification of parking spots as free or occupied
  by counting active mask pixels inside each spot rectangle.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package occupancy evaluates spot occupancy from binary activity masks.
package occupancy

import (
	"errors"
	"fmt"
	"image"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/spot"
)

// ErrFrameSize is returned when a mask does not have the configured frame
// dimensions.
var ErrFrameSize = errors.New("mask does not match configured frame size")

// SpotResult is the evaluation of a single spot.
type SpotResult struct {
	Index    int       // Position of the spot in the evaluated list.
	Spot     spot.Spot // The evaluated spot.
	Count    int       // Active pixels inside the clipped spot rectangle.
	Occupied bool
}

// Result is the evaluation of every spot for one mask.
type Result struct {
	Free  int
	Spots []SpotResult
}

// Total returns the number of evaluated spots.
func (r Result) Total() int { return len(r.Spots) }

// Occupied returns the number of occupied spots.
func (r Result) Occupied() int { return r.Total() - r.Free }

// Evaluator classifies spots against a fixed pixel count threshold. It holds
// no mutable state and may be shared between goroutines.
type Evaluator struct {
	w, h      int
	threshold int
	frame     image.Point
}

// NewEvaluator returns an Evaluator using the spot dimensions, occupancy
// threshold and frame size of c.
func NewEvaluator(c config.Config) *Evaluator {
	return &Evaluator{
		w:         int(c.SpotWidth),
		h:         int(c.SpotHeight),
		threshold: int(c.OccupancyThreshold),
		frame:     image.Pt(int(c.FrameWidth), int(c.FrameHeight)),
	}
}

// Evaluate classifies each spot of spots against mask. A spot is occupied
// when the number of non-zero mask pixels inside its rectangle, clipped to
// the mask, is at least the threshold. Results are in the order of spots.
func (e *Evaluator) Evaluate(mask *image.Gray, spots []spot.Spot) (Result, error) {
	b := mask.Bounds()
	if e.frame != (image.Point{}) && b.Size() != e.frame {
		return Result{}, fmt.Errorf("%w: got %v, want %v", ErrFrameSize, b.Size(), e.frame)
	}

	res := Result{Spots: make([]SpotResult, len(spots))}
	for i, s := range spots {
		n := CountActive(mask, s.Rect(e.w, e.h).Add(b.Min))
		occ := n >= e.threshold
		if !occ {
			res.Free++
		}
		res.Spots[i] = SpotResult{Index: i, Spot: s, Count: n, Occupied: occ}
	}
	return res, nil
}

// CountActive returns the number of non-zero pixels of mask within r. Parts
// of r outside the mask are ignored.
func CountActive(mask *image.Gray, r image.Rectangle) int {
	r = r.Intersect(mask.Bounds())
	var n int
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := mask.PixOffset(r.Min.X, y)
		for _, v := range mask.Pix[off : off+r.Dx()] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
