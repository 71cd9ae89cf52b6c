/*
DESCRIPTION
  spot.go provides the parking spot model: rectangle anchors and the ordered
  list of them edited by a spot picker.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spot provides the parking spot rectangle and spot list types.
package spot

import (
	"errors"
	"image"
	"strconv"
)

// MaxCoord bounds spot coordinates well beyond any frame size, so that a
// spot rectangle cannot overflow.
const MaxCoord = 1 << 20

var (
	ErrNegative = errors.New("spot coordinates must not be negative")
	ErrTooLarge = errors.New("spot coordinates too large")
	ErrNoSpot   = errors.New("no spot with that label")
)

// Spot is the top-left corner of a parking spot rectangle. Every spot of a
// session shares the same width and height, which come from configuration.
type Spot struct {
	X, Y int
}

// Rect returns the half-open rectangle [X, X+w) x [Y, Y+h) covered by s.
func (s Spot) Rect(w, h int) image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+w, s.Y+h)
}

// Check returns ErrNegative or ErrTooLarge if s does not have valid
// coordinates.
func (s Spot) Check() error {
	switch {
	case s.X < 0 || s.Y < 0:
		return ErrNegative
	case s.X > MaxCoord || s.Y > MaxCoord:
		return ErrTooLarge
	}
	return nil
}

// contains reports whether the point lies strictly inside the rectangle of s.
// Points on an edge are not inside.
func (s Spot) contains(x, y, w, h int) bool {
	return s.X < x && x < s.X+w && s.Y < y && y < s.Y+h
}

// List is an ordered list of spots. The spot at index i is shown with label
// i+1. A List is not safe for concurrent modification; monitoring sessions
// take a Snapshot.
type List struct {
	spots []Spot
}

// NewList returns a list holding a copy of spots.
func NewList(spots []Spot) *List {
	return &List{spots: append([]Spot(nil), spots...)}
}

// Add appends a spot anchored at (x, y).
func (l *List) Add(x, y int) error {
	s := Spot{X: x, Y: y}
	err := s.Check()
	if err != nil {
		return err
	}
	l.spots = append(l.spots, s)
	return nil
}

// RemoveAt removes every spot whose w by h rectangle strictly contains the
// point (x, y) and returns the number removed. Remaining spots keep their
// relative order.
func (l *List) RemoveAt(x, y, w, h int) int {
	kept := l.spots[:0]
	for _, s := range l.spots {
		if !s.contains(x, y, w, h) {
			kept = append(kept, s)
		}
	}
	n := len(l.spots) - len(kept)
	l.spots = kept
	return n
}

// Delete removes the spot with the given 1-based label.
func (l *List) Delete(label int) error {
	i := label - 1
	if i < 0 || i >= len(l.spots) {
		return ErrNoSpot
	}
	l.spots = append(l.spots[:i], l.spots[i+1:]...)
	return nil
}

// Clear removes all spots.
func (l *List) Clear() { l.spots = nil }

// Len returns the number of spots.
func (l *List) Len() int { return len(l.spots) }

// Snapshot returns a copy of the spots for read-only use.
func (l *List) Snapshot() []Spot {
	return append([]Spot(nil), l.spots...)
}

// Label returns the display label of the spot at index i.
func Label(i int) string { return strconv.Itoa(i + 1) }
