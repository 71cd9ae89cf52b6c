/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package spot

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRect(t *testing.T) {
	got := Spot{X: 10, Y: 20}.Rect(103, 43)
	want := image.Rect(10, 20, 113, 63)
	if got != want {
		t.Errorf("unexpected rectangle\ngot: %v\nwant: %v", got, want)
	}
}

func TestAdd(t *testing.T) {
	l := &List{}
	for _, p := range [][2]int{{0, 0}, {50, 50}, {10, 5}} {
		err := l.Add(p[0], p[1])
		if err != nil {
			t.Fatalf("unexpected error adding %v: %v", p, err)
		}
	}
	err := l.Add(-1, 4)
	if !errors.Is(err, ErrNegative) {
		t.Errorf("expected ErrNegative, got %v", err)
	}
	err = l.Add(MaxCoord+1, 0)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}

	want := []Spot{{0, 0}, {50, 50}, {10, 5}}
	if !cmp.Equal(l.Snapshot(), want) {
		t.Errorf("unexpected spots\ngot: %v\nwant: %v", l.Snapshot(), want)
	}
}

func TestRemoveAt(t *testing.T) {
	tests := []struct {
		x, y int
		n    int
		want []Spot
	}{
		{x: 5, y: 5, n: 1, want: []Spot{{50, 50}, {60, 55}}},
		{x: 55, y: 55, n: 1, want: []Spot{{0, 0}, {60, 55}}},
		{x: 65, y: 58, n: 2, want: []Spot{{0, 0}}},

		// Edges are not inside.
		{x: 0, y: 5, n: 0, want: []Spot{{0, 0}, {50, 50}, {60, 55}}},
		{x: 20, y: 5, n: 0, want: []Spot{{0, 0}, {50, 50}, {60, 55}}},
		{x: 5, y: 10, n: 0, want: []Spot{{0, 0}, {50, 50}, {60, 55}}},
		{x: 200, y: 200, n: 0, want: []Spot{{0, 0}, {50, 50}, {60, 55}}},
	}

	for i, test := range tests {
		l := NewList([]Spot{{0, 0}, {50, 50}, {60, 55}})
		n := l.RemoveAt(test.x, test.y, 20, 10)
		if n != test.n {
			t.Errorf("did not get expected count for test %d\ngot: %d\nwant: %d", i, n, test.n)
		}
		if !cmp.Equal(l.Snapshot(), test.want) {
			t.Errorf("did not get expected spots for test %d\ngot: %v\nwant: %v", i, l.Snapshot(), test.want)
		}
	}
}

func TestDelete(t *testing.T) {
	l := NewList([]Spot{{0, 0}, {1, 1}, {2, 2}})
	for _, label := range []int{0, 4, -1} {
		err := l.Delete(label)
		if !errors.Is(err, ErrNoSpot) {
			t.Errorf("expected ErrNoSpot for label %d, got %v", label, err)
		}
	}

	err := l.Delete(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Spot{{0, 0}, {2, 2}}
	if !cmp.Equal(l.Snapshot(), want) {
		t.Errorf("unexpected spots\ngot: %v\nwant: %v", l.Snapshot(), want)
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty list after clear, got %d spots", l.Len())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	in := []Spot{{1, 2}}
	l := NewList(in)
	in[0].X = 99

	s := l.Snapshot()
	s[0].Y = 99
	if got := l.Snapshot()[0]; got != (Spot{1, 2}) {
		t.Errorf("list shares memory with caller, got %v", got)
	}
	if Label(0) != "1" || Label(9) != "10" {
		t.Errorf("unexpected labels %q %q", Label(0), Label(9))
	}
}
