/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package occupancy

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/spot"
)

func testConfig() config.Config {
	return config.Config{SpotWidth: 103, SpotHeight: 43, OccupancyThreshold: 900}
}

// fill sets the first n pixels of r within m, in row order, active.
func fill(m *image.Gray, r image.Rectangle, n int) {
	r = r.Intersect(m.Rect)
	for y := r.Min.Y; y < r.Max.Y && n > 0; y++ {
		for x := r.Min.X; x < r.Max.X && n > 0; x++ {
			m.Pix[m.PixOffset(x, y)] = 0xff
			n--
		}
	}
}

func TestEvaluate(t *testing.T) {
	spots := []spot.Spot{{X: 0, Y: 0}, {X: 50, Y: 50}}

	tests := []struct {
		name   string
		active int // Active pixels placed in the (50, 50) spot.
		want   Result
	}{
		{
			name:   "empty mask",
			active: 0,
			want: Result{
				Free: 2,
				Spots: []SpotResult{
					{Index: 0, Spot: spots[0]},
					{Index: 1, Spot: spots[1]},
				},
			},
		},
		{
			name:   "filled spot",
			active: 103 * 43,
			want: Result{
				Free: 1,
				Spots: []SpotResult{
					{Index: 0, Spot: spots[0]},
					{Index: 1, Spot: spots[1], Count: 4429, Occupied: true},
				},
			},
		},
		{
			name:   "count at threshold",
			active: 900,
			want: Result{
				Free: 1,
				Spots: []SpotResult{
					{Index: 0, Spot: spots[0]},
					{Index: 1, Spot: spots[1], Count: 900, Occupied: true},
				},
			},
		},
		{
			name:   "count below threshold",
			active: 899,
			want: Result{
				Free: 2,
				Spots: []SpotResult{
					{Index: 0, Spot: spots[0]},
					{Index: 1, Spot: spots[1], Count: 899},
				},
			},
		},
	}

	e := NewEvaluator(testConfig())
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mask := image.NewGray(image.Rect(0, 0, 200, 200))
			fill(mask, spots[1].Rect(103, 43), test.active)

			got, err := e.Evaluate(mask, spots)
			if err != nil {
				t.Fatalf("did not expect error: %v", err)
			}
			if !cmp.Equal(got, test.want) {
				t.Errorf("unexpected result\n%s", cmp.Diff(test.want, got))
			}
			if got.Total() != 2 || got.Occupied() != 2-test.want.Free {
				t.Errorf("unexpected totals %d/%d", got.Occupied(), got.Total())
			}
		})
	}
}

func TestEvaluateClipping(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	spots := []spot.Spot{
		{X: 500, Y: 500}, // Fully outside.
		{X: 150, Y: 180}, // Partly outside, 50x20 visible.
		{X: 0, Y: 0},
	}

	c := testConfig()
	c.OccupancyThreshold = 1000
	got, err := NewEvaluator(c).Evaluate(mask, spots)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	counts := []int{0, 1000, 4429}
	for i, want := range counts {
		if got.Spots[i].Count != want {
			t.Errorf("spot %d: got count %d, want %d", i, got.Spots[i].Count, want)
		}
	}
	if got.Spots[0].Occupied || !got.Spots[1].Occupied || !got.Spots[2].Occupied {
		t.Errorf("unexpected classification %+v", got.Spots)
	}
	if got.Free != 1 {
		t.Errorf("got free %d, want 1", got.Free)
	}
}

func TestEvaluateOrderAndIdempotence(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 400, 300))
	spots := []spot.Spot{{X: 200, Y: 100}, {X: 0, Y: 0}, {X: 300, Y: 250}, {X: 10, Y: 150}}
	fill(mask, spots[2].Rect(103, 43), 103*43)
	fill(mask, spots[1].Rect(103, 43), 1200)
	in := append([]spot.Spot(nil), spots...)

	e := NewEvaluator(testConfig())
	first, err := e.Evaluate(mask, spots)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	second, err := e.Evaluate(mask, spots)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if !cmp.Equal(first, second) {
		t.Errorf("repeated evaluation differs\n%s", cmp.Diff(first, second))
	}
	if !cmp.Equal(spots, in) {
		t.Error("spots were modified")
	}

	for i, r := range first.Spots {
		if r.Index != i || r.Spot != spots[i] {
			t.Errorf("result %d out of order: %+v", i, r)
		}
	}
	wantOcc := []bool{false, true, true, false}
	for i, want := range wantOcc {
		if first.Spots[i].Occupied != want {
			t.Errorf("spot %d: got occupied %v, want %v", i, first.Spots[i].Occupied, want)
		}
	}
}

func TestEvaluateFrameSize(t *testing.T) {
	c := testConfig()
	c.FrameWidth, c.FrameHeight = 640, 480
	e := NewEvaluator(c)

	_, err := e.Evaluate(image.NewGray(image.Rect(0, 0, 320, 240)), []spot.Spot{{}})
	if !errors.Is(err, ErrFrameSize) {
		t.Errorf("expected ErrFrameSize, got %v", err)
	}
	_, err = e.Evaluate(image.NewGray(image.Rect(0, 0, 640, 480)), []spot.Spot{{}})
	if err != nil {
		t.Errorf("did not expect error: %v", err)
	}
}

func TestEvaluateNoSpots(t *testing.T) {
	got, err := NewEvaluator(testConfig()).Evaluate(image.NewGray(image.Rect(0, 0, 10, 10)), nil)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if got.Free != 0 || got.Total() != 0 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestCountActiveOffsetMask(t *testing.T) {
	mask := image.NewGray(image.Rect(100, 100, 110, 110))
	for i := range mask.Pix {
		mask.Pix[i] = 1
	}
	if n := CountActive(mask, image.Rect(95, 95, 105, 105)); n != 25 {
		t.Errorf("got %d, want 25", n)
	}

	// Spot coordinates are relative to the mask origin.
	got, err := NewEvaluator(config.Config{SpotWidth: 4, SpotHeight: 4, OccupancyThreshold: 16}).Evaluate(mask, []spot.Spot{{X: 8, Y: 8}})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if got.Spots[0].Count != 4 {
		t.Errorf("got count %d, want 4", got.Spots[0].Count)
	}
}
