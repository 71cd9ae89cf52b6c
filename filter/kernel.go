/*
DESCRIPTION
  kernel.go provides Gaussian kernels, border extrapolation and separable
  convolution over 8 bit grey planes.

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
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Fixed kernels used for small sizes when no sigma is given.
var smallGaussian = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// gaussianKernel returns a normalised 1D Gaussian kernel of odd size n. A
// non-positive sigma is derived from n.
func gaussianKernel(n int, sigma float64) []float64 {
	if sigma <= 0 {
		if k, ok := smallGaussian[n]; ok {
			return k
		}
		sigma = 0.3*(float64(n-1)*0.5-1) + 0.8
	}

	k := make([]float64, n)
	c := float64(n-1) / 2
	var sum float64
	for i := range k {
		x := float64(i) - c
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// A border maps a possibly out of range index i onto [0, n).
type border func(i, n int) int

// reflect101 mirrors about the edge pixel, gfedcb|abcdefgh|gfedcba.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

// replicate repeats the edge pixel, aaaaaa|abcdefgh|hhhhhhh.
func replicate(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}

// convolve applies the separable kernel k horizontally then vertically to
// src and rounds the result back to 8 bits.
func convolve(src *image.Gray, k []float64, b border) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	r := len(k) / 2

	// Extrapolated source index of every tap.
	xs := taps(w, r, b)
	ys := taps(h, r, b)

	tmp := make([]float64, w*h)
	rows(h, func(y int) {
		row := src.Pix[y*src.Stride : y*src.Stride+w]
		out := tmp[y*w : (y+1)*w]
		for x := range out {
			var s float64
			for i, kv := range k {
				s += kv * float64(row[xs[x*len(k)+i]])
			}
			out[x] = s
		}
	})

	dst := image.NewGray(image.Rect(0, 0, w, h))
	rows(h, func(y int) {
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range out {
			var s float64
			for i, kv := range k {
				s += kv * tmp[ys[y*len(k)+i]*w+x]
			}
			out[x] = saturate(s)
		}
	})
	return dst
}

// taps returns, for each of n positions, the 2r+1 source indices under a
// kernel of radius r.
func taps(n, r int, b border) []int {
	size := 2*r + 1
	t := make([]int, n*size)
	for p := 0; p < n; p++ {
		for i := 0; i < size; i++ {
			t[p*size+i] = b(p+i-r, n)
		}
	}
	return t
}

// saturate rounds v to the nearest integer and clamps it to [0, 255].
func saturate(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// rows calls fn for every row in [0, h) in parallel and returns once every
// row is done.
func rows(h int, fn func(y int)) {
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			fn(y)
		}
	})
}
