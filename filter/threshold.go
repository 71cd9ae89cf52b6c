/*
DESCRIPTION
  threshold.go provides grayscale conversion and inverted adaptive
  Gaussian thresholding.

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

	"github.com/disintegration/imaging"
)

// grey converts img to a single channel plane with origin (0, 0) using
// BT.601 luma weights.
func grey(img image.Image) *image.Gray {
	n := imaging.Grayscale(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := n.Pix[y*n.Stride : y*n.Stride+4*w]
		dst := g.Pix[y*g.Stride : y*g.Stride+w]
		for x := range dst {
			dst[x] = src[4*x]
		}
	}
	return g
}

// adaptiveThreshold marks a pixel Active when it is darker than the Gaussian
// weighted mean of its block by block neighbourhood by at least floor(offset).
// The mean uses replicated borders and is rounded to 8 bits before the
// comparison.
func adaptiveThreshold(src *image.Gray, block int, offset float64) *image.Gray {
	mean := convolve(src, gaussianKernel(block, 0), replicate)
	d := int(math.Floor(offset))

	// Lookup of src-mean+255.
	var tab [511]uint8
	for i := range tab {
		if i-255 <= -d {
			tab[i] = Active
		}
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	rows(h, func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w]
		m := mean.Pix[y*mean.Stride : y*mean.Stride+w]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range out {
			out[x] = tab[int(s[x])-int(m[x])+255]
		}
	})
	return dst
}
