/*
DESCRIPTION
  median.go provides the median and dilation steps of the Edge filter over
  8 bit grey planes.

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

	"github.com/anthonynsimon/bild/effect"
)

// median replaces every pixel with the median of its n by n neighbourhood,
// replicating edge pixels. n must be odd.
func median(src *image.Gray, n int) *image.Gray {
	return fromRGBA(effect.Median(src, float64(n/2)))
}

// dilate sets every pixel to the maximum of its n by n neighbourhood, iter
// times. n must be odd.
func dilate(src *image.Gray, n, iter int) *image.Gray {
	if iter <= 0 {
		dst := image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
		copy(dst.Pix, src.Pix)
		return dst
	}
	img := effect.Dilate(src, float64(n/2))
	for i := 1; i < iter; i++ {
		img = effect.Dilate(img, float64(n/2))
	}
	return fromRGBA(img)
}

// fromRGBA returns the red channel of a grey RGBA image, which bild effects
// produce from grey input.
func fromRGBA(src *image.RGBA) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range out {
			out[x] = row[4*x]
		}
	}
	return dst
}
