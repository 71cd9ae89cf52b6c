/*
DESCRIPTION
  render.go provides drawing of occupancy results over video frames.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package render draws spot outlines, labels and a status banner over
// frames, and saves annotated frames as snapshots.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/occupancy"
	"github.com/ausocean/parkwatch/spot"
)

const (
	boxPad      = 10 // Padding of the free spots banner.
	labelPad    = 3  // Padding of every other text box.
	labelColour = "#ff00ff"

	// Outline thickness.
	freeThickness     = 2
	occupiedThickness = 1
)

// Text anchor points of the banner lines.
var (
	freeAt   = image.Pt(50, 60)
	fpsAt    = image.Pt(50, 100)
	cameraAt = image.Pt(50, 140)
	labelOff = image.Pt(5, 20)
)

// Info holds the per-frame values shown in the banner.
type Info struct {
	FPS    float64
	Camera string
}

// Renderer draws occupancy results. It holds no per-frame state and may be
// shared between goroutines.
type Renderer struct {
	w, h     int
	free     color.RGBA
	occupied color.RGBA
	label    color.RGBA
	face     font.Face
}

// New returns a Renderer using the spot dimensions and colours of c.
func New(c config.Config) (*Renderer, error) {
	free, err := parseColour(c.FreeColour)
	if err != nil {
		return nil, fmt.Errorf("bad free colour: %w", err)
	}
	occ, err := parseColour(c.OccupiedColour)
	if err != nil {
		return nil, fmt.Errorf("bad occupied colour: %w", err)
	}
	label, _ := parseColour(labelColour)
	return &Renderer{
		w:        int(c.SpotWidth),
		h:        int(c.SpotHeight),
		free:     free,
		occupied: occ,
		label:    label,
		face:     basicfont.Face7x13,
	}, nil
}

func parseColour(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Draw returns a copy of frame, with origin (0, 0), annotated with the
// outline and label of each spot of res and a banner of free spots, frame
// rate and camera.
func (r *Renderer) Draw(frame image.Image, res occupancy.Result, info Info) *image.RGBA {
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, frame, b.Min, draw.Src)

	for _, s := range res.Spots {
		c, t := r.free, freeThickness
		if s.Occupied {
			c, t = r.occupied, occupiedThickness
		}
		outline(dst, s.Spot.Rect(r.w, r.h), t, c)
		r.textBox(dst, spot.Label(s.Index), image.Pt(s.Spot.X, s.Spot.Y).Add(labelOff), labelPad, r.label)
	}

	banner := r.occupied
	if res.Free > 0 {
		banner = r.free
	}
	r.textBox(dst, fmt.Sprintf("Free: %d/%d", res.Free, res.Total()), freeAt, boxPad, banner)
	r.textBox(dst, fmt.Sprintf("FPS: %d", int(info.FPS)), fpsAt, labelPad, r.label)
	r.textBox(dst, "Camera: "+info.Camera, cameraAt, labelPad, r.label)
	return dst
}

// outline draws the border of rect, t pixels thick and inside rect.
func outline(dst *image.RGBA, rect image.Rectangle, t int, c color.RGBA) {
	u := image.NewUniform(c)
	for i := 0; i < t; i++ {
		in := rect.Inset(i)
		if in.Empty() {
			return
		}
		edges := []image.Rectangle{
			image.Rect(in.Min.X, in.Min.Y, in.Max.X, in.Min.Y+1),
			image.Rect(in.Min.X, in.Max.Y-1, in.Max.X, in.Max.Y),
			image.Rect(in.Min.X, in.Min.Y, in.Min.X+1, in.Max.Y),
			image.Rect(in.Max.X-1, in.Min.Y, in.Max.X, in.Max.Y),
		}
		for _, e := range edges {
			draw.Draw(dst, e.Intersect(dst.Rect), u, image.Point{}, draw.Src)
		}
	}
}

// textBox draws white text with its baseline starting at at, over a box of
// colour bg padded by pad pixels.
func (r *Renderer) textBox(dst *image.RGBA, text string, at image.Point, pad int, bg color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(at.X, at.Y),
	}
	m := r.face.Metrics()
	box := image.Rect(
		at.X-pad,
		at.Y-m.Ascent.Ceil()-pad,
		at.X+d.MeasureString(text).Ceil()+pad,
		at.Y+m.Descent.Ceil()+pad,
	)
	draw.Draw(dst, box.Intersect(dst.Rect), image.NewUniform(bg), image.Point{}, draw.Src)
	d.DrawString(text)
}
