package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Canvas is the bitmap a Renderer draws into. Pixels are only ever black or white.
type Canvas struct {
	img *image.Gray
}

// NewCanvas allocates a white canvas covering b.
func NewCanvas(b image.Rectangle) *Canvas {
	c := &Canvas{img: image.NewGray(b)}
	c.Fill(color.White)
	return c
}

// Image exposes the underlying bitmap.
func (c *Canvas) Image() *image.Gray { return c.img }

// Bounds is the canvas area.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect paints r, clipped to clip.
func (c *Canvas) FillRect(r, clip image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(clip), image.NewUniform(col), image.Point{}, draw.Src)
}

// clipped returns a view of the canvas restricted to r. Drawing through it shares
// pixels with the canvas but cannot escape r.
func (c *Canvas) clipped(r image.Rectangle) *image.Gray {
	return c.img.SubImage(r).(*image.Gray)
}

// threshold snaps anti-aliased glyph edges to pure black or white.
func (c *Canvas) threshold() {
	for i, v := range c.img.Pix {
		if v >= 0x80 {
			c.img.Pix[i] = 0xff
		} else {
			c.img.Pix[i] = 0x00
		}
	}
}
