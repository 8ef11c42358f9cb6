package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/theoremus-urban-solutions/busboard/arrivals"
)

// Column is one half of the board.
type Column struct {
	Title    string
	Snapshot arrivals.Snapshot
}

// Frame is the result of one render pass.
type Frame struct {
	// Image aliases the canvas it was rendered into.
	Image *image.Gray
	// Hidden counts records per column that did not fit below the last row.
	Hidden [2]int
}

// PNG encodes the frame.
func (f *Frame) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Renderer draws arrivals with a fixed face and layout.
type Renderer struct {
	face   font.Face
	layout Layout
	ascent int
}

// New returns a Renderer. The face must match the layout's scale; see LoadFace.
func New(face font.Face, layout Layout) *Renderer {
	return &Renderer{
		face:   face,
		layout: layout,
		ascent: face.Metrics().Ascent.Ceil(),
	}
}

// Layout returns the geometry in use.
func (r *Renderer) Layout() Layout { return r.layout }

// Render clears c and draws both columns into it.
func (r *Renderer) Render(c *Canvas, left, right Column) *Frame {
	c.Fill(color.White)

	frame := &Frame{Image: c.Image()}
	cols := r.layout.Columns(c.Bounds())
	for i, col := range [2]Column{left, right} {
		frame.Hidden[i] = r.drawColumn(c, cols[i], col)
	}

	c.threshold()
	return frame
}

func (r *Renderer) drawColumn(c *Canvas, area image.Rectangle, col Column) (hidden int) {
	r.text(c, area, r.layout.HeaderAt(area), col.Title, color.Black)

	records := col.Snapshot.Records
	fit := r.layout.Capacity(area)
	if len(records) > fit {
		hidden = len(records) - fit
		records = records[:fit]
	}

	for i, rec := range records {
		row := r.layout.Row(area, i)
		block := row.Block.Intersect(area)
		c.FillRect(block, area, color.Black)
		r.text(c, block, row.LabelAt, rec.ServiceNo, color.White)

		times := image.Rectangle{Min: image.Pt(row.TimesAt.X, area.Min.Y), Max: area.Max}
		r.text(c, times, row.TimesAt, FormatETAs(rec.ETAs), color.Black)
	}
	return hidden
}

// text draws s with its top-left at p, clipped to clip.
func (r *Renderer) text(c *Canvas, clip image.Rectangle, p image.Point, s string, col color.Color) {
	if s == "" || clip.Empty() {
		return
	}
	d := font.Drawer{
		Dst:  c.clipped(clip),
		Src:  image.NewUniform(col),
		Face: r.face,
		Dot:  fixed.P(p.X, p.Y+r.ascent),
	}
	d.DrawString(s)
}

// FormatETAs joins minute values the way they appear next to a service block.
func FormatETAs(etas []int) string {
	parts := make([]string, len(etas))
	for i, m := range etas {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, " | ")
}
