package render

import (
	"image"
	"math"
)

// Reference geometry, in pixels on an 800x480 canvas. Offsets are relative to the
// column origin and row top; text positions are the top-left of the text.
const (
	referenceWidth  = 800
	referenceHeight = 480
)

// Layout positions headers and rows within one column.
type Layout struct {
	Width, Height int

	Header      image.Point
	FirstRowTop int
	RowStep     int

	Block image.Rectangle
	Label image.Point
	Times image.Point

	FontSize float64
}

// Row is the absolute placement of one arrival record.
type Row struct {
	Block   image.Rectangle
	LabelAt image.Point
	TimesAt image.Point
}

// DefaultLayout returns the 800x480 reference layout.
func DefaultLayout() Layout {
	return Layout{
		Width:       referenceWidth,
		Height:      referenceHeight,
		Header:      image.Pt(120, 20),
		FirstRowTop: 20,
		RowStep:     70,
		Block:       image.Rect(20, 50, 180, 110),
		Label:       image.Pt(50, 58),
		Times:       image.Pt(220, 55),
		FontSize:    32,
	}
}

// LayoutFor scales the reference layout to b.
func LayoutFor(b image.Rectangle) Layout {
	return DefaultLayout().ScaleTo(b)
}

// ScaleTo stretches l proportionally to the size of b. The font is scaled by the
// smaller of the two axis factors so text never outgrows its block.
func (l Layout) ScaleTo(b image.Rectangle) Layout {
	if l.Width <= 0 || l.Height <= 0 || b.Empty() {
		return l
	}
	sx := float64(b.Dx()) / float64(l.Width)
	sy := float64(b.Dy()) / float64(l.Height)

	x := func(v int) int { return int(math.Round(float64(v) * sx)) }
	y := func(v int) int { return int(math.Round(float64(v) * sy)) }
	pt := func(p image.Point) image.Point { return image.Pt(x(p.X), y(p.Y)) }

	out := Layout{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Header:      pt(l.Header),
		FirstRowTop: y(l.FirstRowTop),
		RowStep:     y(l.RowStep),
		Block:       image.Rectangle{Min: pt(l.Block.Min), Max: pt(l.Block.Max)},
		Label:       pt(l.Label),
		Times:       pt(l.Times),
		FontSize:    l.FontSize * math.Min(sx, sy),
	}
	if out.RowStep < 1 {
		out.RowStep = 1
	}
	return out
}

// Columns splits b into the left and right halves.
func (l Layout) Columns(b image.Rectangle) [2]image.Rectangle {
	mid := b.Min.X + b.Dx()/2
	return [2]image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, mid, b.Max.Y),
		image.Rect(mid, b.Min.Y, b.Max.X, b.Max.Y),
	}
}

// HeaderAt is the header's top-left within col.
func (l Layout) HeaderAt(col image.Rectangle) image.Point {
	return col.Min.Add(l.Header)
}

// Row returns the placement of the i-th record in col.
func (l Layout) Row(col image.Rectangle, i int) Row {
	origin := col.Min.Add(image.Pt(0, l.FirstRowTop+i*l.RowStep))
	return Row{
		Block:   l.Block.Add(origin),
		LabelAt: origin.Add(l.Label),
		TimesAt: origin.Add(l.Times),
	}
}

// Capacity is how many rows fit in col before a block would cross its bottom edge.
// Without a positive RowStep rows would stack on each other, so at most one fits.
func (l Layout) Capacity(col image.Rectangle) int {
	if l.RowStep < 1 {
		if l.Row(col, 0).Block.Max.Y <= col.Max.Y {
			return 1
		}
		return 0
	}
	n := 0
	for l.Row(col, n).Block.Max.Y <= col.Max.Y {
		n++
	}
	return n
}
