package epd

import (
	"image"
	"image/color"
)

// ToPortrait rotates a landscape image 90 degrees clockwise into a portrait image
// with origin (0, 0).
func ToPortrait(src image.Image) *image.Gray {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			c := color.GrayModel.Convert(src.At(sb.Min.X+y, sb.Min.Y+h-1-x)).(color.Gray)
			dst.SetGray(x, y, c)
		}
	}
	return dst
}
