package render

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// BasicFont selects the built-in 7x13 bitmap face, which ignores the size.
const BasicFont = "basic"

// LoadFace returns a face for path at size pixels. An empty path means the embedded
// Go Bold font; BasicFont means basicfont.Face7x13; anything else is read as a
// TrueType or OpenType file.
func LoadFace(path string, size float64) (font.Face, error) {
	var data []byte
	switch strings.TrimSpace(path) {
	case BasicFont:
		return basicfont.Face7x13, nil
	case "":
		data = gobold.TTF
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("render: read font: %w", err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("render: parse font %q: %w", path, err)
	}
	if size <= 0 {
		size = DefaultLayout().FontSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face: %w", err)
	}
	return face, nil
}
