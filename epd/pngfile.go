package epd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/theoremus-urban-solutions/busboard/internal/logging"
)

// PNGFile is a stand-in panel that writes every displayed frame to a PNG file.
// The buffer format is one gray byte per pixel, row-major.
type PNGFile struct {
	path   string
	bounds image.Rectangle
}

// NewPNGFile returns a panel of the given size writing to path.
func NewPNGFile(path string, bounds image.Rectangle) *PNGFile {
	return &PNGFile{path: path, bounds: bounds.Sub(bounds.Min)}
}

func (p *PNGFile) String() string { return "png(" + p.path + ")" }

// Path is the output file.
func (p *PNGFile) Path() string { return p.path }

func (p *PNGFile) Bounds() image.Rectangle { return p.bounds }

// Init makes sure the output directory exists.
func (p *PNGFile) Init() error {
	return wrap("init", os.MkdirAll(filepath.Dir(p.path), 0o755))
}

// Clear writes an all-white frame.
func (p *PNGFile) Clear() error {
	img := image.NewGray(p.bounds)
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return wrap("clear", p.write(img))
}

func (p *PNGFile) Buffer(img image.Image) []byte {
	g := image.NewGray(p.bounds)
	src := img.Bounds().Min
	for y := 0; y < p.bounds.Dy(); y++ {
		for x := 0; x < p.bounds.Dx(); x++ {
			g.Set(x, y, img.At(src.X+x, src.Y+y))
		}
	}
	return g.Pix
}

func (p *PNGFile) Display(buf []byte) error {
	want := p.bounds.Dx() * p.bounds.Dy()
	if len(buf) != want {
		return wrap("display", fmt.Errorf("buffer is %d bytes, want %d", len(buf), want))
	}
	img := &image.Gray{Pix: buf, Stride: p.bounds.Dx(), Rect: p.bounds}
	return wrap("display", p.write(img))
}

func (p *PNGFile) Close() error { return nil }

// write replaces the output file atomically so readers never see a partial PNG.
func (p *PNGFile) write(img image.Image) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".busboard-*.png")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := func() (err error) {
		defer logging.HandleDeferredError(&err, tmp.Close, nil, "close frame file")
		return png.Encode(tmp, img)
	}(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p.path)
}
