package epd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

var _ Panel = (*Waveshare)(nil)

// Waveshare drives a Waveshare 2.13" v4 e-paper HAT over SPI. The panel is portrait
// in memory; the canvas it exposes is landscape.
type Waveshare struct {
	port spi.PortCloser
	dev  *waveshare2in13v4.Dev
}

// OpenWaveshare initializes the host drivers and opens the HAT on spiPort
// ("" selects the first SPI port).
func OpenWaveshare(spiPort string) (*Waveshare, error) {
	if _, err := host.Init(); err != nil {
		return nil, wrap("host init", err)
	}
	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, wrap("open spi", err)
	}

	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		return nil, wrap("open hat", errors.Join(err, port.Close()))
	}
	return &Waveshare{port: port, dev: dev}, nil
}

func (w *Waveshare) String() string {
	return fmt.Sprintf("waveshare2in13v4(%s)", w.port)
}

// Bounds is the landscape canvas: the panel's bounds with the axes swapped.
func (w *Waveshare) Bounds() image.Rectangle {
	p := w.dev.Bounds()
	return image.Rect(0, 0, p.Dy(), p.Dx())
}

func (w *Waveshare) Init() error {
	return wrap("init", w.dev.Init())
}

func (w *Waveshare) Clear() error {
	return wrap("clear", w.dev.Clear(color.White))
}

// Buffer rotates img to the panel orientation and packs it one bit per pixel.
func (w *Waveshare) Buffer(img image.Image) []byte {
	fb := image1bit.NewVerticalLSB(w.dev.Bounds())
	draw.Draw(fb, fb.Bounds(), ToPortrait(img), image.Point{}, draw.Src)
	return fb.Pix
}

func (w *Waveshare) Display(buf []byte) error {
	fb := image1bit.NewVerticalLSB(w.dev.Bounds())
	if len(buf) != len(fb.Pix) {
		return wrap("display", fmt.Errorf("buffer is %d bytes, want %d", len(buf), len(fb.Pix)))
	}
	copy(fb.Pix, buf)
	return wrap("display", w.dev.Draw(fb.Bounds(), fb, image.Point{}))
}

// Close puts the panel into deep sleep and releases the SPI port.
func (w *Waveshare) Close() error {
	return wrap("close", errors.Join(w.dev.Sleep(), w.dev.Halt(), w.port.Close()))
}
