package main

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// Glyph cell geometry of basicfont.Face7x13. A 128x64 panel fits 18 columns
// and 4 rows at scale 1.
const (
	glyphW      = 7
	glyphH      = 13
	glyphAscent = 11
)

// oledDisplay renders text into an off-screen 1-bit frame and pushes the
// whole frame to an SSD1306 over I2C on Flush.
type oledDisplay struct {
	dev   *ssd1306.Dev
	bus   i2c.BusCloser
	img   *image1bit.VerticalLSB
	scale int
	curX  int // pixels
	curY  int
}

// newOLEDDisplay initializes the periph host, opens the I2C bus and the
// panel. An empty bus name picks the first available bus.
func newOLEDDisplay(cfg DisplayConfig) (*oledDisplay, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}
	opts := ssd1306.DefaultOpts
	opts.W = cfg.Width
	opts.H = cfg.Height
	opts.Rotated = cfg.Rotated
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("open ssd1306: %w", err)
	}
	return &oledDisplay{
		dev:   dev,
		bus:   bus,
		img:   image1bit.NewVerticalLSB(image.Rect(0, 0, cfg.Width, cfg.Height)),
		scale: 1,
	}, nil
}

func (d *oledDisplay) Clear() {
	for i := range d.img.Pix {
		d.img.Pix[i] = 0
	}
}

func (d *oledDisplay) SetCursor(col, row int) {
	d.curX = col * glyphW
	d.curY = row * glyphH
}

func (d *oledDisplay) SetScale(n int) {
	switch n {
	case 1, 2:
		d.scale = n
	}
}

func (d *oledDisplay) Print(text string) {
	if d.scale == 2 {
		d.printDoubled(text)
		return
	}
	drawer := font.Drawer{
		Dst:  d.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(d.curX, d.curY+glyphAscent),
	}
	drawer.DrawString(text)
	d.curX += len(text) * glyphW
}

// printDoubled draws the text into a scratch image at scale 1, then blits
// every set bit as a 2x2 block.
func (d *oledDisplay) printDoubled(text string) {
	w := len(text) * glyphW
	if w == 0 {
		return
	}
	scratch := image1bit.NewVerticalLSB(image.Rect(0, 0, w, glyphH))
	drawer := font.Drawer{
		Dst:  scratch,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, glyphAscent),
	}
	drawer.DrawString(text)
	for y := 0; y < glyphH; y++ {
		for x := 0; x < w; x++ {
			if scratch.BitAt(x, y) != image1bit.On {
				continue
			}
			d.img.SetBit(d.curX+2*x, d.curY+2*y, image1bit.On)
			d.img.SetBit(d.curX+2*x+1, d.curY+2*y, image1bit.On)
			d.img.SetBit(d.curX+2*x, d.curY+2*y+1, image1bit.On)
			d.img.SetBit(d.curX+2*x+1, d.curY+2*y+1, image1bit.On)
		}
	}
	d.curX += 2 * w
}

func (d *oledDisplay) Flush() error {
	if err := d.dev.Draw(d.dev.Bounds(), d.img, image.Point{}); err != nil {
		return fmt.Errorf("draw ssd1306 frame: %w", err)
	}
	return nil
}

func (d *oledDisplay) Close() error {
	if err := d.dev.Halt(); err != nil {
		d.bus.Close()
		return fmt.Errorf("halt ssd1306: %w", err)
	}
	return d.bus.Close()
}
