package images

import (
	"image"
	"image/color"
)

// RGB565 is an in-memory image of 16-bit 5:6:5 pixels, the native format of small TFT panels.
// When Swapped is set, the two bytes of every word are exchanged (big-endian panels).
type RGB565 struct {
	Pix     []uint16
	Stride  int
	Rect    image.Rectangle
	Swapped bool
}

func NewRGB565(r image.Rectangle, swapped bool) *RGB565 {
	return &RGB565{
		Pix:     make([]uint16, r.Dx()*r.Dy()),
		Stride:  r.Dx(),
		Rect:    r,
		Swapped: swapped,
	}
}

func (p *RGB565) ColorModel() color.Model {
	return color.RGBAModel
}

func (p *RGB565) Bounds() image.Rectangle {
	return p.Rect
}

func (p *RGB565) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *RGB565) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

func (p *RGB565) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return color.RGBA{}
	}
	return Unpack565(p.Pix[p.PixOffset(x, y)], p.Swapped)
}

func (p *RGB565) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	p.Pix[p.PixOffset(x, y)] = Pack565(rgba.R, rgba.G, rgba.B, p.Swapped)
}

// Pack565 packs 8-bit channels into a 5:6:5 word
func Pack565(r, g, b uint8, swapped bool) uint16 {
	v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	if swapped {
		v = v<<8 | v>>8
	}
	return v
}

// Unpack565 expands a 5:6:5 word to opaque 8-bit channels, replicating the high bits into the low ones.
func Unpack565(v uint16, swapped bool) color.RGBA {
	if swapped {
		v = v<<8 | v>>8
	}
	r := uint8(v >> 11 & 0x1F)
	g := uint8(v >> 5 & 0x3F)
	b := uint8(v & 0x1F)
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}
