package decode

import (
	"github.com/jypelle/vekislide/internal/images"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

type Decoder struct {
	config Config
	source Source

	// reused between blocks
	pixels []uint16
}

func NewDecoder(source Source, config Config) (*Decoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		config: config,
		source: source,
	}, nil
}

func (d *Decoder) Config() Config {
	return d.config
}

// Decode renders the image named by identifier into blocks pushed to sink.
// A sink answering STOP ends the decode early, which is not an error.
func (d *Decoder) Decode(identifier string, sink BlockSink) error {
	r, err := d.source.Open(identifier)
	if err != nil {
		return &ImageUnavailableError{Identifier: identifier, Err: err}
	}
	defer r.Close()

	src, format, err := image.Decode(r)
	if err != nil {
		return &ImageUnavailableError{Identifier: identifier, Err: err}
	}

	mcuWidth, mcuHeight := mcuSize(src)
	blockWidth := scaleDown(mcuWidth, d.config.Scale)
	blockHeight := scaleDown(mcuHeight, d.config.Scale)

	img := d.scaled(src)
	bounds := img.Bounds()

	blockCount := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += blockHeight {
		for x := bounds.Min.X; x < bounds.Max.X; x += blockWidth {
			block := d.block(img, image.Rect(x, y, x+blockWidth, y+blockHeight).Intersect(bounds))
			blockCount++
			if sink.Push(block) == STOP {
				logrus.Debugf("Decode of %s stopped at block %d (%d,%d)", identifier, blockCount, x, y)
				return nil
			}
		}
	}

	logrus.Debugf("Decoded %s (%s %v, scale 1/%d): %d blocks of %dx%d", identifier, format, src.Bounds().Size(), d.config.Scale, blockCount, blockWidth, blockHeight)
	return nil
}

func (d *Decoder) scaled(src image.Image) *image.RGBA {
	sb := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, scaleDown(sb.Dx(), d.config.Scale), scaleDown(sb.Dy(), d.config.Scale)))
	if d.config.Scale == 1 {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}
	return dst
}

func (d *Decoder) block(img *image.RGBA, r image.Rectangle) Block {
	w, h := r.Dx(), r.Dy()
	if cap(d.pixels) < w*h {
		d.pixels = make([]uint16, w*h)
	}
	pixels := d.pixels[:w*h]

	for row := 0; row < h; row++ {
		offset := img.PixOffset(r.Min.X, r.Min.Y+row)
		for col := 0; col < w; col++ {
			p := img.Pix[offset+4*col : offset+4*col+3]
			pixels[row*w+col] = images.Pack565(p[0], p[1], p[2], d.config.SwapBytes)
		}
	}

	return Block{X: r.Min.X, Y: r.Min.Y, Width: w, Height: h, Pixels: pixels}
}

// mcuSize gives the size of the minimum coded unit of a decoded jpeg,
// the block unit of a progressive decoder.
func mcuSize(img image.Image) (int, int) {
	switch m := img.(type) {
	case *image.YCbCr:
		switch m.SubsampleRatio {
		case image.YCbCrSubsampleRatio420:
			return 16, 16
		case image.YCbCrSubsampleRatio422:
			return 16, 8
		case image.YCbCrSubsampleRatio440:
			return 8, 16
		case image.YCbCrSubsampleRatio411:
			return 32, 8
		case image.YCbCrSubsampleRatio410:
			return 32, 16
		default:
			return 8, 8
		}
	case *image.Gray, *image.CMYK:
		return 8, 8
	}
	return 16, 16
}

func scaleDown(size int, scale int) int {
	if size/scale < 1 {
		return 1
	}
	return size / scale
}
