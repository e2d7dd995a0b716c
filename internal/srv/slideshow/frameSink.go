package slideshow

import (
	"github.com/jypelle/vekislide/internal/srv/decode"
)

// Surface is the part of the display the frame sink writes to.
// PushImage clips silently at the surface bounds.
type Surface interface {
	Height() int
	PushImage(x, y, width, height int, pixels []uint16)
}

// FrameSink writes decoded blocks to the display and stops the decode
// as soon as a block starts below the visible area.
type FrameSink struct {
	surface Surface
	pushed  int
}

func NewFrameSink(surface Surface) *FrameSink {
	return &FrameSink{surface: surface}
}

func (fs *FrameSink) Push(block decode.Block) decode.Verdict {
	if block.Y >= fs.surface.Height() {
		return decode.STOP
	}
	fs.surface.PushImage(block.X, block.Y, block.Width, block.Height, block.Pixels)
	fs.pushed++
	return decode.CONTINUE
}

// Pushed is the number of blocks written since the last Reset
func (fs *FrameSink) Pushed() int {
	return fs.pushed
}

func (fs *FrameSink) Reset() {
	fs.pushed = 0
}
