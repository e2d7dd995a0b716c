// Package decode turns an image of the media into a stream of RGB565 pixel blocks,
// delivered top-to-bottom and left-to-right to a BlockSink.
package decode

import (
	"errors"
	"fmt"
	"io"
)

// Verdict tells the decoder whether it should go on with the next block
type Verdict int

const (
	CONTINUE Verdict = iota
	STOP
)

func (v Verdict) String() string {
	if v == STOP {
		return "stop"
	}
	return "continue"
}

// Block is one decoded rectangle of the image.
// Pixels holds Width*Height RGB565 words, row-major. The slice is reused for the next block.
type Block struct {
	X      int
	Y      int
	Width  int
	Height int
	Pixels []uint16
}

// BlockSink receives the decoded blocks of an image
type BlockSink interface {
	Push(block Block) Verdict
}

type BlockSinkFunc func(block Block) Verdict

func (f BlockSinkFunc) Push(block Block) Verdict {
	return f(block)
}

// Source opens images by identifier
type Source interface {
	Open(identifier string) (io.ReadCloser, error)
}

// Config is fixed for the lifetime of a Decoder
type Config struct {
	Scale     int
	SwapBytes bool
}

func (c Config) Validate() error {
	switch c.Scale {
	case 1, 2, 4, 8:
		return nil
	default:
		return fmt.Errorf("scale must be 1, 2, 4 or 8, got %d", c.Scale)
	}
}

var ErrImageUnavailable = errors.New("image unavailable")

// ImageUnavailableError reports an image that could not be opened or decoded
type ImageUnavailableError struct {
	Identifier string
	Err        error
}

func (e *ImageUnavailableError) Error() string {
	return fmt.Sprintf("image %s unavailable: %v", e.Identifier, e.Err)
}

func (e *ImageUnavailableError) Unwrap() error {
	return e.Err
}

func (e *ImageUnavailableError) Is(target error) bool {
	return target == ErrImageUnavailable
}
