// Package slideshow holds the kiosk loop: show the next image of the playlist,
// then wait for the user before showing the following one.
package slideshow

import (
	"fmt"
	"github.com/jypelle/vekislide/internal/srv/decode"
	"github.com/sirupsen/logrus"
	"image/color"
)

type ImageDecoder interface {
	Decode(identifier string, sink decode.BlockSink) error
}

type Gate interface {
	WaitForAdvance()
}

// Screen is the part of the display used between images
type Screen interface {
	Fill(c color.Color)
	PrintText(text string)
}

type Controller struct {
	playlist        *Playlist
	decoder         ImageDecoder
	frameSink       *FrameSink
	gate            Gate
	screen          Screen
	transitionColor color.Color

	cycleCount int64
}

func NewController(playlist *Playlist, decoder ImageDecoder, frameSink *FrameSink, gate Gate, screen Screen, transitionColor color.Color) *Controller {
	return &Controller{
		playlist:        playlist,
		decoder:         decoder,
		frameSink:       frameSink,
		gate:            gate,
		screen:          screen,
		transitionColor: transitionColor,
	}
}

// Run shows the playlist forever
func (c *Controller) Run() {
	logrus.Infof("Start slideshow of %d images", c.playlist.Len())
	for {
		c.Cycle()
	}
}

// Cycle shows the next image and waits for the user.
// A failing image leaves a message on screen until the next cycle clears it.
func (c *Controller) Cycle() {
	c.cycleCount++
	identifier := c.playlist.Next()
	logrus.Debugf("Cycle %d: show %s", c.cycleCount, identifier)

	c.screen.Fill(c.transitionColor)
	c.frameSink.Reset()

	err := c.decoder.Decode(identifier, c.frameSink)
	if err != nil {
		logrus.Warnf("Unable to show %s: %v", identifier, err)
		c.screen.PrintText(fmt.Sprintf("Could not open %s", identifier))
	} else {
		logrus.Debugf("Shown %s with %d blocks", identifier, c.frameSink.Pushed())
	}

	c.gate.WaitForAdvance()
}
