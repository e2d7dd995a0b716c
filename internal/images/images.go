package images

import (
	"bytes"
	_ "embed"
	"github.com/sirupsen/logrus"
	"image"
	_ "image/png"
)

//go:embed intro.png
var IntroImgFile []byte

// IntroImage is shown while the devices are brought up
var IntroImage image.Image

func init() {
	var err error

	IntroImage, _, err = image.Decode(bytes.NewReader(IntroImgFile))
	if err != nil {
		logrus.Panicf("Can't load intro image: %v", err)
	}
}
