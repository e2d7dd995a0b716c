package device

import (
	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"image"
	"image/color"
)

// AddLabel draws label on a filled background with its top left corner at origin
// and returns the updated area.
func AddLabel(img *image.RGBA, origin image.Point, label string, fg, bg color.Color) image.Rectangle {
	metrics := bitmapfont.Face.Metrics()
	width := font.MeasureString(bitmapfont.Face, label).Ceil()

	r := image.Rect(origin.X, origin.Y, origin.X+width, origin.Y+metrics.Height.Ceil()).Intersect(img.Bounds())
	draw.Draw(img, r, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: bitmapfont.Face,
		Dot:  fixed.P(origin.X, origin.Y+metrics.Ascent.Ceil()),
	}
	d.DrawString(label)

	return r
}

// AddWrappedLabel draws label over as many lines as needed to fit the image width
func AddWrappedLabel(img *image.RGBA, origin image.Point, label string, fg, bg color.Color) image.Rectangle {
	lineHeight := bitmapfont.Face.Metrics().Height.Ceil()

	var updated image.Rectangle
	for i, line := range wrapLabel(label, img.Bounds().Max.X-origin.X) {
		r := AddLabel(img, origin.Add(image.Pt(0, i*lineHeight)), line, fg, bg)
		updated = updated.Union(r)
	}
	return updated
}

func wrapLabel(label string, maxWidth int) []string {
	var lines []string
	var line []rune
	for _, r := range label {
		candidate := append(line, r)
		if len(line) > 0 && font.MeasureString(bitmapfont.Face, string(candidate)).Ceil() > maxWidth {
			lines = append(lines, string(line))
			line = []rune{r}
			continue
		}
		line = candidate
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
