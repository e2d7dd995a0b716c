package device

import (
	"github.com/jypelle/vekislide/internal/images"
	"github.com/jypelle/vekislide/internal/srv/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"image"
	"image/color"
	"io"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
	"sync"
)

// panel is the hardware behind the display
type panel interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Display keeps a copy of the screen content and mirrors every change to the panel
// or, in simulation mode, to a desktop window.
type Display struct {
	panelLock sync.Mutex
	panel     panel
	busCloser io.Closer

	lock           sync.RWMutex
	param          config.DisplayParam
	simulationMode bool
	swapBytes      bool
	surface        *image.RGBA

	textColor           color.Color
	textBackgroundColor color.Color

	simulationWindow  *simulationWindow
	simulationPointer *SimulationPointer
}

func NewDisplay(param config.DisplayParam, swapBytes bool, simulationMode bool) *Display {
	if !simulationMode {
		if _, err := host.Init(); err != nil {
			logrus.Fatalf("Unable to initialize host: %v", err)
		}
	}
	return newDisplay(param, swapBytes, simulationMode)
}

func newDisplay(param config.DisplayParam, swapBytes bool, simulationMode bool) *Display {
	_, _, textColor, textBackgroundColor := param.Colors()

	return &Display{
		param:               param,
		simulationMode:      simulationMode,
		swapBytes:           swapBytes,
		surface:             image.NewRGBA(image.Rect(0, 0, param.Width, param.Height)),
		textColor:           textColor,
		textBackgroundColor: textBackgroundColor,
		simulationPointer:   &SimulationPointer{},
	}
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	if d.simulationMode {
		d.startSimulation()
		return
	}

	opts := ssd1306.Opts{W: d.param.Width, H: d.param.Height, Rotated: d.param.Rotated}

	var oledDisplay *ssd1306.Dev
	switch d.param.Bus {
	case config.SPI_BUS:
		// Open a handle to the spi port and the data/command pin
		spiPort, err := spireg.Open(d.param.SpiPort)
		if err != nil {
			logrus.Fatalf("Unable to open spi port: %v\n", err)
		}
		dcPin := gpioreg.ByName(d.param.DcPin)
		if dcPin == nil {
			logrus.Fatalf("Failed to find %s dc pin", d.param.DcPin)
		}
		oledDisplay, err = ssd1306.NewSPI(spiPort, dcPin, &opts)
		if err != nil {
			logrus.Fatalf("Unable to initialize oled display: %v\n", err)
		}
		d.busCloser = spiPort
	default:
		// Open a handle to the i2c bus
		i2cBus, err := i2creg.Open(d.param.I2cBus)
		if err != nil {
			logrus.Fatalf("Unable to open i2c bus: %v\n", err)
		}
		oledDisplay, err = ssd1306.NewI2C(i2cBus, &opts)
		if err != nil {
			logrus.Fatalf("Unable to initialize oled display: %v\n", err)
		}
		d.busCloser = i2cBus
	}

	d.panelLock.Lock()
	d.panel = oledDisplay
	d.panelLock.Unlock()

	d.flush(d.surface.Bounds())
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	// The simulation window goes away with the process
	if d.simulationMode {
		return
	}

	d.panelLock.Lock()
	defer d.panelLock.Unlock()
	if d.panel != nil {
		if err := d.panel.Halt(); err != nil {
			logrus.Warnf("Unable to halt display: %v", err)
		}
		d.panel = nil
	}
	if d.busCloser != nil {
		d.busCloser.Close()
		d.busCloser = nil
	}
}

func (d *Display) Width() int {
	return d.surface.Bounds().Dx()
}

func (d *Display) Height() int {
	return d.surface.Bounds().Dy()
}

// PushImage writes a block of RGB565 pixels at (x, y). Pixels outside the screen are dropped.
func (d *Display) PushImage(x, y, width, height int, pixels []uint16) {
	if width <= 0 || height <= 0 || len(pixels) < width*height {
		logrus.Warnf("Ignore malformed %dx%d block with %d pixels", width, height, len(pixels))
		return
	}
	block := &images.RGB565{
		Pix:     pixels,
		Stride:  width,
		Rect:    image.Rect(x, y, x+width, y+height),
		Swapped: d.swapBytes,
	}

	d.lock.Lock()
	r := block.Rect.Intersect(d.surface.Bounds())
	if r.Empty() {
		d.lock.Unlock()
		return
	}
	draw.Draw(d.surface, r, block, r.Min, draw.Src)
	d.lock.Unlock()

	d.flush(r)
}

func (d *Display) Fill(c color.Color) {
	d.lock.Lock()
	draw.Draw(d.surface, d.surface.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	d.lock.Unlock()

	d.flush(d.surface.Bounds())
}

// PrintText writes text from the top left corner, wrapping at the right edge
func (d *Display) PrintText(text string) {
	d.lock.Lock()
	r := AddWrappedLabel(d.surface, image.Point{}, text, d.textColor, d.textBackgroundColor)
	d.lock.Unlock()

	if !r.Empty() {
		d.flush(r)
	}
}

// ShowImage clears the screen and centers img on it
func (d *Display) ShowImage(img image.Image) {
	d.lock.Lock()
	bounds := d.surface.Bounds()
	draw.Draw(d.surface, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)
	dst := img.Bounds().Sub(img.Bounds().Min).Add(bounds.Min).Add(bounds.Size().Sub(img.Bounds().Size()).Div(2))
	draw.Draw(d.surface, dst, img, img.Bounds().Min, draw.Src)
	d.lock.Unlock()

	d.flush(bounds)
}

// Snapshot returns a copy of the screen content
func (d *Display) Snapshot() *image.RGBA {
	d.lock.RLock()
	defer d.lock.RUnlock()

	img := image.NewRGBA(d.surface.Bounds())
	copy(img.Pix, d.surface.Pix)
	return img
}

// SimulationPointer is the pointer of the simulation window, as a contact source
func (d *Display) SimulationPointer() *SimulationPointer {
	return d.simulationPointer
}

func (d *Display) flush(r image.Rectangle) {
	if d.simulationMode {
		d.invalidateSimulationWindow()
		return
	}

	d.panelLock.Lock()
	defer d.panelLock.Unlock()
	if d.panel == nil {
		return
	}

	d.lock.RLock()
	err := d.panel.Draw(r, d.surface, r.Min)
	d.lock.RUnlock()
	if err != nil {
		logrus.Warnf("Unable to draw on display: %v", err)
	}
}
