package device

import (
	"fmt"
	"github.com/sirupsen/logrus"
	"image"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const FT6X36_ADDRESS = 0x38

// FT6x36 registers, read in one transaction from TD_STATUS to P1_YL
const (
	ft6x36TouchStatusReg = 0x02
	ft6x36ReadLength     = 5
)

// FT6x36 event flag of the first touch point
const (
	ft6x36PressDown = 0
	ft6x36LiftUp    = 1
	ft6x36Contact   = 2
)

// TouchPanel reads the first touch point of a FT6x36 capacitive touch controller
type TouchPanel struct {
	busName string
	address uint16

	bus i2c.BusCloser
	dev *i2c.Dev
	buf [ft6x36ReadLength]byte
}

func NewTouchPanel(busName string, address uint16) *TouchPanel {
	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize host: %v", err)
	}
	if address == 0 {
		address = FT6X36_ADDRESS
	}
	return &TouchPanel{
		busName: busName,
		address: address,
	}
}

func (t *TouchPanel) Start() {
	logrus.Infof("Start touch panel device")

	bus, err := i2creg.Open(t.busName)
	if err != nil {
		logrus.Fatalf("Unable to open touch panel i2c bus: %v\n", err)
	}
	t.attach(bus)
}

func (t *TouchPanel) attach(bus i2c.BusCloser) {
	t.bus = bus
	t.dev = &i2c.Dev{Addr: t.address, Bus: bus}
}

func (t *TouchPanel) Stop() {
	logrus.Infof("Stop touch panel device")

	if t.bus != nil {
		t.bus.Close()
		t.bus = nil
		t.dev = nil
	}
}

func (t *TouchPanel) ReadContact() (Contact, error) {
	if t.dev == nil {
		return Contact{}, fmt.Errorf("touch panel not started")
	}
	if err := t.dev.Tx([]byte{ft6x36TouchStatusReg}, t.buf[:]); err != nil {
		return Contact{}, fmt.Errorf("touch panel read: %w", err)
	}
	return parseFT6x36(t.buf[:]), nil
}

// parseFT6x36 decodes TD_STATUS, P1_XH, P1_XL, P1_YH, P1_YL
func parseFT6x36(regs []byte) Contact {
	touches := regs[0] & 0x0F
	if touches == 0 || touches > 2 {
		return Contact{}
	}

	switch regs[1] >> 6 {
	case ft6x36PressDown, ft6x36Contact:
	case ft6x36LiftUp:
		return Contact{}
	default:
		// no event
		return Contact{}
	}

	x := int(regs[1]&0x0F)<<8 | int(regs[2])
	y := int(regs[3]&0x0F)<<8 | int(regs[4])
	return Contact{Down: true, Position: image.Pt(x, y)}
}
