package device

import (
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
	"sync"
)

type Button struct {
	name string
	pin  gpio.PinIO
}

func NewButton(name string) *Button {
	pin := gpioreg.ByName(name)
	if pin == nil {
		logrus.Fatalf("Failed to find %s button", name)
	}
	return newButton(name, pin)
}

func newButton(name string, pin gpio.PinIO) *Button {
	button := Button{name: name, pin: pin}

	// Set it as input, with an internal pull up resistor:
	if err := button.pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		logrus.Fatalf("Failed to setup %s button: %v", name, err)
	}
	return &button
}

// IsPressed reads the pin, pulled low while the button is held
func (b *Button) IsPressed() bool {
	return bool(!b.pin.Read())
}

// Buttons acts as a single contact: down while any button is held
type Buttons struct {
	lock  sync.RWMutex
	names []string

	buttons []*Button
}

func NewButtons(names []string) *Buttons {
	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize host: %v", err)
	}

	device := Buttons{
		names: names,
	}

	return &device
}

func (d *Buttons) Start() {
	logrus.Infof("Start buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	for _, name := range d.names {
		d.buttons = append(d.buttons, NewButton(name))
	}
}

func (d *Buttons) Stop() {
	logrus.Infof("Stop buttons device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.buttons = nil
}

func (d *Buttons) ReadContact() (Contact, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	for _, button := range d.buttons {
		if button.IsPressed() {
			return Contact{Down: true}, nil
		}
	}
	return Contact{}, nil
}
