package device

import (
	"github.com/jypelle/vekislide/internal/srv/event"
	"github.com/sirupsen/logrus"
	"image"
	"sync"
	"time"
)

const (
	tapMaxDuration    = 500 * time.Millisecond
	longPressDuration = time.Second
)

// Contact is the raw state of a touch surface or a button at sampling time
type Contact struct {
	Down     bool
	Position image.Point
}

type ContactSource interface {
	ReadContact() (Contact, error)
}

// contactTracker turns successive contacts of one source into input events
type contactTracker struct {
	down        bool
	moved       bool
	longPressed bool
	last        image.Point
	since       time.Time
}

func (t *contactTracker) update(contact Contact, now time.Time, moveThreshold int) event.InputFlags {
	flags := event.NO_EVENT

	switch {
	case contact.Down && !t.down:
		flags |= event.TOUCH_EVENT
		t.down = true
		t.moved = false
		t.longPressed = false
		t.last = contact.Position
		t.since = now
	case contact.Down && t.down:
		delta := contact.Position.Sub(t.last)
		if abs(delta.X) > moveThreshold || abs(delta.Y) > moveThreshold {
			flags |= event.MOVE_EVENT
			t.moved = true
			t.last = contact.Position
		}
		if !t.longPressed && now.Sub(t.since) >= longPressDuration {
			flags |= event.LONG_PRESS_EVENT
			t.longPressed = true
		}
	case !contact.Down && t.down:
		flags |= event.RELEASE_EVENT
		if !t.moved && now.Sub(t.since) < tapMaxDuration {
			flags |= event.TAP_EVENT
		}
		t.down = false
	}

	return flags
}

// Input merges the events of all contact sources.
// Events only describe what happened during the last Update.
type Input struct {
	sources       []ContactSource
	trackers      []*contactTracker
	failing       []bool
	moveThreshold int
	now           func() time.Time

	events event.InputFlags
}

func NewInput(moveThreshold int, sources ...ContactSource) *Input {
	input := &Input{
		sources:       sources,
		trackers:      make([]*contactTracker, len(sources)),
		failing:       make([]bool, len(sources)),
		moveThreshold: moveThreshold,
		now:           time.Now,
	}
	for i := range input.trackers {
		input.trackers[i] = &contactTracker{}
	}
	return input
}

// Update samples every source once
func (in *Input) Update() {
	now := in.now()
	flags := event.NO_EVENT

	for i, source := range in.sources {
		contact, err := source.ReadContact()
		if err != nil {
			if !in.failing[i] {
				logrus.Warnf("Unable to read input: %v", err)
				in.failing[i] = true
			}
			continue
		}
		if in.failing[i] {
			logrus.Infof("Input is back")
			in.failing[i] = false
		}
		flags |= in.trackers[i].update(contact, now, in.moveThreshold)
	}

	if flags != event.NO_EVENT {
		logrus.Debugf("Input events: %v", flags)
	}
	in.events = flags
}

func (in *Input) Events() event.InputFlags {
	return in.events
}

// SimulationPointer is fed by the simulation window
type SimulationPointer struct {
	lock    sync.Mutex
	contact Contact
}

func (p *SimulationPointer) set(down bool, position image.Point) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.contact = Contact{Down: down, Position: position}
}

func (p *SimulationPointer) ReadContact() (Contact, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.contact, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
