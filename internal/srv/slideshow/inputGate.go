package slideshow

import (
	"github.com/jypelle/vekislide/internal/srv/event"
	"github.com/sirupsen/logrus"
	"time"
)

// InputPoller samples the input devices without blocking
type InputPoller interface {
	Update()
	Events() event.InputFlags
}

// InputGate blocks until the user asks for the next image
type InputGate struct {
	poller   InputPoller
	interval time.Duration
	sleep    func(time.Duration)
}

func NewInputGate(poller InputPoller, interval time.Duration) *InputGate {
	return &InputGate{
		poller:   poller,
		interval: interval,
		sleep:    time.Sleep,
	}
}

// WaitForAdvance polls every interval until a move or release event shows up.
// There is no timeout.
func (g *InputGate) WaitForAdvance() {
	polls := 0
	for {
		g.poller.Update()
		polls++
		if events := g.poller.Events(); events.Has(event.ADVANCE_EVENTS) {
			logrus.Debugf("Advance on %v after %d polls", events, polls)
			return
		}
		g.sleep(g.interval)
	}
}
