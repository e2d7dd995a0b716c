package event

import "strings"

// InputFlags is the bitmask of input events observed by the last input update
type InputFlags uint16

const (
	TOUCH_EVENT InputFlags = 1 << iota
	RELEASE_EVENT
	MOVE_EVENT
	TAP_EVENT
	LONG_PRESS_EVENT
)

const NO_EVENT InputFlags = 0

// ADVANCE_EVENTS are the events allowing the slideshow to move to the next image
const ADVANCE_EVENTS = MOVE_EVENT | RELEASE_EVENT

var flagNames = []struct {
	flag InputFlags
	name string
}{
	{TOUCH_EVENT, "touch"},
	{RELEASE_EVENT, "release"},
	{MOVE_EVENT, "move"},
	{TAP_EVENT, "tap"},
	{LONG_PRESS_EVENT, "long_press"},
}

// Has reports whether f shares at least one flag with mask
func (f InputFlags) Has(mask InputFlags) bool {
	return f&mask != 0
}

func (f InputFlags) String() string {
	if f == NO_EVENT {
		return "none"
	}
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}
