package domain

// ActivityKind is a user interaction that counts as "the user is here".
type ActivityKind int

const (
	ActivityPointerDown ActivityKind = iota
	ActivityKeyPress
	ActivityScroll
	ActivityTouchStart
)

// QualifyingActivity lists every kind that resets the inactivity timer.
var QualifyingActivity = []ActivityKind{
	ActivityPointerDown,
	ActivityKeyPress,
	ActivityScroll,
	ActivityTouchStart,
}

// String returns a human-readable activity kind.
func (k ActivityKind) String() string {
	switch k {
	case ActivityPointerDown:
		return "pointerdown"
	case ActivityKeyPress:
		return "keypress"
	case ActivityScroll:
		return "scroll"
	case ActivityTouchStart:
		return "touchstart"
	default:
		return "unknown"
	}
}
