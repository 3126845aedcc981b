package render

// DefaultScrollThreshold is how far above the bottom the view must be
// before the "new messages" affordance shows.
const DefaultScrollThreshold = 100

// Scrollable is a view with a vertical scroll position. Units are up to
// the view (rows for the terminal).
type Scrollable interface {
	ScrollHeight() int // total content height
	ScrollTop() int    // current offset from the top
	ClientHeight() int // visible height
	SetScrollTop(offset int)
}

// ScrollToBottom moves v to its maximum scroll offset.
func ScrollToBottom(v Scrollable) {
	max := v.ScrollHeight() - v.ClientHeight()
	if max < 0 {
		max = 0
	}
	v.SetScrollTop(max)
}

// ScrolledUp reports whether v sits more than threshold units above the
// bottom. Views call it on every scroll event to toggle the scroll-down
// affordance.
func ScrolledUp(v Scrollable, threshold int) bool {
	return v.ScrollHeight()-v.ScrollTop()-v.ClientHeight() > threshold
}
