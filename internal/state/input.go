package state

// InputKind tells mouse and touch phases apart.
type InputKind int

const (
	MouseDown InputKind = iota
	MouseMove
	MouseUp
	MouseLeave
	TouchStart
	TouchMove
	TouchEnd
)

func (k InputKind) String() string {
	switch k {
	case MouseDown:
		return "mousedown"
	case MouseMove:
		return "mousemove"
	case MouseUp:
		return "mouseup"
	case MouseLeave:
		return "mouseleave"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	}
	return "unknown"
}

// IsTouch reports whether k is a touch phase.
func (k InputKind) IsTouch() bool {
	return k >= TouchStart
}

// Touch is one contact point of a multi-touch event.
type Touch struct {
	ClientX, ClientY float64
	OnSurface        bool // the touch targets the drawing surface
}

// InputEvent is a raw pointer event in client coordinates. Touches is only
// read for touch kinds and holds the contacts still active.
type InputEvent struct {
	Kind             InputKind
	ClientX, ClientY float64
	Touches          []Touch
}

// Normalizer maps raw events to surface-local pointers.
type Normalizer struct {
	Rect     Rect
	Reversed bool
}

// Pointer returns the surface-local pointer for ev. For touch events the
// first touch targeting the surface is used; ok is false when there is none.
func (n Normalizer) Pointer(ev InputEvent) (p Pointer, ok bool) {
	if !ev.Kind.IsTouch() {
		return n.local(ev.ClientX, ev.ClientY), true
	}
	for _, t := range ev.Touches {
		if t.OnSurface {
			return n.local(t.ClientX, t.ClientY), true
		}
	}
	return Pointer{}, false
}

func (n Normalizer) local(clientX, clientY float64) Pointer {
	p := Pointer{X: clientX - n.Rect.Left, Y: clientY - n.Rect.Top}
	if n.Reversed {
		p.X = n.Rect.Width - p.X
		p.Y = n.Rect.Height - p.Y
	}
	return p
}
