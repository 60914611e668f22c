package state

// Tool consumes a normalized pointer stream. Implementations ignore moves
// and ups outside a gesture and a second down during one.
type Tool interface {
	OnPointerDown(p Pointer)
	OnPointerMove(p Pointer)
	OnPointerUp()
}

// Binding is the input subscription of the tool currently active on a
// Context. It stops receiving events once released, either explicitly or by
// binding another tool.
type Binding struct {
	ctx      *Context
	tool     Tool
	released bool
}

// Tool returns the bound tool.
func (b *Binding) Tool() Tool { return b.tool }

// Release detaches the tool from the context's input and ends any gesture
// in progress. It is safe to call more than once.
func (b *Binding) Release() {
	b.ctx.inputMu.Lock()
	wasBound := !b.released
	b.released = true
	if b.ctx.active == b {
		b.ctx.active = nil
	}
	b.ctx.inputMu.Unlock()

	if wasBound {
		b.tool.OnPointerUp()
	}
}

// Released reports whether the binding no longer receives input.
func (b *Binding) Released() bool {
	b.ctx.inputMu.Lock()
	defer b.ctx.inputMu.Unlock()
	return b.released
}

func (b *Binding) dispatch(ev InputEvent, n Normalizer) {
	switch ev.Kind {
	case MouseDown, TouchStart:
		if p, ok := n.Pointer(ev); ok {
			b.tool.OnPointerDown(p)
		}
	case MouseMove, TouchMove:
		if p, ok := n.Pointer(ev); ok {
			b.tool.OnPointerMove(p)
		}
	case MouseUp, MouseLeave:
		b.tool.OnPointerUp()
	case TouchEnd:
		// the gesture continues while a touch still targets the surface
		if _, ok := n.Pointer(ev); ok {
			return
		}
		b.tool.OnPointerUp()
	}
}
