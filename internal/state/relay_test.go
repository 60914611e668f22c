package state

import (
	"errors"
	"image"
	"image/color"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// fakeRelay records emitted events and lets tests deliver remote ones.
type fakeRelay struct {
	mu       sync.Mutex
	emitted  []Event
	handlers map[int]func(Event)
	next     int
	fail     bool
}

func newFakeRelay() *fakeRelay {
	return &fakeRelay{handlers: make(map[int]func(Event))}
}

func (r *fakeRelay) Emit(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("offline")
	}
	r.emitted = append(r.emitted, ev)
	return nil
}

func (r *fakeRelay) Subscribe(h func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.handlers[id] = h
	return func() {
		r.mu.Lock()
		delete(r.handlers, id)
		r.mu.Unlock()
	}
}

func (r *fakeRelay) deliver(ev Event) {
	r.mu.Lock()
	hs := make([]func(Event), 0, len(r.handlers))
	for _, h := range r.handlers {
		hs = append(hs, h)
	}
	r.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

func (r *fakeRelay) events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.emitted...)
}

func (r *fakeRelay) subscribers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return img
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func mouse(kind InputKind, x, y float64) InputEvent {
	return InputEvent{Kind: kind, ClientX: x, ClientY: y}
}
