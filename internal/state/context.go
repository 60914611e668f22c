package state

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 300

	remoteQueueSize = 64
)

// Options configures a Context.
type Options struct {
	Width, Height int
	// Reversed mirrors pointers on both axes.
	Reversed bool
	// Rect is the surface's on-screen rectangle. Zero means the surface sits
	// at the origin with its own size.
	Rect Rect
	// OnChange is called after any surface changes, outside the context's
	// locks. It may run on the remote-apply goroutine.
	OnChange func()
}

// Context owns the committed and transient surfaces of one board and keeps
// the committed surface in sync with peers over a Relay.
//
// Remote events are applied by a single goroutine in arrival order, so a
// snapshot still decoding can never be overtaken by a later event.
type Context struct {
	relay   Relay
	release func()

	mu        sync.Mutex
	committed *Surface
	transient *Surface

	inputMu sync.Mutex
	norm    Normalizer
	active  *Binding

	onChange func()

	queue     chan remoteItem
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type remoteItem struct {
	ev      Event
	flushed chan struct{}
}

// NewContext creates both surfaces and subscribes to relay. A nil relay
// gives an offline board.
func NewContext(relay Relay, opts Options) *Context {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Rect == (Rect{}) {
		opts.Rect = Rect{Width: float64(opts.Width), Height: float64(opts.Height)}
	}
	c := &Context{
		relay:     relay,
		committed: NewSurface(opts.Width, opts.Height),
		transient: NewSurface(opts.Width, opts.Height),
		norm:      Normalizer{Rect: opts.Rect, Reversed: opts.Reversed},
		onChange:  opts.OnChange,
		queue:     make(chan remoteItem, remoteQueueSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.applyLoop()
	if relay != nil {
		c.release = relay.Subscribe(c.enqueue)
	}
	Logger().Info("context ready", "width", opts.Width, "height", opts.Height, "reversed", opts.Reversed)
	return c
}

func (c *Context) Width() int  { return c.committed.Width() }
func (c *Context) Height() int { return c.committed.Height() }

// SetRect updates the on-screen rectangle used to normalize input.
func (c *Context) SetRect(r Rect) {
	c.inputMu.Lock()
	c.norm.Rect = r
	c.inputMu.Unlock()
}

// Bind makes tool the active tool, releasing the previous binding. A
// gesture still in progress on the previous tool is ended first.
func (c *Context) Bind(tool Tool) *Binding {
	c.inputMu.Lock()
	prev := c.active
	if prev != nil {
		prev.released = true
	}
	b := &Binding{ctx: c, tool: tool}
	c.active = b
	c.inputMu.Unlock()

	if prev != nil {
		prev.tool.OnPointerUp()
	}
	return b
}

// Active returns the active tool, or nil.
func (c *Context) Active() Tool {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	if c.active == nil {
		return nil
	}
	return c.active.tool
}

// Dispatch routes a raw input event to the active tool.
func (c *Context) Dispatch(ev InputEvent) {
	c.inputMu.Lock()
	b, n := c.active, c.norm
	c.inputMu.Unlock()
	if b == nil {
		return
	}
	b.dispatch(ev, n)
}

// Committed returns a copy of the committed surface.
func (c *Context) Committed() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed.Image()
}

// Transient returns a copy of the transient surface.
func (c *Context) Transient() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transient.Image()
}

// Composite returns the committed surface with the live stroke drawn over
// it.
func (c *Context) Composite() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.committed.Image()
	xdraw.Draw(out, out.Bounds(), c.transient.img, image.Point{}, xdraw.Over)
	return out
}

// Snapshot encodes the committed surface.
func (c *Context) Snapshot() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EncodeSnapshot(c.committed.img)
}

// Clear blanks both surfaces and tells peers to do the same.
func (c *Context) Clear() {
	c.mu.Lock()
	c.transient.Clear()
	c.committed.Clear()
	c.mu.Unlock()
	c.changed()
	c.emit(Event{Name: EventClear})
}

// Flush blocks until every remote event received so far has been applied.
func (c *Context) Flush() {
	flushed := make(chan struct{})
	select {
	case c.queue <- remoteItem{flushed: flushed}:
	case <-c.quit:
		return
	}
	select {
	case <-flushed:
	case <-c.done:
	}
}

// Close drops the relay subscription and the active binding and stops
// applying remote events. Events still queued are discarded.
func (c *Context) Close() {
	c.closeOnce.Do(func() {
		if c.release != nil {
			c.release()
		}
		c.inputMu.Lock()
		if c.active != nil {
			c.active.released = true
			c.active = nil
		}
		c.inputMu.Unlock()
		close(c.quit)
		<-c.done
		Logger().Info("context closed")
	})
}

func (c *Context) enqueue(ev Event) {
	select {
	case c.queue <- remoteItem{ev: ev}:
	case <-c.quit:
	}
}

func (c *Context) applyLoop() {
	defer close(c.done)
	for {
		select {
		case item := <-c.queue:
			if item.flushed != nil {
				close(item.flushed)
				continue
			}
			c.applyRemote(item.ev)
		case <-c.quit:
			return
		}
	}
}

func (c *Context) applyRemote(ev Event) {
	log := Logger()
	switch ev.Name {
	case EventClear:
		log.Debug("remote clear")
		c.mu.Lock()
		c.transient.Clear()
		c.committed.Clear()
		c.mu.Unlock()
	case EventUpdate, EventErased:
		img, err := ev.Snapshot.Decode()
		if err != nil {
			log.Warn("dropping remote snapshot", "event", string(ev.Name), "err", err)
			return
		}
		log.Debug("remote snapshot", "event", string(ev.Name))
		c.mu.Lock()
		if ev.Name == EventErased {
			c.committed.Clear()
		}
		c.committed.DrawOver(img)
		c.mu.Unlock()
	default:
		log.Warn("ignoring unknown event", "event", string(ev.Name))
		return
	}
	c.changed()
}

func (c *Context) drawSegment(seg Segment, style StrokeStyle) {
	c.mu.Lock()
	c.transient.StrokeQuadratic(seg, style)
	c.mu.Unlock()
	c.changed()
}

// commitStroke merges the transient surface into the committed one,
// publishes the committed surface and clears the transient surface.
func (c *Context) commitStroke() {
	c.mu.Lock()
	c.committed.DrawOver(c.transient.img)
	snap, err := EncodeSnapshot(c.committed.img)
	c.transient.Clear()
	c.mu.Unlock()
	c.changed()
	if err != nil {
		Logger().Error("commit stroke", "err", err)
		return
	}
	c.emit(Event{Name: EventUpdate, Snapshot: snap})
}

func (c *Context) erase(p Pointer, radius float64, shape EraseShape) {
	c.mu.Lock()
	if shape == EraseCircle {
		c.committed.ClearDisc(p, radius)
	} else {
		c.committed.ClearRect(squareRegion(p, radius))
	}
	c.mu.Unlock()
	c.changed()
}

func (c *Context) publishErased() {
	snap, err := c.Snapshot()
	if err != nil {
		Logger().Error("publish erase", "err", err)
		return
	}
	c.emit(Event{Name: EventErased, Snapshot: snap})
}

func (c *Context) emit(ev Event) {
	if c.relay == nil {
		return
	}
	if err := c.relay.Emit(ev); err != nil {
		Logger().Warn("emit failed", "event", string(ev.Name), "err", err)
	}
}

func (c *Context) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
