package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"SketchBoard/internal/state"
)

// ErrNotConnected is returned by Emit while the client is between
// connections. The event is not buffered.
var ErrNotConnected = errors.New("not connected to relay")

const (
	minBackoff = 250 * time.Millisecond
	maxBackoff = 5 * time.Second
)

// Client is a peer's connection to a relay. It implements state.Relay and
// reconnects on its own after the connection drops; events broadcast while
// it was away are lost.
type Client struct {
	url    string
	id     string
	clock  Clock
	dialer *websocket.Dialer

	mu     sync.Mutex // guards conn and closed, serializes writes
	conn   *websocket.Conn
	closed bool

	subsMu  sync.RWMutex
	subs    map[int]func(state.Event)
	nextSub int

	// OnStatus, if set, receives human readable connection updates.
	OnStatus func(string)

	cancel context.CancelFunc
	done   chan struct{}
}

var _ state.Relay = (*Client)(nil)

// Dial connects to the relay at addr (a share link, host:port or URL) and
// starts receiving. The client keeps reconnecting until ctx is cancelled or
// Close is called.
func Dial(ctx context.Context, addr string) (*Client, error) {
	u, err := RelayURL(addr)
	if err != nil {
		return nil, err
	}
	c := &Client{
		url:    u,
		id:     uuid.NewString(),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		subs:   make(map[int]func(state.Event)),
		done:   make(chan struct{}),
	}
	conn, _, err := c.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", u, err)
	}
	c.setConn(conn)

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go func() {
		select {
		case <-ctx.Done():
			cancel()
			c.shutdown()
		case <-runCtx.Done():
		}
	}()
	go c.run(runCtx, conn)
	log.Printf("[Client] Connected to %s as %s", u, c.id)
	return c, nil
}

// ID returns the sender id stamped on outgoing messages.
func (c *Client) ID() string { return c.id }

// URL returns the relay endpoint.
func (c *Client) URL() string { return c.url }

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Emit sends ev to the relay.
func (c *Client) Emit(ev state.Event) error {
	data, err := Message{
		Event:    ev.Name,
		Snapshot: ev.Snapshot,
		Sender:   c.id,
		Seq:      c.clock.Tick(),
	}.Encode()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("emit %s: %w", ev.Name, err)
	}
	return nil
}

// Subscribe registers h for events from other peers.
func (c *Client) Subscribe(h func(state.Event)) (release func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = h
	c.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, id)
			c.subsMu.Unlock()
		})
	}
}

// Close stops reconnecting and closes the connection.
func (c *Client) Close() error {
	c.cancel()
	c.shutdown()
	<-c.done
	return nil
}

// shutdown marks the client closed and closes the current connection. A
// connection installed afterwards is closed by setConn.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.conn != nil {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.conn.Close()
	}
}

// setConn installs conn as the current connection. It reports false and
// closes conn if the client has already been closed.
func (c *Client) setConn(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed && conn != nil {
		conn.Close()
		return false
	}
	c.conn = conn
	return true
}

func (c *Client) status(s string) {
	log.Printf("[Client] %s", s)
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}

func (c *Client) run(ctx context.Context, conn *websocket.Conn) {
	defer close(c.done)
	for {
		err := c.readLoop(conn)
		c.setConn(nil)
		conn.Close()
		if ctx.Err() != nil {
			return
		}
		c.status(fmt.Sprintf("Disconnected from relay: %v", err))

		conn = c.reconnect(ctx)
		if conn == nil || !c.setConn(conn) {
			return
		}
		c.status("Reconnected to relay")
	}
}

func (c *Client) reconnect(ctx context.Context) *websocket.Conn {
	backoff := minBackoff
	for {
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err == nil {
			return conn
		}
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("[Client] Reconnect to %s failed: %v", c.url, err)
		backoff = min(backoff*2, maxBackoff)
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := DecodeMessage(data)
		if err != nil {
			log.Printf("[Client] Ignoring frame: %v", err)
			continue
		}
		c.clock.Observe(msg.Seq)
		if msg.Sender == c.id {
			continue
		}
		c.deliver(msg.event())
	}
}

func (c *Client) deliver(ev state.Event) {
	c.subsMu.RLock()
	hs := make([]func(state.Event), 0, len(c.subs))
	for _, h := range c.subs {
		hs = append(hs, h)
	}
	c.subsMu.RUnlock()
	for _, h := range hs {
		h(ev)
	}
}
