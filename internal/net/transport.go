package net

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	peerQueueDepth = 64
)

// Peer is one client connected to the relay. Frames for it are queued on
// send and written by a single goroutine.
type Peer struct {
	ID     string
	Addr   string
	Joined time.Time

	conn   *websocket.Conn
	send   chan []byte
	closed bool
}

func newPeer(id string, conn *websocket.Conn) *Peer {
	return &Peer{
		ID:     id,
		Addr:   conn.RemoteAddr().String(),
		Joined: time.Now(),
		conn:   conn,
		send:   make(chan []byte, peerQueueDepth),
	}
}

// writePump drains the send queue and keeps the connection alive with
// pings. It closes the connection when the queue is closed.
func (p *Peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()
	for {
		select {
		case data, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[Relay] Error sending to %s: %v", p.ID, err)
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PeerInfo describes a connected peer.
type PeerInfo struct {
	ID     string    `json:"id"`
	Addr   string    `json:"addr"`
	Joined time.Time `json:"joined"`
}

// PeerManager tracks the peers connected to a relay.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

// Add registers a peer.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.ID] = peer
	log.Printf("[Relay] Peer %s connected from %s", peer.ID, peer.Addr)
}

// Remove unregisters a peer and closes its send queue, which makes its
// writer close the connection. It reports whether the peer was present.
func (pm *PeerManager) Remove(peer *Peer) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if peer.closed {
		return false
	}
	peer.closed = true
	delete(pm.peers, peer.ID)
	close(peer.send)
	log.Printf("[Relay] Peer %s disconnected", peer.ID)
	return true
}

// Get returns the peer with the given id.
func (pm *PeerManager) Get(id string) (*Peer, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.peers[id]
	return p, ok
}

// Broadcast queues data for every peer except exclude and returns how many
// peers it was queued for. Peers whose queue is full are dropped.
func (pm *PeerManager) Broadcast(data []byte, exclude *Peer) int {
	var slow []*Peer
	delivered := 0

	pm.mu.RLock()
	for _, peer := range pm.peers {
		if peer == exclude {
			continue
		}
		select {
		case peer.send <- data:
			delivered++
		default:
			slow = append(slow, peer)
		}
	}
	pm.mu.RUnlock()

	for _, peer := range slow {
		log.Printf("[Relay] Dropping %s: send queue full", peer.ID)
		pm.Remove(peer)
	}
	return delivered
}

// Len returns the number of connected peers.
func (pm *PeerManager) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// List returns the connected peers ordered by join time.
func (pm *PeerManager) List() []PeerInfo {
	pm.mu.RLock()
	out := make([]PeerInfo, 0, len(pm.peers))
	for _, p := range pm.peers {
		out = append(out, PeerInfo{ID: p.ID, Addr: p.Addr, Joined: p.Joined})
	}
	pm.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Joined.Before(out[j].Joined) })
	return out
}
