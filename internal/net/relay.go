package net

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"SketchBoard/internal/state"
)

// ActivityKind classifies relay activity.
type ActivityKind int

const (
	PeerJoined ActivityKind = iota
	PeerLeft
	EventRelayed
	EventDropped
)

func (k ActivityKind) String() string {
	switch k {
	case PeerJoined:
		return "joined"
	case PeerLeft:
		return "left"
	case EventRelayed:
		return "relayed"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Activity is reported to Relay.OnActivity.
type Activity struct {
	Kind       ActivityKind
	Peer       string
	Event      state.EventName
	Bytes      int
	Recipients int
	Peers      int
	At         time.Time
}

// Relay rebroadcasts canvas events from each peer to every other peer. It
// keeps no board state.
type Relay struct {
	peers    *PeerManager
	router   *mux.Router
	upgrader websocket.Upgrader

	// OnActivity, if set, is called from connection goroutines for every
	// join, leave, relayed and dropped frame. Set it before serving.
	OnActivity func(Activity)
}

func NewRelay() *Relay {
	r := &Relay{
		peers:  NewPeerManager(),
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	r.router.HandleFunc("/ws", r.serveWS).Methods(http.MethodGet)
	r.router.HandleFunc("/peers", r.servePeers).Methods(http.MethodGet)
	r.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	return r
}

func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Peers returns the relay's peer set.
func (r *Relay) Peers() *PeerManager { return r.peers }

// Disconnect closes the connection of the peer with the given id.
func (r *Relay) Disconnect(id string) bool {
	p, ok := r.peers.Get(id)
	if !ok {
		return false
	}
	return r.peers.Remove(p)
}

// ListenAndServe serves the relay on addr until ctx is cancelled.
func (r *Relay) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: r}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("[Relay] Listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (r *Relay) servePeers(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(r.peers.List())
}

func (r *Relay) serveWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("[Relay] Upgrade failed for %s: %v", req.RemoteAddr, err)
		return
	}
	peer := newPeer(uuid.NewString(), conn)
	r.peers.Add(peer)
	r.report(Activity{Kind: PeerJoined, Peer: peer.ID})

	go peer.writePump()
	r.readPump(peer)

	r.peers.Remove(peer)
	r.report(Activity{Kind: PeerLeft, Peer: peer.ID})
}

// readPump forwards every valid frame from peer to the others, unmodified.
func (r *Relay) readPump(peer *Peer) {
	conn := peer.conn
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Relay] Peer %s read error: %v", peer.ID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := DecodeMessage(data)
		if err != nil {
			log.Printf("[Relay] Dropping frame from %s: %v", peer.ID, err)
			r.report(Activity{Kind: EventDropped, Peer: peer.ID, Event: msg.Event, Bytes: len(data)})
			continue
		}
		n := r.peers.Broadcast(data, peer)
		r.report(Activity{Kind: EventRelayed, Peer: peer.ID, Event: msg.Event, Bytes: len(data), Recipients: n})
	}
}

func (r *Relay) report(a Activity) {
	if r.OnActivity == nil {
		return
	}
	a.Peers = r.peers.Len()
	a.At = time.Now()
	r.OnActivity(a)
}
