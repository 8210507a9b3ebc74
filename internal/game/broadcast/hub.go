// Package broadcast delivers full snapshots to connected peers over
// websockets and feeds their mutation requests to the authority.
//
// Output is always a complete snapshot on the state channel; there are no
// per-field diffs. A peer that joins, reconnects, or misses frames catches up
// from the very next broadcast.
package broadcast

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/protocol"
	"github.com/quest-net/questd/internal/game/state"
)

// sendBuffer bounds the per-peer outbound queue. Slow consumers drop frames
// instead of stalling the authority; the next snapshot supersedes anything
// they missed.
const sendBuffer = 16

// Handler processes one inbound command.
type Handler interface {
	Handle(ctx context.Context, cmd command.Command) (command.Decision, error)
}

// SnapshotSource returns the current canonical snapshot for late joiners.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

type peer struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to connected peers and routes their envelopes to
// the authority.
type Hub struct {
	mu       sync.RWMutex
	peers    map[*peer]struct{}
	channels *protocol.Registry
	handler  Handler
	source   SnapshotSource
	gameID   string
	upgrader websocket.Upgrader
}

// NewHub builds a hub for one game.
func NewHub(gameID string, channels *protocol.Registry, source SnapshotSource) *Hub {
	return &Hub{
		peers:    make(map[*peer]struct{}),
		channels: channels,
		source:   source,
		gameID:   gameID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetHandler attaches the command handler. The authority needs the hub as its
// publisher, so one of the two is wired late.
func (h *Hub) SetHandler(handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

// PeerCount returns the number of connected peers.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// ServeHTTP upgrades the connection and runs the peer's read loop. The peer
// id comes from the "peer" query parameter.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	peerID := r.URL.Query().Get("peer")
	if peerID == "" {
		http.Error(w, "peer id is required", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade %s: %v", peerID, err)
		return
	}
	p := &peer{id: peerID, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	log.Printf("peer %s connected", peerID)

	go h.writeLoop(p)
	// joining peers receive the current snapshot immediately; re-check
	// membership under the lock so a concurrent Close cannot close the send
	// channel between registration and this enqueue
	if h.source != nil {
		if frame, err := stateFrame(h.source.Snapshot()); err == nil {
			h.mu.RLock()
			if _, ok := h.peers[p]; ok {
				h.enqueue(p, frame)
			}
			h.mu.RUnlock()
		}
	}
	h.readLoop(r.Context(), p)
}

// Publish marshals the snapshot onto the state channel and fans it out. It
// never blocks on a slow peer.
func (h *Hub) Publish(ctx context.Context, snapshot state.Snapshot) {
	frame, err := stateFrame(snapshot)
	if err != nil {
		log.Printf("marshal snapshot rev %d: %v", snapshot.Rev, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for p := range h.peers {
		h.enqueue(p, frame)
	}
}

func (h *Hub) enqueue(p *peer, frame []byte) {
	select {
	case p.send <- frame:
	default:
		log.Printf("peer %s send queue full, dropping frame", p.id)
	}
}

func (h *Hub) readLoop(ctx context.Context, p *peer) {
	defer h.drop(p)
	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("peer %s sent malformed envelope: %v", p.id, err)
			continue
		}
		if env.ActorID == "" {
			env.ActorID = p.id
		}
		cmd, err := h.channels.Command(h.gameID, env)
		if err != nil {
			log.Printf("peer %s: %v", p.id, err)
			continue
		}
		h.mu.RLock()
		handler := h.handler
		h.mu.RUnlock()
		if handler == nil {
			continue
		}
		if _, err := handler.Handle(ctx, cmd); err != nil {
			log.Printf("peer %s command %s: %v", p.id, cmd.Type, err)
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	for frame := range p.send {
		if err := p.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

func (h *Hub) drop(p *peer) {
	h.mu.Lock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.send)
	}
	h.mu.Unlock()
	p.conn.Close()
	log.Printf("peer %s disconnected", p.id)
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
		delete(h.peers, p)
		close(p.send)
	}
	h.mu.Unlock()
	for _, p := range peers {
		p.conn.Close()
	}
}

func stateFrame(snapshot state.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	return json.Marshal(protocol.Envelope{
		Channel: protocol.ChannelGameState,
		Payload: payload,
	})
}
