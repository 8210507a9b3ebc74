package broadcast

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/protocol"
	"github.com/quest-net/questd/internal/game/state"
)

type stubSource struct {
	snapshot state.Snapshot
}

func (s *stubSource) Snapshot() state.Snapshot { return s.snapshot }

// echoHandler records the command and publishes an updated snapshot, the way
// the authority does for accepted requests.
type echoHandler struct {
	hub      *Hub
	received chan command.Command
}

func (h *echoHandler) Handle(ctx context.Context, cmd command.Command) (command.Decision, error) {
	h.received <- cmd
	h.hub.Publish(ctx, state.Snapshot{GameID: cmd.GameID, Rev: 2})
	return command.Decision{}, nil
}

func dialPeer(t *testing.T, server *httptest.Server, peerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?peer=" + peerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", peerID, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) protocol.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env
}

func testHub(t *testing.T) (*Hub, *echoHandler, *httptest.Server) {
	t.Helper()
	channels, err := protocol.DefaultRegistry()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	hub := NewHub("game-1", channels, &stubSource{snapshot: state.Snapshot{GameID: "game-1", Rev: 1}})
	handler := &echoHandler{hub: hub, received: make(chan command.Command, 1)}
	hub.SetHandler(handler)
	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)
	t.Cleanup(hub.Close)
	return hub, handler, server
}

func TestJoiningPeerReceivesCurrentSnapshot(t *testing.T) {
	_, _, server := testHub(t)
	conn := dialPeer(t, server, "peer-1")

	env := readEnvelope(t, conn)
	if env.Channel != protocol.ChannelGameState {
		t.Fatalf("expected state channel, got %q", env.Channel)
	}
	var snapshot state.Snapshot
	if err := json.Unmarshal(env.Payload, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snapshot.Rev != 1 {
		t.Fatalf("expected rev 1, got %d", snapshot.Rev)
	}
}

func TestEnvelopeRoutedToHandlerAndBroadcast(t *testing.T) {
	_, handler, server := testHub(t)
	sender := dialPeer(t, server, "peer-1")
	watcher := dialPeer(t, server, "peer-2")
	readEnvelope(t, sender)
	readEnvelope(t, watcher)

	err := sender.WriteJSON(protocol.Envelope{
		Channel:   protocol.ChannelCombatCtrl,
		Action:    "start",
		RequestID: "req-7",
		Payload:   json.RawMessage(`{"side":"party"}`),
	})
	if err != nil {
		t.Fatalf("write envelope: %v", err)
	}

	select {
	case cmd := <-handler.received:
		if cmd.Type != "combat.start" {
			t.Fatalf("expected combat.start, got %s", cmd.Type)
		}
		if cmd.ActorType != command.ActorTypePeer || cmd.ActorID != "peer-1" {
			t.Fatalf("expected sender attribution, got %+v", cmd)
		}
		if cmd.RequestID != "req-7" {
			t.Fatalf("expected request id carried, got %q", cmd.RequestID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never received command")
	}

	// both peers see the resulting broadcast, sender included
	for _, conn := range []*websocket.Conn{sender, watcher} {
		env := readEnvelope(t, conn)
		var snapshot state.Snapshot
		if err := json.Unmarshal(env.Payload, &snapshot); err != nil {
			t.Fatalf("unmarshal snapshot: %v", err)
		}
		if snapshot.Rev != 2 {
			t.Fatalf("expected rev 2 broadcast, got %d", snapshot.Rev)
		}
	}
}

func TestMalformedEnvelopeIgnored(t *testing.T) {
	_, handler, server := testHub(t)
	conn := dialPeer(t, server, "peer-1")
	readEnvelope(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	// an unknown channel is ignored the same way
	if err := conn.WriteJSON(protocol.Envelope{Channel: "noSuchChan", Action: "x"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case cmd := <-handler.received:
		t.Fatalf("expected no command, got %+v", cmd)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPeerWithoutIDRejected(t *testing.T) {
	_, _, server := testHub(t)
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial failure without peer id")
	}
	if resp == nil || resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %+v", resp)
	}
}

func TestCloseDuringJoinDoesNotPanic(t *testing.T) {
	for i := 0; i < 20; i++ {
		hub, _, server := testHub(t)

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func(peer int) {
				defer wg.Done()
				url := "ws" + strings.TrimPrefix(server.URL, "http") + "?peer=peer-" + strconv.Itoa(peer)
				conn, _, err := websocket.DefaultDialer.Dial(url, nil)
				if err != nil {
					return
				}
				conn.Close()
			}(j)
		}
		// closing while peers are mid-join must not hit a closed send channel
		hub.Close()
		wg.Wait()
	}
}

func TestDisconnectRemovesPeer(t *testing.T) {
	hub, _, server := testHub(t)
	conn := dialPeer(t, server, "peer-1")
	readEnvelope(t, conn)
	if hub.PeerCount() != 1 {
		t.Fatalf("expected one peer, got %d", hub.PeerCount())
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.PeerCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("peer never removed, count %d", hub.PeerCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
