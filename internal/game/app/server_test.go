package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quest-net/questd/internal/game/protocol"
	"github.com/quest-net/questd/internal/game/state"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("QUESTD_DB_PATH", t.TempDir()+"/questd.db")
	t.Setenv("QUESTD_GAME_ID", "game-1")

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})
	return srv
}

func readSnapshot(t *testing.T, conn *websocket.Conn) state.Snapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env protocol.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	if env.Channel != protocol.ChannelGameState {
		t.Fatalf("expected state channel, got %q", env.Channel)
	}
	var snapshot state.Snapshot
	if err := json.Unmarshal(env.Payload, &snapshot); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	return snapshot
}

func TestServer_CreatesStorageDirForDefaultStylePath(t *testing.T) {
	// the default db path lives under a data/ dir that does not exist on a
	// fresh checkout
	t.Setenv("QUESTD_DB_PATH", filepath.Join(t.TempDir(), "data", "questd.db"))
	t.Setenv("QUESTD_GAME_ID", "game-1")

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server with missing storage dir: %v", err)
	}
	srv.Close()
}

func TestServer_MutationRoundTripOverWebsocket(t *testing.T) {
	srv := startServer(t)

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws?peer=peer-1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	initial := readSnapshot(t, conn)
	if initial.GameID != "game-1" || initial.Rev != 0 {
		t.Fatalf("unexpected initial snapshot: %+v", initial)
	}

	err = conn.WriteJSON(protocol.Envelope{
		Channel:   protocol.ChannelCharUpdate,
		Action:    "add",
		RequestID: "req-1",
		Payload:   json.RawMessage(`{"character_id":"char-1","name":"Mira","max_hp":20,"max_sp":10}`),
	})
	if err != nil {
		t.Fatalf("write envelope: %v", err)
	}

	updated := readSnapshot(t, conn)
	if updated.Rev != 1 {
		t.Fatalf("expected rev 1 broadcast, got %d", updated.Rev)
	}
	if len(updated.Party) != 1 || updated.Party[0].Name != "Mira" {
		t.Fatalf("party not updated: %+v", updated.Party)
	}
	if updated.Party[0].HP != 20 {
		t.Fatalf("expected hp initialised to max, got %d", updated.Party[0].HP)
	}
}

func TestServer_StatePersistsAcrossRestart(t *testing.T) {
	dbPath := t.TempDir() + "/questd.db"
	t.Setenv("QUESTD_DB_PATH", dbPath)
	t.Setenv("QUESTD_GAME_ID", "game-1")

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(runCtx) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+srv.Addr()+"/ws?peer=peer-1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readSnapshot(t, conn)
	err = conn.WriteJSON(protocol.Envelope{
		Channel: protocol.ChannelCharUpdate,
		Action:  "add",
		Payload: json.RawMessage(`{"character_id":"char-1","name":"Mira","max_hp":20,"max_sp":10}`),
	})
	if err != nil {
		t.Fatalf("write envelope: %v", err)
	}
	readSnapshot(t, conn)
	conn.Close()

	runCancel()
	select {
	case serveErr := <-serveDone:
		if serveErr != nil {
			t.Fatalf("serve: %v", serveErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for server shutdown")
	}

	// a fresh server over the same database replays to the same state
	restarted, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("restart server: %v", err)
	}
	t.Cleanup(restarted.Close)

	snapshot := restarted.Authority().Snapshot()
	if snapshot.Rev != 1 {
		t.Fatalf("expected rev 1 after restart, got %d", snapshot.Rev)
	}
	if len(snapshot.Party) != 1 || snapshot.Party[0].Name != "Mira" {
		t.Fatalf("party not restored: %+v", snapshot.Party)
	}
}
