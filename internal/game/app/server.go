// Package server wires the game authority runtime and HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quest-net/questd/internal/game/broadcast"
	"github.com/quest-net/questd/internal/game/engine"
	"github.com/quest-net/questd/internal/game/protocol"
	gamesqlite "github.com/quest-net/questd/internal/game/storage/sqlite"
	"github.com/quest-net/questd/internal/id"
	"github.com/quest-net/questd/internal/platform/config"
)

const shutdownTimeout = 5 * time.Second

type serverEnv struct {
	DBPath string `env:"QUESTD_DB_PATH"`
	GameID string `env:"QUESTD_GAME_ID"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "questd.db")
	}
	if strings.TrimSpace(cfg.GameID) == "" {
		cfg.GameID = "default"
	}
	return cfg
}

// Server hosts the websocket broadcast hub, the authority, and the storage
// lifecycle for one game.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	hub        *broadcast.Hub
	store      *gamesqlite.Store
	authority  *engine.Authority
}

// New creates a configured game server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured game server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := openGameStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	authority, hub, err := buildRuntime(context.Background(), env.GameID, store)
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		listener:   listener,
		httpServer: &http.Server{Handler: mux},
		hub:        hub,
		store:      store,
		authority:  authority,
	}, nil
}

func openGameStore(path string) (*gamesqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := gamesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open game sqlite store: %w", err)
	}
	return store, nil
}

// buildRuntime replays the journal into a snapshot and wires the authority to
// the broadcast hub. The hub needs the authority as its command handler and
// the authority needs the hub as its publisher, so the publisher is set last.
func buildRuntime(ctx context.Context, gameID string, store *gamesqlite.Store) (*engine.Authority, *broadcast.Hub, error) {
	registries, err := engine.BuildRegistries()
	if err != nil {
		return nil, nil, fmt.Errorf("build registries: %w", err)
	}
	router := engine.NewRouter(id.New)
	snapshot, err := engine.Replay(ctx, gameID, router, store, store)
	if err != nil {
		return nil, nil, fmt.Errorf("replay journal: %w", err)
	}
	authority, err := engine.NewAuthority(engine.AuthorityConfig{
		Snapshot:    snapshot,
		Registries:  registries,
		Router:      router,
		Journal:     store,
		Checkpoints: store,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build authority: %w", err)
	}
	channels, err := protocol.DefaultRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("build channel registry: %w", err)
	}
	hub := broadcast.NewHub(gameID, channels, authority)
	hub.SetHandler(authority)
	authority.SetPublisher(hub)
	return authority, hub, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Authority returns the game authority, primarily for tests.
func (s *Server) Authority() *engine.Authority {
	if s == nil {
		return nil
	}
	return s.authority
}

// Run creates and serves a game server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the HTTP server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("game server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases the hub, storage, and listener.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.hub != nil {
		s.hub.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
