package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
	"github.com/quest-net/questd/internal/game/state"
)

var (
	// ErrRouterRequired indicates a missing command router.
	ErrRouterRequired = errors.New("router is required")
	// ErrRegistriesRequired indicates missing command/event registries.
	ErrRegistriesRequired = errors.New("command and event registries are required")
)

// Journal appends accepted events and lists them back for replay.
type Journal interface {
	Append(ctx context.Context, evt event.Event) (event.Event, error)
	ListEvents(ctx context.Context, gameID string, afterSeq uint64) ([]event.Event, error)
}

// CheckpointStore persists the folded snapshot alongside the journal so
// restarts resume from the checkpoint instead of replaying from zero.
type CheckpointStore interface {
	SaveState(ctx context.Context, snapshot state.Snapshot) error
	LoadState(ctx context.Context, gameID string) (state.Snapshot, bool, error)
}

// Publisher broadcasts a complete snapshot to every connected peer.
type Publisher interface {
	Publish(ctx context.Context, snapshot state.Snapshot)
}

// Authority is the single writer for one game's state. All mutations pass
// through Handle under one mutex; peers never write state directly.
type Authority struct {
	mu          sync.Mutex
	snapshot    state.Snapshot
	registries  Registries
	router      *Router
	journal     Journal
	checkpoints CheckpointStore
	publisher   Publisher
	now         func() time.Time
	tracer      trace.Tracer
}

// AuthorityConfig wires an authority's collaborators.
type AuthorityConfig struct {
	Snapshot    state.Snapshot
	Registries  Registries
	Router      *Router
	Journal     Journal
	Checkpoints CheckpointStore
	Publisher   Publisher
	Now         func() time.Time
}

// NewAuthority builds the single-writer authority for one game.
func NewAuthority(cfg AuthorityConfig) (*Authority, error) {
	if cfg.Router == nil {
		return nil, ErrRouterRequired
	}
	if cfg.Registries.Commands == nil || cfg.Registries.Events == nil {
		return nil, ErrRegistriesRequired
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Authority{
		snapshot:    cfg.Snapshot,
		registries:  cfg.Registries,
		router:      cfg.Router,
		journal:     cfg.Journal,
		checkpoints: cfg.Checkpoints,
		publisher:   cfg.Publisher,
		now:         now,
		tracer:      otel.Tracer("questd/game/engine"),
	}, nil
}

// SetPublisher attaches the snapshot publisher. The broadcast hub needs the
// authority as its command handler, so one of the two is wired late.
func (a *Authority) SetPublisher(p Publisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publisher = p
}

// Snapshot returns the current canonical snapshot.
func (a *Authority) Snapshot() state.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// Handle validates, decides, journals, folds, and publishes one command.
//
// Rejections are not errors: they are logged, dropped, and the snapshot stays
// untouched. Errors indicate infrastructure failure (journal or checkpoint),
// after which the in-memory snapshot is left unchanged.
func (a *Authority) Handle(ctx context.Context, cmd command.Command) (command.Decision, error) {
	ctx, span := a.tracer.Start(ctx, "authority.handle", trace.WithAttributes(
		attribute.String("command.type", string(cmd.Type)),
		attribute.String("command.actor_type", string(cmd.ActorType)),
	))
	defer span.End()

	validated, err := a.registries.Commands.ValidateForDecision(cmd)
	if err != nil {
		return command.Decision{}, err
	}
	cmd = validated

	a.mu.Lock()
	defer a.mu.Unlock()

	decision, routed := a.router.Decide(a.snapshot, cmd, a.now)
	if !routed {
		return command.Decision{}, fmt.Errorf("%w: %s", command.ErrTypeUnknown, cmd.Type)
	}
	if len(decision.Rejections) > 0 {
		for _, rejection := range decision.Rejections {
			log.Printf("reject %s: %s %s", cmd.Type, rejection.Code, rejection.Message)
		}
		return decision, nil
	}
	if len(decision.Events) == 0 {
		return decision, nil
	}

	appended := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		vetted, err := a.registries.Events.ValidateForAppend(evt)
		if err != nil {
			return command.Decision{}, err
		}
		if a.journal != nil {
			vetted, err = a.journal.Append(ctx, vetted)
			if err != nil {
				return command.Decision{}, fmt.Errorf("journal append: %w", err)
			}
		}
		appended = append(appended, vetted)
	}
	decision.Events = appended

	next := a.snapshot
	for _, evt := range decision.Events {
		next, err = a.router.Fold(next, evt)
		if err != nil {
			return command.Decision{}, fmt.Errorf("fold %s: %w", evt.Type, err)
		}
		if evt.Seq > next.Rev {
			next.Rev = evt.Seq
		}
	}
	a.snapshot = next

	if a.checkpoints != nil {
		if err := a.checkpoints.SaveState(ctx, next); err != nil {
			log.Printf("checkpoint save %s: %v", next.GameID, err)
		}
	}
	if a.publisher != nil {
		a.publisher.Publish(ctx, next)
	}
	return decision, nil
}

// Replay folds the journal into a fresh snapshot for the game, starting from
// the stored checkpoint when one exists. The result becomes the authority's
// canonical state on startup.
func Replay(ctx context.Context, gameID string, router *Router, journal Journal, checkpoints CheckpointStore) (state.Snapshot, error) {
	if router == nil {
		return state.Snapshot{}, ErrRouterRequired
	}
	snapshot := state.Snapshot{GameID: gameID}
	if checkpoints != nil {
		stored, ok, err := checkpoints.LoadState(ctx, gameID)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("load checkpoint: %w", err)
		}
		if ok {
			snapshot = stored
		}
	}
	if journal == nil {
		return snapshot, nil
	}
	events, err := journal.ListEvents(ctx, gameID, snapshot.Rev)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("list events: %w", err)
	}
	for _, evt := range events {
		snapshot, err = router.Fold(snapshot, evt)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("replay fold %s seq %d: %w", evt.Type, evt.Seq, err)
		}
		if evt.Seq > snapshot.Rev {
			snapshot.Rev = evt.Seq
		}
	}
	return snapshot, nil
}
