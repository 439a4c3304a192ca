package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
)

// Errors exposed by the service layer.
var (
	ErrNotFound = errors.New("game not found")
)

// GameState is the state tracked per game session.
type GameState struct {
	ID      string      `json:"id"`
	Game    domain.Game `json:"game"`
	Created time.Time   `json:"created"`
	Updated time.Time   `json:"updated"`
}

type subscriber struct {
	mu     sync.Mutex
	closed bool
	ch     chan []byte
	done   chan struct{}
}

func newSubscriber() *subscriber {
	return &subscriber{ch: make(chan []byte, 1), done: make(chan struct{})}
}

// send never blocks; it reports false when the buffer is full.
// Sends after close are discarded.
func (s *subscriber) send(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- payload:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	close(s.done)
}

// Service manages game sessions and their subscribers.
type Service struct {
	mu     sync.Mutex
	store  Store
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	log    *slog.Logger
}

func noRender(GameState) []byte { return nil }

// NewService creates a service backed by store. Broadcast payloads are empty
// until a renderer is set.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		subs:   make(map[string]map[*subscriber]struct{}),
		render: noRender,
		log:    logger.With("component", "service"),
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = noRender
		return
	}
	s.render = renderer
}

// CreateGame creates and stores a new game.
func (s *Service) CreateGame(ctx context.Context) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	gs := &GameState{ID: uuid.NewString(), Game: domain.New(), Created: now, Updated: now}
	if err := s.store.Save(ctx, gs); err != nil {
		return nil, fmt.Errorf("save new game: %w", err)
	}
	s.log.Debug("game created", "game", gs.ID)
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state.
func (s *Service) Get(ctx context.Context, id string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx, id)
}

// Move plays the next mark at cell. Moves the rules reject (occupied cell,
// finished game, cell outside the grid) leave the game untouched and report
// applied=false without an error.
func (s *Service) Move(ctx context.Context, id string, cell int) (*GameState, bool, error) {
	gs, err := s.mutate(ctx, id, func(g *domain.Game) error { return g.Play(cell) })
	switch {
	case err == nil:
		s.log.Debug("move applied", "game", id, "cell", cell, "step", gs.Game.Step())
		return gs, true, nil
	case errors.Is(err, domain.ErrOccupied), errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrOutOfBounds):
		s.log.Debug("move ignored", "game", id, "cell", cell, "reason", err)
		return gs, false, nil
	default:
		return nil, false, err
	}
}

// JumpTo moves the game view to step.
func (s *Service) JumpTo(ctx context.Context, id string, step int) (*GameState, error) {
	gs, err := s.mutate(ctx, id, func(g *domain.Game) error { return g.JumpTo(step) })
	if err != nil {
		return nil, err
	}
	s.log.Debug("jumped", "game", id, "step", step)
	return gs, nil
}

// ToggleOrder flips the move list order.
func (s *Service) ToggleOrder(ctx context.Context, id string) (*GameState, error) {
	return s.mutate(ctx, id, func(g *domain.Game) error {
		g.ToggleOrder()
		return nil
	})
}

// DeleteGame removes the game and closes its subscribers.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	for sub := range s.subs[id] {
		sub.close()
	}
	delete(s.subs, id)
	s.log.Debug("game deleted", "game", id)
	return nil
}

// mutate applies op to the stored game, saves it and broadcasts the result.
// When op fails the unchanged state is returned with op's error.
func (s *Service) mutate(ctx context.Context, id string, op func(*domain.Game) error) (*GameState, error) {
	s.mu.Lock()
	gs, err := s.store.Load(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err = op(&gs.Game); err != nil {
		s.mu.Unlock()
		return gs, err
	}
	gs.Updated = time.Now()
	if err = s.store.Save(ctx, gs); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save game %s: %w", id, err)
	}

	// Snapshot state and subscribers
	cp := *gs
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.broadcast(id, subs, payload)
	return &cp, nil
}

// broadcast fans payload out; slow subscribers are closed and dropped.
func (s *Service) broadcast(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
	s.log.Debug("dropped slow subscribers", "game", id, "count", len(toDrop))
}

// Subscribe registers a subscriber for a game. The channel is closed when ctx
// ends, when unsubscribe is called, or when the subscriber falls behind.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Load(ctx, id); err != nil {
		return nil, nil, err
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := newSubscriber()
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
		case <-sub.done:
		}
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
