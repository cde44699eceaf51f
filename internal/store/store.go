package store

import (
	"context"
	"errors"
	"sync"

	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/rewards"
)

// ErrStoreClosed is returned by Dispatch once the registry has dropped the store.
var ErrStoreClosed = errors.New("reward state was discarded")

type Option func(*options)

type options struct {
	pick rewards.Picker
}

// WithPicker sets the random source used to choose streak phrases.
func WithPicker(pick rewards.Picker) Option {
	return func(o *options) { o.pick = pick }
}

// Store holds the reward state of one owner. Actions are applied one at a
// time; the progress writes of an action are finished before the next
// action starts.
type Store struct {
	mu        sync.Mutex
	state     State
	gateway   repository.ProgressRepository
	pick      rewards.Picker
	listeners map[int]func(State)
	nextID    int
	closed    bool
}

// New loads owner's progress through gateway and returns an idle store.
func New(ctx context.Context, owner models.Owner, gateway repository.ProgressRepository, opts ...Option) (*Store, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	progress, err := gateway.Read(ctx, owner)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &models.Progress{Owner: owner}
	}
	progress.Owner = owner

	return &Store{
		state:     State{Owner: owner, Progress: *progress, Phase: PhaseIdle},
		gateway:   gateway,
		pick:      o.pick,
		listeners: map[int]func(State){},
	}, nil
}

// GetState returns a copy of the current state.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a and returns the resulting state. Progress writes that
// fail are logged and skipped; the state still advances. Listeners run
// before Dispatch returns and must not call back into the store.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("store").WithFields(map[string]any{
		"owner":  s.state.Owner.String(),
		"action": ActionName(a),
	})

	if s.closed {
		log.Debug("action rejected: store closed")
		return s.state.Clone(), ErrStoreClosed
	}

	next, updates, err := Reduce(s.state, a, s.pick)
	if err != nil {
		log.Debug("action rejected in phase %s: %v", s.state.Phase, err)
		return s.state.Clone(), err
	}

	for _, u := range updates {
		if err := s.gateway.Write(ctx, s.state.Owner, u); err != nil {
			log.Warn("failed to persist progress update: %v", err)
		}
	}

	log.Debug("phase %s -> %s, %d progress writes", s.state.Phase, next.Phase, len(updates))
	s.state = next

	for _, fn := range s.listeners {
		fn(next.Clone())
	}
	return next.Clone(), nil
}

// close waits for the action in flight, if any, and makes every later
// Dispatch fail without writing progress.
func (s *Store) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Subscribe registers fn to be called with the new state after every
// accepted action. The returned function removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
