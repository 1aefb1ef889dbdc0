// Package session holds the process-wide user identity and keeps it mirrored
// into durable storage.
//
// The identity is changed only through Initialize and SetUser. Both write
// through to storage before returning; storage failures are logged and
// swallowed, leaving the identity session-only.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/netlab/netlabctl/internal/logging"
	"github.com/netlab/netlabctl/internal/storage"
)

// Store owns the current Identity.
type Store struct {
	mu      sync.RWMutex
	current Identity

	storage    storage.Storage
	key        string
	newGuestID func() string
	logger     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key (default "userId").
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithGenerator replaces the guest-id generator.
func WithGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newGuestID = fn
		}
	}
}

// WithLogger sets the logger used for swallowed storage errors.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = logging.OrNop(l) }
}

// New returns a Store with an absent identity. A nil backend makes every
// identity session-only.
func New(backend storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage:    backend,
		key:        storage.DefaultKey,
		newGuestID: NewGuestID,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize adopts the stored id, or creates and stores a guest id when there is
// none. It does nothing when an identity is already present. A guest created
// after a failed read stays in memory so it cannot replace a stored id.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Present() {
		return
	}
	id, readable := s.load(ctx)
	if id != "" {
		s.current = Classify(id)
		s.logger.Debug("session restored", zap.String("kind", s.current.Kind.String()))
		return
	}

	id = s.newGuestID()
	s.current = Classify(id)
	if readable {
		s.persist(ctx, id)
	}
	s.logger.Info("guest session created", zap.String("id", id), zap.Bool("persisted", readable))
}

// SetUser replaces the identity wholesale. An empty id clears it and removes the
// stored entry.
func (s *Store) SetUser(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Classify(id)
	s.persist(ctx, id)
	s.logger.Debug("session user set", zap.String("kind", s.current.Kind.String()))
}

// CurrentID returns the id and whether one is present.
func (s *Store) CurrentID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.ID, s.current.Present()
}

// IsGuest is true when no identity is present or the id has the guest prefix.
// Use Identity to tell the two apart.
func (s *Store) IsGuest() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsGuest()
}

// Identity returns the classified identity.
func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// load returns the stored id and whether storage could be read at all.
func (s *Store) load(ctx context.Context) (string, bool) {
	if s.storage == nil {
		return "", false
	}
	v, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Debug("session storage read failed", zap.String("key", s.key), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", true
	}
	return v, true
}

func (s *Store) persist(ctx context.Context, id string) {
	if s.storage == nil {
		return
	}
	var err error
	if id != "" {
		err = s.storage.Set(ctx, s.key, id)
	} else {
		err = s.storage.Remove(ctx, s.key)
	}
	if err != nil {
		s.logger.Debug("session storage write failed", zap.String("key", s.key), zap.Error(err))
	}
}
