package ledger

import (
	"context"

	"go.uber.org/zap"
)

// Service applies ledger operations against a Store. It keeps no view or
// range state of its own; callers pass those in and get them back.
type Service struct {
	store    Store
	identity Identity
	log      *zap.Logger
	locks    *recordLocks
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for debug and warning events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIdentity sets the provider consulted by CurrentUser.
func WithIdentity(id Identity) Option {
	return func(s *Service) {
		s.identity = id
	}
}

// NewService returns a Service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
		locks: newRecordLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentUser resolves the owner for subsequent operations.
func (s *Service) CurrentUser(ctx context.Context) (string, error) {
	if s.identity == nil {
		return "", ErrUnauthenticated
	}
	owner, err := s.identity.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", ErrUnauthenticated
	}
	return owner, nil
}
