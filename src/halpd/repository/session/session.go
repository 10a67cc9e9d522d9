package session

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/halpd/src/halpd/entity"
	"github.com/uber/halpd/src/halpd/internal/errors"
)

//go:generate mockgen -source=session.go -destination=repositorymock/session_mock.go -package=repositorymock

// Repository is an entity-scoped repository. It stores live session
// pointers so every caller serializes on the same per-session mutex.
type Repository interface {
	Get(context.Context, uuid.UUID) (*entity.Session, error)
	Set(context.Context, *entity.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// All returns the stored sessions ordered by creation.
	All(ctx context.Context) ([]*entity.Session, error)
	SessionCount(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]*entity.Session
	order    []uuid.UUID
	stats    tally.Scope
}

// New returns a repository to a key-value Session data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*entity.Session),
		stats:    stats,
	}
}

// Get returns the Session associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.memstore[id]
	if !ok {
		return nil, &errors.SessionNotFoundError{UUID: id}
	}
	return s, nil
}

// Set stores the Session under its uuid.
func (r *repository) Set(ctx context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil {
		return errors.New("can't save nil session")
	}
	if _, ok := r.memstore[s.UUID]; !ok {
		r.order = append(r.order, s.UUID)
	}
	r.memstore[s.UUID] = s
	r.stats.Gauge("active_sessions").Update(float64(len(r.memstore)))
	return nil
}

// Delete removes the Session associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memstore[id]; ok {
		delete(r.memstore, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.stats.Gauge("active_sessions").Update(float64(len(r.memstore)))
	return nil
}

// All returns the stored sessions in creation order.
func (r *repository) All(ctx context.Context) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]*entity.Session, 0, len(r.order))
	for _, id := range r.order {
		found = append(found, r.memstore[id])
	}
	return found, nil
}

// SessionCount returns the total count of stored sessions.
func (r *repository) SessionCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}
