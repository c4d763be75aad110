package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HienLe2004/menuq/internal/util"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/google/uuid"
)

func NewSessionsRepository() *InMemorySessionsRepository {
	return &InMemorySessionsRepository{
		sessions: make(map[uuid.UUID]dao.Session),
	}
}

type InMemorySessionsRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]dao.Session
}

func (imsr *InMemorySessionsRepository) Close() error {
	return nil
}

func (imsr *InMemorySessionsRepository) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	if s.ID == uuid.Nil {
		newUUID, err := uuid.NewRandom()
		if err != nil {
			return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
		}
		s.ID = newUUID
	}

	imsr.mu.Lock()
	defer imsr.mu.Unlock()

	if _, ok := imsr.sessions[s.ID]; ok {
		return dao.Session{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	s.Created = now
	s.LastActive = now

	imsr.sessions[s.ID] = s

	return s, nil
}

func (imsr *InMemorySessionsRepository) GetAll(ctx context.Context) ([]dao.Session, error) {
	imsr.mu.RLock()
	defer imsr.mu.RUnlock()

	all := make([]dao.Session, 0, len(imsr.sessions))
	for k := range imsr.sessions {
		all = append(all, imsr.sessions[k])
	}

	all = util.SortBy(all, func(l, r dao.Session) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imsr *InMemorySessionsRepository) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	imsr.mu.Lock()
	defer imsr.mu.Unlock()

	if _, ok := imsr.sessions[id]; !ok {
		return dao.Session{}, dao.ErrNotFound
	}
	if s.ID != id {
		if _, ok := imsr.sessions[s.ID]; ok {
			return dao.Session{}, dao.ErrConstraintViolation
		}
	}

	imsr.sessions[s.ID] = s
	if s.ID != id {
		delete(imsr.sessions, id)
	}

	return s, nil
}

func (imsr *InMemorySessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mu.RLock()
	defer imsr.mu.RUnlock()

	s, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	return s, nil
}

func (imsr *InMemorySessionsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mu.Lock()
	defer imsr.mu.Unlock()

	s, ok := imsr.sessions[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	delete(imsr.sessions, id)

	return s, nil
}
