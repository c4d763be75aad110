package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/google/uuid"
)

func NewUtterancesRepository() *InMemoryUtterancesRepository {
	return &InMemoryUtterancesRepository{
		utterances:     make(map[uuid.UUID]dao.Utterance),
		bySessionIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type InMemoryUtterancesRepository struct {
	mu             sync.RWMutex
	utterances     map[uuid.UUID]dao.Utterance
	bySessionIndex map[uuid.UUID][]uuid.UUID
}

func (imur *InMemoryUtterancesRepository) Close() error {
	return nil
}

func (imur *InMemoryUtterancesRepository) Create(ctx context.Context, u dao.Utterance) (dao.Utterance, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Utterance{}, fmt.Errorf("could not generate ID: %w", err)
	}

	u.ID = newUUID
	u.Created = time.Now()
	u.Cart = copyCart(u.Cart)

	imur.mu.Lock()
	defer imur.mu.Unlock()

	imur.utterances[u.ID] = u
	imur.bySessionIndex[u.SessionID] = append(imur.bySessionIndex[u.SessionID], u.ID)

	return u, nil
}

func (imur *InMemoryUtterancesRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Utterance, error) {
	imur.mu.RLock()
	defer imur.mu.RUnlock()

	u, ok := imur.utterances[id]
	if !ok {
		return dao.Utterance{}, dao.ErrNotFound
	}

	u.Cart = copyCart(u.Cart)
	return u, nil
}

func (imur *InMemoryUtterancesRepository) GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Utterance, error) {
	imur.mu.RLock()
	defer imur.mu.RUnlock()

	ids := imur.bySessionIndex[sessionID]
	all := make([]dao.Utterance, len(ids))
	for i := range ids {
		all[i] = imur.utterances[ids[i]]
		all[i].Cart = copyCart(all[i].Cart)
	}

	return all, nil
}

func (imur *InMemoryUtterancesRepository) DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Utterance, error) {
	imur.mu.Lock()
	defer imur.mu.Unlock()

	ids := imur.bySessionIndex[sessionID]
	removed := make([]dao.Utterance, len(ids))
	for i := range ids {
		removed[i] = imur.utterances[ids[i]]
		delete(imur.utterances, ids[i])
	}
	delete(imur.bySessionIndex, sessionID)

	return removed, nil
}

func copyCart(lines []dao.CartLine) []dao.CartLine {
	if lines == nil {
		return nil
	}
	cp := make([]dao.CartLine, len(lines))
	for i := range lines {
		cp[i] = lines[i]
		cp[i].Attributes = append([]string(nil), lines[i].Attributes...)
	}
	return cp
}
