package mqs

import (
	"context"
	"errors"
	"log"

	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/session"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/serr"
	"github.com/google/uuid"
)

// CreateSession starts a new customer session with an empty cart that reads
// utterances with the named strategy. If strategy is empty, the default
// strategy of the service is used.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if the
// strategy is not known, or serr.ErrDB if the session could not be recorded.
func (svc *Service) CreateSession(ctx context.Context, strategy string) (dao.Session, error) {
	strat := svc.DefaultStrategy
	if strategy != "" {
		var err error
		strat, err = pipeline.ParseStrategy(strategy)
		if err != nil {
			return dao.Session{}, serr.New(err.Error(), serr.ErrBadArgument)
		}
	}

	live, err := svc.live.Create()
	if err != nil {
		return dao.Session{}, err
	}

	stored, err := svc.DB.Sessions().Create(ctx, dao.Session{ID: live.ID, Strategy: strat.String()})
	if err != nil {
		svc.live.Delete(live.ID)
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Session{}, serr.ErrAlreadyExists
		}
		return dao.Session{}, serr.WrapDB("could not create session", err)
	}

	return stored, nil
}

// GetSession returns the stored session with the given ID.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such session, or serr.ErrDB if there was a problem reading it.
func (svc *Service) GetSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s, err := svc.DB.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not get session", err)
	}
	return s, nil
}

// DeleteSession ends the session with the given ID, discarding its cart and
// its transcript. The deleted session is returned.
func (svc *Service) DeleteSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	if _, err := svc.DB.Utterances().DeleteAllBySession(ctx, id); err != nil && !errors.Is(err, dao.ErrNotFound) {
		return dao.Session{}, serr.WrapDB("could not delete transcript", err)
	}

	s, err := svc.DB.Sessions().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not delete session", err)
	}

	svc.live.Delete(id)
	return s, nil
}

// liveSession returns the in-memory session for s. A stored session with no
// live counterpart, such as one created before the server restarted, carries
// on with an empty cart; its transcript is history only.
func (svc *Service) liveSession(s dao.Session) *session.Session {
	live, isNew := svc.live.Resume(s.ID, s.Created)
	if isNew {
		log.Printf("INFO  session %s resumed with an empty cart", s.ID)
	}
	return live
}

func (svc *Service) processorFor(s dao.Session) pipeline.Processor {
	strat, err := pipeline.ParseStrategy(s.Strategy)
	if err != nil {
		strat = svc.DefaultStrategy
	}
	return svc.procs[strat]
}

func snapshotOf(cart *order.Cart) []dao.CartLine {
	lines := cart.Lines()
	snap := make([]dao.CartLine, len(lines))
	for i, ln := range lines {
		snap[i] = dao.CartLine{
			Item:       ln.Item,
			Quantity:   ln.Quantity,
			Attributes: ln.Attributes,
			Time:       ln.Time,
			Price:      ln.Price,
		}
	}
	return snap
}
