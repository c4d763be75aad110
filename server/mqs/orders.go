package mqs

import (
	"context"
	"errors"
	"time"

	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/semantic"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/serr"
	"github.com/google/uuid"
)

// resetInput is recorded as the utterance of a ClearOrder call.
const resetInput = "RESET"

// Order is the current state of a session cart.
type Order struct {
	Lines []order.Line
	Total int
}

// Process runs text through the interpreter of the given session against its
// cart and records the result in the session transcript.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// such session, or serr.ErrDB if the result could not be recorded. An
// utterance that cannot be understood is not an error; its Result says so.
func (svc *Service) Process(ctx context.Context, sessionID uuid.UUID, text string) (pipeline.Result, error) {
	s, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		return pipeline.Result{}, err
	}

	proc := svc.processorFor(s)
	return svc.run(ctx, s, func(cart *order.Cart) pipeline.Result {
		return proc.Process(cart, text)
	})
}

// ClearOrder empties the cart of the given session. It is recorded in the
// transcript like a cancellation request.
func (svc *Service) ClearOrder(ctx context.Context, sessionID uuid.UUID) (pipeline.Result, error) {
	s, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		return pipeline.Result{}, err
	}

	proc := svc.processorFor(s)
	return svc.run(ctx, s, func(cart *order.Cart) pipeline.Result {
		return proc.Apply(cart, resetInput, semantic.Cancellation{})
	})
}

// GetOrder returns the current cart of the given session.
func (svc *Service) GetOrder(ctx context.Context, sessionID uuid.UUID) (Order, error) {
	s, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		return Order{}, err
	}

	var o Order
	svc.liveSession(s).Do(func(cart *order.Cart) {
		o.Lines = cart.Lines()
		o.Total = cart.Total()
	})
	return o, nil
}

// Transcript returns every utterance recorded for the given session, oldest
// first.
func (svc *Service) Transcript(ctx context.Context, sessionID uuid.UUID) ([]dao.Utterance, error) {
	if _, err := svc.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	all, err := svc.DB.Utterances().GetAllBySession(ctx, sessionID)
	if err != nil && !errors.Is(err, dao.ErrNotFound) {
		return nil, serr.WrapDB("could not get transcript", err)
	}
	return all, nil
}

// run applies fn to the live cart of s and records the result. The session
// lock is held until the utterance is stored so that transcripts of
// concurrent requests are kept in the order they were applied.
func (svc *Service) run(ctx context.Context, s dao.Session, fn func(cart *order.Cart) pipeline.Result) (pipeline.Result, error) {
	var res pipeline.Result
	var err error
	svc.liveSession(s).Do(func(cart *order.Cart) {
		res = fn(cart)

		_, err = svc.DB.Utterances().Create(ctx, dao.Utterance{
			SessionID:   s.ID,
			Input:       res.Input,
			Structure:   res.Structure,
			Semantics:   res.Semantics,
			DBOperation: res.DBOperation,
			LogicalForm: res.LogicalForm,
			Answer:      res.Answer,
			Cart:        snapshotOf(cart),
		})
	})
	if err != nil {
		return res, serr.WrapDB("could not record utterance", err)
	}

	s.LastActive = time.Now()
	if _, err := svc.DB.Sessions().Update(ctx, s.ID, s); err != nil {
		return res, serr.WrapDB("could not update session", err)
	}

	return res, nil
}
