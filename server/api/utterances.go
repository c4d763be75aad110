package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/middle"
	"github.com/HienLe2004/menuq/server/result"
	"github.com/HienLe2004/menuq/server/serr"
)

// HTTPCreateUtterance returns a HandlerFunc that runs one utterance through
// the interpreter of the client session and responds with the output of every
// stage.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPCreateUtterance() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateUtterance)
}

func (api API) epCreateUtterance(req *http.Request) result.Result {
	s := req.Context().Value(middle.AuthSession).(dao.Session)

	var ur UtteranceRequest
	if err := parseJSON(req, &ur); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if strings.TrimSpace(ur.Text) == "" {
		return result.BadRequest("text: property is empty or missing from request", "empty text")
	}

	res, err := api.Backend.Process(req.Context(), s.ID, ur.Text)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := UtteranceModel{
		Input:       res.Input,
		Structure:   res.Structure,
		Semantics:   res.Semantics,
		DBOperation: res.DBOperation,
		LogicalForm: res.LogicalForm,
		Answer:      res.Answer,
		Answers:     res.Answers,
	}
	return result.Created(resp, "session %s: %s", s.ID, res.Semantics)
}

// HTTPGetTranscript returns a HandlerFunc that retrieves every utterance of
// the client session along with the cart as it stood after each one.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPGetTranscript() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetTranscript)
}

func (api API) epGetTranscript(req *http.Request) result.Result {
	s := req.Context().Value(middle.AuthSession).(dao.Session)

	all, err := api.Backend.Transcript(req.Context(), s.ID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := make([]UtteranceModel, len(all))
	for i, u := range all {
		resp[i] = UtteranceModel{
			ID:          u.ID.String(),
			Input:       u.Input,
			Structure:   u.Structure,
			Semantics:   u.Semantics,
			DBOperation: u.DBOperation,
			LogicalForm: u.LogicalForm,
			Answer:      u.Answer,
			Created:     u.Created.Format(time.RFC3339),
		}
		for _, ln := range u.Cart {
			resp[i].Cart = append(resp[i].Cart, lineModel(order.Line{
				Item:       ln.Item,
				Quantity:   ln.Quantity,
				Attributes: ln.Attributes,
				Time:       ln.Time,
				Price:      ln.Price,
			}))
		}
	}

	return result.OK(resp, "session %s got transcript of %d utterance(s)", s.ID, len(resp))
}
