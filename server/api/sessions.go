package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/middle"
	"github.com/HienLe2004/menuq/server/result"
	"github.com/HienLe2004/menuq/server/serr"
	"github.com/HienLe2004/menuq/server/token"
)

func sessionModel(s dao.Session) SessionModel {
	return SessionModel{
		URI:        PathPrefix + "/sessions/" + s.ID.String(),
		ID:         s.ID.String(),
		Strategy:   s.Strategy,
		Created:    s.Created.Format(time.RFC3339),
		LastActive: s.LastActive.Format(time.RFC3339),
	}
}

// HTTPCreateSession returns a HandlerFunc that starts a new customer session
// and issues the token used to order in it. The request body is optional; if
// given it may name the strategy the session reads utterances with.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	var sr SessionRequest
	if req.ContentLength != 0 {
		if err := parseJSON(req, &sr); err != nil {
			return result.BadRequest(err.Error(), err.Error())
		}
	}

	s, err := api.Backend.CreateSession(req.Context(), sr.Strategy)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, s)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := sessionModel(s)
	resp.Token = tok
	return result.Created(resp, "session %s created (strategy %s)", s.ID, s.Strategy)
}

// HTTPGetSession returns a HandlerFunc that retrieves the session the client
// holds a token for.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPGetSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetSession)
}

func (api API) epGetSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	s := req.Context().Value(middle.AuthSession).(dao.Session)

	if id != s.ID {
		return result.NotFound("session %s requested other session %s", s.ID, id)
	}

	got, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(sessionModel(got), "session %s retrieved", id)
}

// HTTPDeleteSession returns a HandlerFunc that ends the session the client
// holds a token for, discarding its order and its transcript.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPDeleteSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteSession)
}

func (api API) epDeleteSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	s := req.Context().Value(middle.AuthSession).(dao.Session)

	if id != s.ID {
		return result.NotFound("session %s tried to delete other session %s", s.ID, id)
	}

	_, err := api.Backend.DeleteSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete session: " + err.Error())
	}

	return result.NoContent("session %s deleted", id)
}
