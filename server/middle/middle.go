// Package middle contains middleware for use with the MenuQ server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/result"
	"github.com/HienLe2004/menuq/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by a SessionHandler.
type AuthKey int64

const (
	AuthSession AuthKey = iota
)

// SessionHandler is middleware that will accept a request, extract the token
// used to identify the customer session, and look up the session it was
// issued for. A request without a valid token is rejected with an HTTP-401
// after waiting unauthedDelay.
//
// The session is added to the request context under AuthSession before the
// request is passed to the next step in the chain.
type SessionHandler struct {
	db            dao.SessionRepository
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func (sh *SessionHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := token.Get(req)
	if err != nil {
		r := result.Unauthorized("", err.Error())
		time.Sleep(sh.unauthedDelay)
		r.WriteResponse(w, req)
		return
	}

	sess, err := token.Validate(req.Context(), tok, sh.secret, sh.db)
	if err != nil {
		r := result.Unauthorized("", err.Error())
		time.Sleep(sh.unauthedDelay)
		r.WriteResponse(w, req)
		return
	}

	ctx := context.WithValue(req.Context(), AuthSession, sess)
	sh.next.ServeHTTP(w, req.WithContext(ctx))
}

// RequireSession returns middleware that requires a valid session token.
func RequireSession(db dao.SessionRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &SessionHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			next:          next,
		}
	}
}

// Session returns the session placed in ctx by a SessionHandler.
func Session(ctx context.Context) (dao.Session, bool) {
	s, ok := ctx.Value(AuthSession).(dao.Session)
	return s, ok
}
