package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/HienLe2004/menuq/server/api"
	"github.com/HienLe2004/menuq/server/middle"
	"github.com/HienLe2004/menuq/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	reqSession := middle.RequireSession(a.Backend.DB.Sessions(), a.Secret, a.UnauthDelay)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", a.HTTPCreateSession())
		r.With(reqSession).Get("/"+p("id:uuid"), a.HTTPGetSession())
		r.With(reqSession).Delete("/"+p("id:uuid"), a.HTTPDeleteSession())
		r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)
	})

	r.Route("/utterances", func(r chi.Router) {
		r.Use(reqSession)
		r.Post("/", a.HTTPCreateUtterance())
		r.Get("/", a.HTTPGetTranscript())
	})

	r.Route("/order", func(r chi.Router) {
		r.Use(reqSession)
		r.Get("/", a.HTTPGetOrder())
		r.Delete("/", a.HTTPDeleteOrder())
	})

	r.Get("/menu", a.HTTPGetMenu())
	r.Get("/grammar", a.HTTPGetGrammar())
	r.Get("/info", a.HTTPGetInfo())
	r.HandleFunc("/menu/", RedirectNoTrailingSlash)
	r.HandleFunc("/grammar/", RedirectNoTrailingSlash)
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w, req)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(req).WriteResponse(w, req)
	})

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w, req)
}
