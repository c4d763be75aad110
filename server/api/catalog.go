package api

import (
	"net/http"

	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/version"
	"github.com/HienLe2004/menuq/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.MenuQ = version.Current
	resp.Strategy = api.Backend.DefaultStrategy.String()
	resp.LiveSessions = api.Backend.LiveSessions()

	return result.OK(resp, "got API info")
}

// HTTPGetMenu returns a HandlerFunc that lists every item on the menu.
func (api API) HTTPGetMenu() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetMenu)
}

func (api API) epGetMenu(req *http.Request) result.Result {
	items := api.Backend.Menu()

	resp := make([]MenuItemModel, len(items))
	for i, it := range items {
		resp[i] = MenuItemModel{
			Name:         it.Name,
			Price:        it.Price,
			PriceDisplay: menu.FormatPrice(it.Price),
			Options:      it.Options,
		}
	}

	return result.OK(resp, "got menu of %d item(s)", len(resp))
}

// HTTPGetGrammar returns a HandlerFunc that writes the ordering grammar as
// plain text, one rule per line.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	return result.Text(http.StatusOK, api.Backend.Grammar().String(), "got grammar")
}
