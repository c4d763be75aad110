package api

import (
	"errors"
	"net/http"

	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/middle"
	"github.com/HienLe2004/menuq/server/result"
	"github.com/HienLe2004/menuq/server/serr"
)

func lineModel(ln order.Line) OrderLineModel {
	return OrderLineModel{
		Item:       ln.Item,
		Quantity:   ln.Quantity,
		Attributes: ln.Attributes,
		Time:       ln.Time,
		Price:      ln.Price,
		Subtotal:   ln.Subtotal(),
	}
}

// HTTPGetOrder returns a HandlerFunc that retrieves the current cart of the
// client session.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPGetOrder() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetOrder)
}

func (api API) epGetOrder(req *http.Request) result.Result {
	s := req.Context().Value(middle.AuthSession).(dao.Session)

	o, err := api.Backend.GetOrder(req.Context(), s.ID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := OrderModel{
		Lines:        make([]OrderLineModel, len(o.Lines)),
		Total:        o.Total,
		TotalDisplay: menu.FormatPrice(o.Total),
	}
	for i := range o.Lines {
		resp.Lines[i] = lineModel(o.Lines[i])
	}

	return result.OK(resp, "session %s got order of %d line(s)", s.ID, len(resp.Lines))
}

// HTTPDeleteOrder returns a HandlerFunc that empties the cart of the client
// session.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPDeleteOrder() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteOrder)
}

func (api API) epDeleteOrder(req *http.Request) result.Result {
	s := req.Context().Value(middle.AuthSession).(dao.Session)

	if _, err := api.Backend.ClearOrder(req.Context(), s.ID); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("session %s cleared order", s.ID)
}
