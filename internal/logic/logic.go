// Package logic maps semantic records to the two descriptions produced for
// every utterance: the database operation it stands for and its logical form,
// which is a predicate expression together with the procedure calls that carry
// it out.
package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/HienLe2004/menuq/internal/semantic"
)

// InvalidQuery is the database operation of a record that could not be
// mapped.
const InvalidQuery = "INVALID QUERY"

// Procedure is a step the executor knows how to perform against the menu and
// a cart.
type Procedure int

const (
	Reject Procedure = iota
	AddToCart
	RemoveFromCart
	SetItemQuantity
	SetDeliveryTime
	ClearCart
	ListMenu
	ShowCart
	ComputeTotal
	QueryPrice
	QueryAvailability
)

var procedureNames = []string{
	Reject:            "reject",
	AddToCart:         "add_to_cart",
	RemoveFromCart:    "remove_from_cart",
	SetItemQuantity:   "set_item_quantity",
	SetDeliveryTime:   "set_delivery_time",
	ClearCart:         "clear_cart",
	ListMenu:          "list_menu",
	ShowCart:          "show_cart",
	ComputeTotal:      "compute_total",
	QueryPrice:        "query_price",
	QueryAvailability: "query_availability",
}

func (p Procedure) String() string {
	if p < 0 || int(p) >= len(procedureNames) {
		return fmt.Sprintf("Procedure(%d)", int(p))
	}
	return procedureNames[p]
}

// Call is one procedure invocation along with its arguments. Only the fields
// that apply to Proc are set.
type Call struct {
	Proc       Procedure
	Item       string
	Quantity   int
	Attributes []string
	Time       string

	// Reason is why the utterance was rejected. Only set for Reject.
	Reason error
}

func (c Call) String() string {
	var args []string
	switch c.Proc {
	case AddToCart:
		args = []string{c.Item, strconv.Itoa(c.Quantity), formatList(c.Attributes)}
	case RemoveFromCart, QueryPrice, QueryAvailability:
		args = []string{c.Item}
	case SetItemQuantity:
		args = []string{c.Item, strconv.Itoa(c.Quantity)}
	case SetDeliveryTime:
		args = []string{strconv.Quote(c.Time)}
	case Reject:
		if c.Reason != nil {
			args = []string{strconv.Quote(c.Reason.Error())}
		}
	}
	return c.Proc.String() + "(" + strings.Join(args, ", ") + ")"
}

// LogicalForm is the predicate-style reading of a record plus the ordered
// procedure calls that execute it.
type LogicalForm struct {
	Expr  string
	Calls []Call
}

// String gives the expression followed by its procedure calls, as written to
// the logical form report.
func (lf LogicalForm) String() string {
	calls := make([]string, len(lf.Calls))
	for i := range lf.Calls {
		calls[i] = lf.Calls[i].String()
	}
	return lf.Expr + " ⇒ " + strings.Join(calls, "; ")
}

// PriceLookup gives the catalog price of an item. *menu.Menu implements it.
type PriceLookup interface {
	Price(name string) (int, bool)
}

// ToDatabaseOperation describes the database operation that rec stands for.
// Operations that touch a priced item include the item's price, or "unknown"
// if prices has no price for it. A nil or invalid record gives InvalidQuery.
func ToDatabaseOperation(rec semantic.Record, prices PriceLookup) string {
	switch r := rec.(type) {
	case semantic.Placement:
		return fmt.Sprintf("INSERT/UPDATE order: %s × %d @ %s", r.Item, r.Quantity, priceOf(prices, r.Item))
	case semantic.Removal:
		return fmt.Sprintf("DELETE FROM order: %s", r.Item)
	case semantic.Modification:
		return fmt.Sprintf("UPDATE order SET quantity = %d WHERE item = '%s' @ %s", r.Quantity, r.Item, priceOf(prices, r.Item))
	case semantic.Cancellation:
		return "DELETE FROM order"
	case semantic.ItemQuery:
		if r.Intent() == semantic.Avail || r.Intent() == semantic.AskAvailability {
			return fmt.Sprintf("EXISTS IN MENU: %s", r.Item)
		}
		return fmt.Sprintf("SELECT price FROM menu WHERE name = '%s' -- price=%s", r.Item, priceOf(prices, r.Item))
	case semantic.OrderQuery:
		switch r.Intent() {
		case semantic.Menu, semantic.AskMenu:
			return "SELECT name, price FROM menu"
		case semantic.AskTotal:
			return "SELECT SUM(quantity * price) FROM current_order"
		default:
			return "SELECT * FROM current_order"
		}
	}
	return InvalidQuery
}

func priceOf(prices PriceLookup, item string) string {
	if prices == nil {
		return "unknown"
	}
	p, ok := prices.Price(item)
	if !ok {
		return "unknown"
	}
	return strconv.Itoa(p)
}

// ToLogicalForm gives the logical form of rec. Each intent keeps its own
// predicate name in the expression, so grammar and pattern readings of the
// same request differ there, but both map to the same procedures. A nil or
// invalid record gives the expression "invalid()" and a single Reject call.
func ToLogicalForm(rec semantic.Record) LogicalForm {
	switch r := rec.(type) {
	case semantic.Placement:
		lf := LogicalForm{
			Expr: fmt.Sprintf("%s(%s, %d, %s, %s)", r.Intent(), r.Item, r.Quantity, formatList(r.Attributes), strconv.Quote(r.Time)),
			Calls: []Call{{
				Proc:       AddToCart,
				Item:       r.Item,
				Quantity:   r.Quantity,
				Attributes: r.Attributes,
			}},
		}
		if r.Time != "" {
			lf.Calls = append(lf.Calls, Call{Proc: SetDeliveryTime, Item: r.Item, Time: r.Time})
		}
		return lf
	case semantic.Removal:
		return LogicalForm{
			Expr:  fmt.Sprintf("%s(%s)", r.Intent(), r.Item),
			Calls: []Call{{Proc: RemoveFromCart, Item: r.Item}},
		}
	case semantic.Modification:
		return LogicalForm{
			Expr:  fmt.Sprintf("%s(%s, %d)", r.Intent(), r.Item, r.Quantity),
			Calls: []Call{{Proc: SetItemQuantity, Item: r.Item, Quantity: r.Quantity}},
		}
	case semantic.Cancellation:
		return LogicalForm{
			Expr:  fmt.Sprintf("%s()", r.Intent()),
			Calls: []Call{{Proc: ClearCart}},
		}
	case semantic.ItemQuery:
		proc := QueryPrice
		if r.Intent() == semantic.Avail || r.Intent() == semantic.AskAvailability {
			proc = QueryAvailability
		}
		return LogicalForm{
			Expr:  fmt.Sprintf("%s(%s)", r.Intent(), r.Item),
			Calls: []Call{{Proc: proc, Item: r.Item}},
		}
	case semantic.OrderQuery:
		var proc Procedure
		switch r.Intent() {
		case semantic.Menu, semantic.AskMenu:
			proc = ListMenu
		case semantic.AskTotal:
			proc = ComputeTotal
		default:
			proc = ShowCart
		}
		return LogicalForm{
			Expr:  fmt.Sprintf("%s()", r.Intent()),
			Calls: []Call{{Proc: proc}},
		}
	case semantic.Invalid:
		return invalidForm(r.Reason)
	}

	return invalidForm(mqerrors.ErrUnmappedIntent)
}

func invalidForm(reason error) LogicalForm {
	return LogicalForm{
		Expr:  "invalid()",
		Calls: []Call{{Proc: Reject, Reason: reason}},
	}
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
