package semantic

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is the semantic reading of one utterance. The concrete type is one
// of Placement, Removal, Modification, Cancellation, ItemQuery, OrderQuery, or
// Invalid; switch on it to get at the slots.
type Record interface {
	// Intent returns the intent of the record.
	Intent() Intent

	// String renders the record as a slot listing suitable for the semantics
	// report.
	String() string

	sealed()
}

// Placement asks for an item to be put in the cart.
type Placement struct {
	intent     Intent
	Item       string
	Quantity   int
	Attributes []string
	Time       string
}

// NewPlacement creates a Placement for one of Order, Add, or AddItem. A
// quantity below 1 is taken to be 1.
func NewPlacement(intent Intent, item string, quantity int, attributes []string, time string) (Placement, error) {
	switch intent {
	case Order, Add, AddItem:
	default:
		return Placement{}, fmt.Errorf("intent %s does not place items", intent)
	}
	if quantity < 1 {
		quantity = 1
	}
	return Placement{
		intent:     intent,
		Item:       item,
		Quantity:   quantity,
		Attributes: append([]string(nil), attributes...),
		Time:       time,
	}, nil
}

func (p Placement) Intent() Intent { return p.intent }
func (Placement) sealed()          {}

func (p Placement) String() string {
	slots := []string{
		"item: " + p.Item,
		"quantity: " + strconv.Itoa(p.Quantity),
	}
	if len(p.Attributes) > 0 {
		slots = append(slots, "attributes: ["+strings.Join(p.Attributes, ", ")+"]")
	}
	if p.Time != "" {
		slots = append(slots, "time: "+p.Time)
	}
	return formatRecord(p.intent, slots...)
}

// Removal asks for an item to be taken out of the cart.
type Removal struct {
	intent Intent
	Item   string
}

// NewRemoval creates a Removal for Remove or CancelItem.
func NewRemoval(intent Intent, item string) (Removal, error) {
	if intent != Remove && intent != CancelItem {
		return Removal{}, fmt.Errorf("intent %s does not remove items", intent)
	}
	return Removal{intent: intent, Item: item}, nil
}

func (r Removal) Intent() Intent { return r.intent }
func (Removal) sealed()          {}

func (r Removal) String() string {
	return formatRecord(r.intent, "item: "+r.Item)
}

// Modification asks for the quantity of an item in the cart to be set to an
// exact value. Its intent is always ModifyItem.
type Modification struct {
	Item     string
	Quantity int
}

func (Modification) Intent() Intent { return ModifyItem }
func (Modification) sealed()        {}

func (m Modification) String() string {
	return formatRecord(ModifyItem, "item: "+m.Item, "quantity: "+strconv.Itoa(m.Quantity))
}

// Cancellation asks for the whole order to be dropped. Its intent is always
// CancelRequest.
type Cancellation struct{}

func (Cancellation) Intent() Intent   { return CancelRequest }
func (Cancellation) sealed()          {}
func (c Cancellation) String() string { return formatRecord(CancelRequest) }

// ItemQuery asks about a single menu item.
type ItemQuery struct {
	intent Intent
	Item   string
}

// NewItemQuery creates an ItemQuery for Avail, Price, AskPrice, or
// AskAvailability.
func NewItemQuery(intent Intent, item string) (ItemQuery, error) {
	switch intent {
	case Avail, Price, AskPrice, AskAvailability:
	default:
		return ItemQuery{}, fmt.Errorf("intent %s is not a question about an item", intent)
	}
	return ItemQuery{intent: intent, Item: item}, nil
}

func (q ItemQuery) Intent() Intent { return q.intent }
func (ItemQuery) sealed()          {}

func (q ItemQuery) String() string {
	return formatRecord(q.intent, "item: "+q.Item)
}

// OrderQuery asks about the menu as a whole or about the current order.
type OrderQuery struct {
	intent Intent
}

// NewOrderQuery creates an OrderQuery for Menu, Status, AskMenu, AskMyOrder,
// or AskTotal.
func NewOrderQuery(intent Intent) (OrderQuery, error) {
	switch intent {
	case Menu, Status, AskMenu, AskMyOrder, AskTotal:
	default:
		return OrderQuery{}, fmt.Errorf("intent %s is not a question about the order", intent)
	}
	return OrderQuery{intent: intent}, nil
}

func (q OrderQuery) Intent() Intent { return q.intent }
func (OrderQuery) sealed()          {}
func (q OrderQuery) String() string { return formatRecord(q.intent) }

// Invalid is the record of an utterance that could not be understood. Reason
// holds the error that stopped the analysis and may be nil.
type Invalid struct {
	Reason error
}

func (Invalid) Intent() Intent { return IntentInvalid }
func (Invalid) sealed()        {}

func (inv Invalid) String() string {
	if inv.Reason == nil {
		return formatRecord(IntentInvalid)
	}
	return formatRecord(IntentInvalid, "reason: "+inv.Reason.Error())
}

func formatRecord(intent Intent, slots ...string) string {
	all := append([]string{"intent: " + intent.String()}, slots...)
	return "{" + strings.Join(all, ", ") + "}"
}
