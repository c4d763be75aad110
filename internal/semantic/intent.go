// Package semantic turns parse trees into typed semantic records. A record
// carries an intent, such as placing an order or asking a price, plus only
// the slots that make sense for that intent.
package semantic

import (
	"fmt"
	"strings"
)

// Intent is what an utterance asks the system to do. The grammar-based and the
// pattern-based pipelines use distinct names for similar intents; both sets
// are kept so that output from each pipeline stays recognizable.
type Intent int

const (
	IntentInvalid Intent = iota

	// intents produced by the pattern matcher
	AddItem
	CancelItem
	CancelRequest
	ModifyItem
	AskMenu
	AskPrice
	AskAvailability
	AskMyOrder
	AskTotal

	// intents produced from parse trees
	Order
	Add
	Remove
	Avail
	Price
	Menu
	Status
)

var intentNames = []string{
	IntentInvalid:   "invalid",
	AddItem:         "add_item",
	CancelItem:      "cancel_item",
	CancelRequest:   "cancel_request",
	ModifyItem:      "modify_item",
	AskMenu:         "ask_menu",
	AskPrice:        "ask_price",
	AskAvailability: "ask_availability",
	AskMyOrder:      "ask_my_order",
	AskTotal:        "ask_total",
	Order:           "order",
	Add:             "add",
	Remove:          "remove",
	Avail:           "avail",
	Price:           "price",
	Menu:            "menu",
	Status:          "status",
}

// Intents returns every valid intent, in declaration order. IntentInvalid is
// not included.
func Intents() []Intent {
	all := make([]Intent, 0, len(intentNames)-1)
	for i := AddItem; int(i) < len(intentNames); i++ {
		all = append(all, i)
	}
	return all
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

// ParseIntent returns the intent with the given name. Names are matched
// case-insensitively.
func ParseIntent(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range intentNames {
		if name == s {
			return Intent(i), nil
		}
	}
	return IntentInvalid, fmt.Errorf("not a valid intent: %q", s)
}
