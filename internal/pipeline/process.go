package pipeline

import (
	"strings"

	"github.com/HienLe2004/menuq/internal/logic"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/internal/semantic"
)

// Result is the output of every stage for one utterance.
type Result struct {
	Input       string   `json:"input"`
	Strategy    string   `json:"strategy"`
	Structure   string   `json:"structure"`
	Semantics   string   `json:"semantics"`
	DBOperation string   `json:"db_operation"`
	LogicalForm string   `json:"logical_form"`
	Answers     []string `json:"answers"`

	// Answer is every entry of Answers joined into one reply.
	Answer string `json:"answer"`

	Record semantic.Record `json:"-"`
	Err    error           `json:"-"`
}

// Processor runs utterances through every stage against a given cart.
type Processor struct {
	Menu        *menu.Menu
	Interpreter Interpreter
}

// Process reads text, maps the reading, and executes it against cart. It never
// fails; an utterance that cannot be understood gives an invalid reading and
// an answer saying so, and leaves cart unchanged. Callers serving more than
// one customer must not share a cart between them, and must not call Process
// concurrently with the same cart.
func (p Processor) Process(cart *order.Cart, text string) Result {
	text = strings.TrimSpace(text)

	an := p.Interpreter.Interpret(text)

	res := p.Apply(cart, text, an.Record)
	res.Structure = an.Structure
	if an.Err != nil {
		res.Err = an.Err
	}
	return res
}

// Apply runs an already-read record through the remaining stages against
// cart. input is recorded as the utterance the record came from.
func (p Processor) Apply(cart *order.Cart, input string, rec semantic.Record) Result {
	lf := logic.ToLogicalForm(rec)
	ex := order.Executor{Menu: p.Menu, Cart: cart}
	answers := ex.Execute(lf.Calls)

	var err error
	if item, ok := namedItem(rec); ok && item != "" {
		if _, onMenu := p.Menu.Lookup(item); !onMenu {
			err = mqerrors.WrapInterpreterf(mqerrors.ErrUnknownItem, "%s", answers[0])
		}
	}

	return Result{
		Input:       input,
		Strategy:    p.Interpreter.Name(),
		Semantics:   rec.String(),
		DBOperation: logic.ToDatabaseOperation(rec, p.Menu),
		LogicalForm: lf.String(),
		Answers:     answers,
		Answer:      strings.Join(answers, " "),
		Record:      rec,
		Err:         err,
	}
}

// namedItem returns the menu item rec must name. Removals are not included.
func namedItem(rec semantic.Record) (string, bool) {
	switch r := rec.(type) {
	case semantic.Placement:
		return r.Item, true
	case semantic.Modification:
		return r.Item, true
	case semantic.ItemQuery:
		return r.Item, true
	default:
		return "", false
	}
}
