package semantic

import (
	"strconv"

	"github.com/HienLe2004/menuq/internal/grammar"
	"github.com/HienLe2004/menuq/internal/parse"
)

// fragment is the partial reading of a subtree. Verb phrases fill in the
// intent; noun phrases fill in the item slots.
type fragment struct {
	intent     Intent
	item       string
	quantity   int
	attributes []string
	time       string
}

// Extract reads the semantic record out of a parse tree of the ordering
// grammar. It returns nil if the tree holds no recognizable intent.
//
// Nodes are visited by category. S, CMD, and QRY defer to their first child.
// Verb phrases take the first noun phrase child for the item slots and the
// first TIME_CLAUSE child, if any, for the time. Any other non-terminal yields
// the reading of its first child that has one.
func Extract(tree *parse.Tree) Record {
	frag := visit(tree)
	if frag == nil {
		return nil
	}
	return frag.record()
}

func visit(t *parse.Tree) *fragment {
	if t == nil || t.Terminal {
		return nil
	}

	switch t.Value {
	case grammar.Start, grammar.Command, grammar.Query:
		if len(t.Children) == 0 {
			return nil
		}
		return visit(t.Children[0])
	case grammar.VPOrder:
		return visitVerbPhrase(t, Order, grammar.NPQuantified)
	case grammar.VPAdd:
		return visitVerbPhrase(t, Add, grammar.NPQuantified)
	case grammar.VPRemove:
		return visitVerbPhrase(t, Remove, grammar.NP)
	case grammar.QAvail:
		return visitItemQuery(t, Avail)
	case grammar.QPrice:
		return visitItemQuery(t, Price)
	case grammar.QMenu:
		return &fragment{intent: Menu}
	case grammar.QStatus:
		return &fragment{intent: Status}
	case grammar.NP, grammar.NPQuantified:
		return visitNounPhrase(t)
	}

	for _, c := range t.Children {
		if frag := visit(c); frag != nil {
			return frag
		}
	}
	return nil
}

func visitVerbPhrase(t *parse.Tree, intent Intent, npLabel string) *fragment {
	frag := visit(t.Child(npLabel))
	if frag == nil {
		frag = &fragment{}
	}
	frag.intent = intent

	if tc := t.Child(grammar.TimeClause); tc != nil {
		frag.time = tc.Text()
	}
	return frag
}

func visitItemQuery(t *parse.Tree, intent Intent) *fragment {
	frag := &fragment{intent: intent}
	if np := visit(t.Child(grammar.NP)); np != nil {
		frag.item = np.item
	}
	return frag
}

func visitNounPhrase(t *parse.Tree) *fragment {
	frag := &fragment{}

	if food := t.Child(grammar.Food); food != nil {
		frag.item = food.Text()
	}
	if qty := t.Child(grammar.Quantity); qty != nil {
		n, err := strconv.Atoi(qty.Text())
		if err != nil || n < 1 {
			n = 1
		}
		frag.quantity = n
	}
	if attr := t.Child(grammar.Attribute); attr != nil {
		frag.attributes = []string{attr.Text()}
	}

	return frag
}

// record converts the fragment into a Record. Fragments with no intent, such
// as a bare noun phrase, give nil.
func (f *fragment) record() Record {
	qty := f.quantity
	if qty == 0 {
		qty = 1
	}

	var rec Record
	var err error
	switch f.intent {
	case Order, Add:
		rec, err = NewPlacement(f.intent, f.item, qty, f.attributes, f.time)
	case Remove:
		rec, err = NewRemoval(f.intent, f.item)
	case Avail, Price:
		rec, err = NewItemQuery(f.intent, f.item)
	case Menu, Status:
		rec, err = NewOrderQuery(f.intent)
	default:
		return nil
	}
	if err != nil {
		// every intent above is accepted by its constructor
		panic(err.Error())
	}
	return rec
}
