// Package menu holds the restaurant catalog: the items that can be ordered
// along with their prices and options, plus the unit and number words that the
// grammar uses for quantities.
package menu

import (
	"fmt"
	"unicode/utf8"

	"github.com/HienLe2004/menuq/internal/lex"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/agnivade/levenshtein"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Item is a single orderable entry on the menu. Price is in VND.
type Item struct {
	Name    string
	Price   int
	Options []string
}

// Catalog is the raw catalog record before validation.
type Catalog struct {
	Items   []Item
	Units   []string
	Numbers []string
}

// Menu is a validated, immutable catalog. It is safe for concurrent use.
type Menu struct {
	items   []Item
	byName  map[string]int
	options []string
	units   []string
	numbers []string
}

// New validates the given catalog and creates a Menu from it. Names, options,
// units, and numbers are stored in the form lex.Normalize gives input. Every
// item must have a non-empty name and a non-negative price and no two items
// may share a name.
// All violations are reported together in a *mqerrors.ConfigError.
func New(c Catalog) (*Menu, error) {
	m := &Menu{
		byName: map[string]int{},
	}

	var problems []string

	seenOpts := map[string]bool{}
	for i, it := range c.Items {
		name := lex.Normalize(it.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("item[%d]: name is empty", i))
			continue
		}
		if it.Price < 0 {
			problems = append(problems, fmt.Sprintf("item[%d] %q: price is negative: %d", i, name, it.Price))
			continue
		}
		if prev, ok := m.byName[name]; ok {
			problems = append(problems, fmt.Sprintf("item[%d] %q: duplicate of item[%d]", i, name, prev))
			continue
		}

		stored := Item{Name: name, Price: it.Price}
		for _, opt := range it.Options {
			opt = lex.Normalize(opt)
			if opt == "" {
				continue
			}
			stored.Options = append(stored.Options, opt)
			if !seenOpts[opt] {
				seenOpts[opt] = true
				m.options = append(m.options, opt)
			}
		}

		m.byName[name] = len(m.items)
		m.items = append(m.items, stored)
	}

	m.units = foldAll(c.Units)
	m.numbers = foldAll(c.Numbers)

	if len(problems) > 0 {
		return nil, &mqerrors.ConfigError{Source: "catalog", Problems: problems}
	}

	return m, nil
}

func foldAll(words []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range words {
		w = lex.Normalize(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Lookup returns the item with the given name. The name is normalized before
// it is compared, so case and Unicode composition do not matter.
func (m *Menu) Lookup(name string) (Item, bool) {
	idx, ok := m.byName[lex.Normalize(name)]
	if !ok {
		return Item{}, false
	}
	return m.items[idx], true
}

// Price returns the price of the named item.
func (m *Menu) Price(name string) (int, bool) {
	it, ok := m.Lookup(name)
	return it.Price, ok
}

// Items returns every item in the order they were defined.
func (m *Menu) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Names returns the names of every item in the order they were defined.
func (m *Menu) Names() []string {
	out := make([]string, len(m.items))
	for i := range m.items {
		out[i] = m.items[i].Name
	}
	return out
}

// Options returns the union of all item options in first-seen order.
func (m *Menu) Options() []string {
	out := make([]string, len(m.options))
	copy(out, m.options)
	return out
}

// Units returns the unit words, such as "phần" or "tô".
func (m *Menu) Units() []string {
	out := make([]string, len(m.units))
	copy(out, m.units)
	return out
}

// Numbers returns the number words usable as quantities and clock hours.
func (m *Menu) Numbers() []string {
	out := make([]string, len(m.numbers))
	copy(out, m.numbers)
	return out
}

// Closest returns the name of the menu item nearest to the given name by edit
// distance, provided the distance is small enough relative to the length of
// name to count as a likely typo. The second return value is false if no item
// is close enough.
func (m *Menu) Closest(name string) (string, bool) {
	name = lex.Normalize(name)
	if name == "" {
		return "", false
	}

	limit := distanceLimit(utf8.RuneCountInString(name))
	best := ""
	bestDist := limit + 1
	for _, it := range m.items {
		d := levenshtein.ComputeDistance(name, it.Name)
		if d < bestDist {
			best = it.Name
			bestDist = d
		}
	}

	if best == "" || bestDist == 0 {
		return "", false
	}
	return best, true
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// FormatPrice renders an amount of VND with Vietnamese digit grouping, for
// example 45000 becomes "45.000".
func FormatPrice(amount int) string {
	return message.NewPrinter(language.Vietnamese).Sprintf("%d", amount)
}
