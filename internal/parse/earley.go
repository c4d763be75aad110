// Package parse builds parse trees for token sequences using an Earley chart
// parser. It handles any context-free grammar, including ambiguous ones and
// ones with epsilon productions, and enumerates the derivations of an input
// lazily.
package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HienLe2004/menuq/internal/grammar"
	"github.com/HienLe2004/menuq/internal/mqerrors"
)

// DefaultMaxSteps is the search budget used when a Parser's MaxSteps is not
// set.
const DefaultMaxSteps = 200000

var (
	// ErrBudgetExceeded is returned when parsing or tree enumeration takes
	// more steps than the parser allows.
	ErrBudgetExceeded = errors.New("parse step budget exceeded")

	// ErrConsumed is returned when a Forest is enumerated a second time.
	ErrConsumed = errors.New("forest has already been enumerated")
)

// Parser parses token sequences against a fixed grammar. It does not hold any
// per-parse state and is safe for concurrent use.
type Parser struct {
	rules    []grammar.Rule
	ruleIdx  map[string]int
	startIdx int
	nullable map[string]bool

	// MaxSteps bounds the number of chart and enumeration steps spent on a
	// single input. Zero means DefaultMaxSteps; a negative value means no
	// limit.
	MaxSteps int
}

// New creates a Parser for the given grammar. The grammar is validated first
// and an error is returned if it is malformed.
func New(g grammar.Grammar) (*Parser, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grammar: %w", err)
	}

	p := &Parser{
		rules:    g.Rules(),
		ruleIdx:  map[string]int{},
		nullable: g.Nullable(),
	}
	for i := range p.rules {
		p.ruleIdx[p.rules[i].NonTerminal] = i
	}
	p.startIdx = p.ruleIdx[g.StartSymbol()]

	return p, nil
}

func (p *Parser) budget() int {
	if p.MaxSteps == 0 {
		return DefaultMaxSteps
	}
	return p.MaxSteps
}

// item is an Earley item: production prod of rule with the dot before symbol
// dot, begun at chart position origin.
type item struct {
	rule   int
	prod   int
	dot    int
	origin int
}

type itemSet struct {
	items []item
	seen  map[item]bool
}

func newItemSet() *itemSet {
	return &itemSet{seen: map[item]bool{}}
}

func (s *itemSet) add(it item) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// span identifies a completed production: rule's production prod derives
// tokens[start:end].
type span struct {
	rule  int
	prod  int
	start int
	end   int
}

// Parse runs the recognizer over tokens and returns a Forest from which the
// derivations can be enumerated. ErrBudgetExceeded is returned if recognition
// alone uses up the step budget. An input with no derivation is not an error
// here; the returned Forest is simply empty.
func (p *Parser) Parse(tokens []string) (*Forest, error) {
	n := len(tokens)
	max := p.budget()

	f := &Forest{
		tokens:    append([]string{}, tokens...),
		rules:     p.rules,
		ruleIdx:   p.ruleIdx,
		startIdx:  p.startIdx,
		completed: map[span]bool{},
		derivable: map[[3]int]bool{},
		max:       max,
	}

	chart := make([]*itemSet, n+1)
	for i := range chart {
		chart[i] = newItemSet()
	}
	for q := range p.rules[p.startIdx].Productions {
		chart[0].add(item{rule: p.startIdx, prod: q})
	}

	for i := 0; i <= n; i++ {
		set := chart[i]
		for j := 0; j < len(set.items); j++ {
			f.steps++
			if max > 0 && f.steps > max {
				return nil, ErrBudgetExceeded
			}

			it := set.items[j]
			prod := p.rules[it.rule].Productions[it.prod]

			if prod.IsEpsilon() || it.dot == len(prod) {
				// complete
				f.completed[span{it.rule, it.prod, it.origin, i}] = true
				f.derivable[[3]int{it.rule, it.origin, i}] = true

				name := p.rules[it.rule].NonTerminal
				origin := chart[it.origin]
				for k := 0; k < len(origin.items); k++ {
					waiting := origin.items[k]
					wProd := p.rules[waiting.rule].Productions[waiting.prod]
					if !wProd.IsEpsilon() && waiting.dot < len(wProd) && wProd[waiting.dot] == name {
						waiting.dot++
						set.add(waiting)
					}
				}
				continue
			}

			sym := prod[it.dot]
			if r, ok := p.ruleIdx[sym]; ok {
				// predict
				for q := range p.rules[r].Productions {
					set.add(item{rule: r, prod: q, origin: i})
				}
				if p.nullable[sym] {
					advanced := it
					advanced.dot++
					set.add(advanced)
				}
			} else if i < n && tokens[i] == sym {
				// scan
				advanced := it
				advanced.dot++
				chart[i+1].add(advanced)
			}
		}
	}

	f.accepted = f.derivable[[3]int{p.startIdx, 0, n}]
	return f, nil
}

// Forest holds the result of recognizing one input and enumerates its parse
// trees on demand. A Forest can be enumerated only once. It is not safe for
// concurrent use.
type Forest struct {
	tokens    []string
	rules     []grammar.Rule
	ruleIdx   map[string]int
	startIdx  int
	completed map[span]bool
	derivable map[[3]int]bool
	accepted  bool

	steps    int
	max      int
	consumed bool
}

// Accepted returns whether the input has at least one derivation.
func (f *Forest) Accepted() bool {
	return f.accepted
}

// Each calls yield with each parse tree of the input in turn, stopping early
// if yield returns false. Trees are produced in a fixed order: alternatives
// are tried in grammar order and, for each symbol, shorter spans before longer
// ones. Derivations that would revisit a symbol over the same span while it is
// still being expanded are skipped, so the sequence is always finite.
//
// Trees passed to yield may share subtrees with each other; Copy one before
// modifying it.
//
// Each returns ErrConsumed if it has been called before on f, and
// ErrBudgetExceeded if the step budget runs out before enumeration finishes.
func (f *Forest) Each(yield func(*Tree) bool) error {
	if f.consumed {
		return ErrConsumed
	}
	f.consumed = true

	if !f.accepted {
		return nil
	}

	e := &enumerator{f: f, active: map[[3]int]bool{}}
	e.derive(f.startIdx, 0, len(f.tokens), yield)
	return e.err
}

// First returns the first parse tree that Each would produce. If the input has
// no derivation, the returned error wraps mqerrors.ErrNoParse.
func (f *Forest) First() (*Tree, error) {
	var first *Tree
	err := f.Each(func(t *Tree) bool {
		first = t
		return false
	})
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("no derivation of %q: %w", strings.Join(f.tokens, " "), mqerrors.ErrNoParse)
	}
	return first, nil
}

// Collect returns up to limit parse trees. A limit less than 1 means all of
// them.
func (f *Forest) Collect(limit int) ([]*Tree, error) {
	var trees []*Tree
	err := f.Each(func(t *Tree) bool {
		trees = append(trees, t)
		return limit < 1 || len(trees) < limit
	})
	return trees, err
}

type enumerator struct {
	f      *Forest
	active map[[3]int]bool
	err    error
}

func (e *enumerator) tick() bool {
	e.f.steps++
	if e.f.max > 0 && e.f.steps > e.f.max {
		e.err = ErrBudgetExceeded
		return false
	}
	return true
}

// derive yields every tree for rule r spanning tokens[i:j]. It returns false
// once enumeration must stop.
func (e *enumerator) derive(r, i, j int, yield func(*Tree) bool) bool {
	key := [3]int{r, i, j}
	if e.active[key] {
		return true
	}
	e.active[key] = true
	defer delete(e.active, key)

	rule := e.f.rules[r]
	for q, prod := range rule.Productions {
		if !e.f.completed[span{r, q, i, j}] {
			continue
		}
		if !e.tick() {
			return false
		}

		if prod.IsEpsilon() {
			if !yield(Node(rule.NonTerminal, Leaf(""))) {
				return false
			}
			continue
		}

		cont := e.sequence(prod, 0, i, j, nil, func(children []*Tree) bool {
			kids := make([]*Tree, len(children))
			copy(kids, children)
			return yield(Node(rule.NonTerminal, kids...))
		})
		if !cont {
			return false
		}
	}

	return true
}

// sequence yields every way of deriving tokens[pos:end] from prod[k:].
func (e *enumerator) sequence(prod grammar.Production, k, pos, end int, acc []*Tree, yield func([]*Tree) bool) bool {
	if k == len(prod) {
		if pos == end {
			return yield(acc)
		}
		return true
	}
	if !e.tick() {
		return false
	}

	sym := prod[k]
	r, isNonTerm := e.f.ruleIdx[sym]
	if !isNonTerm {
		if pos < end && e.f.tokens[pos] == sym {
			return e.sequence(prod, k+1, pos+1, end, appendTree(acc, Leaf(sym)), yield)
		}
		return true
	}

	for mid := pos; mid <= end; mid++ {
		if !e.f.derivable[[3]int{r, pos, mid}] {
			continue
		}
		cont := e.derive(r, pos, mid, func(t *Tree) bool {
			return e.sequence(prod, k+1, mid, end, appendTree(acc, t), yield)
		})
		if !cont {
			return false
		}
	}
	return true
}

// appendTree appends without aliasing the backing array of acc, since acc is
// shared between sibling branches of the search.
func appendTree(acc []*Tree, t *Tree) []*Tree {
	out := make([]*Tree, len(acc)+1)
	copy(out, acc)
	out[len(acc)] = t
	return out
}
