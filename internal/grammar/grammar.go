// Package grammar holds the context-free grammar used to parse ordering
// utterances, along with the builder that generates its lexical rules from a
// menu catalog.
package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/HienLe2004/menuq/internal/lex"
	"github.com/HienLe2004/menuq/internal/util"
)

// Production is one alternative on the right-hand side of a rule.
type Production []string

var (
	// Epsilon is the production of the empty string.
	Epsilon = Production{""}
)

// IsEpsilon returns whether p is the epsilon production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == ""
}

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)
	return p2
}

// Equal returns whether p and other contain the same symbols in the same
// order.
func (p Production) Equal(other Production) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the production with terminals double-quoted and non-terminals
// bare. The epsilon production is rendered as "ε".
func (p Production) String() string {
	if p.IsEpsilon() {
		return "ε"
	}

	var sb strings.Builder
	for i := range p {
		sb.WriteString(formatSymbol(p[i]))
		if i+1 < len(p) {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

func formatSymbol(sym string) string {
	if IsNonTerminalName(sym) {
		return sym
	}
	return strconv.Quote(sym)
}

// IsNonTerminalName returns whether sym has the shape of a non-terminal name:
// an upper-case ASCII letter followed by upper-case letters, digits, or
// underscores. Terminals are always folded to lower case so they never have
// this shape.
func IsNonTerminalName(sym string) bool {
	if sym == "" {
		return false
	}
	for i, ch := range sym {
		switch {
		case 'A' <= ch && ch <= 'Z':
		case i > 0 && (('0' <= ch && ch <= '9') || ch == '_'):
		default:
			return false
		}
	}
	return true
}

// Rule is every production of a single non-terminal, in priority order.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copy duplicate of the given Rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}
	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}
	return r2
}

func (r Rule) String() string {
	var sb strings.Builder

	sb.WriteString(r.NonTerminal)
	sb.WriteString(" ->")

	for i := range r.Productions {
		sb.WriteRune(' ')
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" |")
		}
	}

	return sb.String()
}

// IsLexical returns whether every production of r is a single terminal. A
// rule with no productions is not lexical.
func (r Rule) IsLexical() bool {
	if len(r.Productions) < 1 {
		return false
	}
	for _, p := range r.Productions {
		if len(p) != 1 || p.IsEpsilon() || IsNonTerminalName(p[0]) {
			return false
		}
	}
	return true
}

// Grammar is a context-free grammar. The zero value is an empty grammar ready
// to have rules added to it.
type Grammar struct {
	rulesByName map[string]int

	// main rules store, kept as a slice since definition order is the order
	// alternatives are tried in
	rules     []Rule
	terminals map[string]bool

	// Start is the name of the start symbol. If not set, it is assumed to be
	// S.
	Start string
}

// StartSymbol returns the start symbol of the grammar.
func (g Grammar) StartSymbol() string {
	if g.Start == "" {
		return Start
	}
	return g.Start
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		terminals:   make(map[string]bool, len(g.terminals)),
		Start:       g.Start,
	}

	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}
	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}
	for k := range g.terminals {
		g2.terminals[k] = g.terminals[k]
	}

	return g2
}

// String returns the text form of the grammar, one rule per line in definition
// order. The output can be read back with Parse.
func (g Grammar) String() string {
	var sb strings.Builder
	for i := range g.rules {
		sb.WriteString(g.rules[i].String())
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Rule returns the grammar rule for the given non-terminal. If there is no
// rule defined for it, a Rule with an empty NonTerminal field is returned.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		return Rule{}
	}
	return g.rules[curIdx]
}

// Rules returns every rule in definition order.
func (g Grammar) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	for i := range g.rules {
		out[i] = g.rules[i].Copy()
	}
	return out
}

// NonTerminals returns the names of all non-terminals in definition order.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i := range g.rules {
		names[i] = g.rules[i].NonTerminal
	}
	return names
}

// Terminals returns every registered terminal, longest first and lexically
// among terminals of the same length.
func (g Grammar) Terminals() []string {
	return util.SortBy(util.OrderedKeys(g.terminals), func(l, r string) bool {
		return utf8.RuneCountInString(l) > utf8.RuneCountInString(r)
	})
}

// Lexicon returns the terminals of the grammar ranked for tokenizing.
func (g Grammar) Lexicon() lex.Lexicon {
	return lex.NewLexicon(g.Terminals())
}

// IsTerminal returns whether sym is a registered terminal.
func (g Grammar) IsTerminal(sym string) bool {
	return g.terminals[sym]
}

// IsNonTerminal returns whether sym has a rule in the grammar, even an empty
// one.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

// AddTerm registers a terminal. Terminals are normalized with lex.Normalize
// before being stored, so they match normalized input. It panics if the
// normalized terminal is empty.
func (g *Grammar) AddTerm(terminal string) string {
	folded := lex.Normalize(terminal)
	if folded == "" {
		panic("empty terminal not allowed")
	}

	if g.terminals == nil {
		g.terminals = map[string]bool{}
	}
	g.terminals[folded] = true
	return folded
}

// DeclareRule ensures the given non-terminal has a rule, possibly one with no
// productions. A declared but empty rule derives nothing.
func (g *Grammar) DeclareRule(nonterminal string) {
	if !IsNonTerminalName(nonterminal) {
		panic(fmt.Sprintf("invalid nonterminal name %q; must be upper-case letters, digits, or \"_\"", nonterminal))
	}

	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}
	if _, ok := g.rulesByName[nonterminal]; !ok {
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		g.rulesByName[nonterminal] = len(g.rules) - 1
	}
}

// AddRule adds the given production for a non-terminal. If the non-terminal
// already has productions, the new one is added as an alternative with lower
// priority than all others already added. Duplicate productions are ignored.
//
// All rules require at least one symbol in the production. For an epsilon
// production, give only the empty string.
func (g *Grammar) AddRule(nonterminal string, production []string) {
	if len(production) < 1 {
		panic("for epsilon production give empty string; all rules must have productions")
	}
	if len(production) != 1 {
		for _, sym := range production {
			if sym == "" {
				panic("epsilon production only allowed as sole production of an alternative")
			}
		}
	}

	g.DeclareRule(nonterminal)

	curIdx := g.rulesByName[nonterminal]
	curRule := g.rules[curIdx]
	for _, existing := range curRule.Productions {
		if existing.Equal(production) {
			return
		}
	}
	curRule.Productions = append(curRule.Productions, Production(production).Copy())
	g.rules[curIdx] = curRule
}

// AddLexicalRule registers each word as a terminal and adds it as a
// single-terminal production of the given non-terminal. The non-terminal is
// declared even if words is empty.
func (g *Grammar) AddLexicalRule(nonterminal string, words []string) {
	g.DeclareRule(nonterminal)
	for _, w := range words {
		if lex.Normalize(w) == "" {
			continue
		}
		term := g.AddTerm(w)
		g.AddRule(nonterminal, []string{term})
	}
}

// Nullable returns the set of non-terminals that can derive the empty string.
func (g Grammar) Nullable() map[string]bool {
	nullable := map[string]bool{}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if nullable[r.NonTerminal] {
				continue
			}
			for _, p := range r.Productions {
				if p.IsEpsilon() || allNullable(p, nullable) {
					nullable[r.NonTerminal] = true
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

func allNullable(p Production, nullable map[string]bool) bool {
	for _, sym := range p {
		if !nullable[sym] {
			return false
		}
	}
	return true
}

// Validate returns an error if the grammar is malformed. A grammar is
// malformed if it has no rule for the start symbol, if any production refers
// to a non-terminal that was never declared or a terminal that was never
// registered, if a registered terminal is not produced by any rule, if a
// non-terminal other than the start symbol is never referenced, or if the same
// terminal is produced by the lexical productions of more than one
// non-terminal.
//
// Non-terminals declared with no productions are allowed; they derive nothing.
func (g Grammar) Validate() error {
	if len(g.rules) < 1 {
		return fmt.Errorf("no rules defined in grammar")
	}

	producedNonTerms := map[string]bool{}
	producedTerms := map[string]bool{}
	lexicalOwner := map[string]string{}

	errStr := ""

	for i := range g.rules {
		rule := g.rules[i]
		for _, alt := range rule.Productions {
			if alt.IsEpsilon() {
				continue
			}
			for _, sym := range alt {
				if IsNonTerminalName(sym) {
					if _, ok := g.rulesByName[sym]; !ok {
						errStr += fmt.Sprintf("ERR: no rule declared for nonterminal %q produced by %q\n", sym, rule.NonTerminal)
					}
					producedNonTerms[sym] = true
				} else {
					if !g.terminals[sym] {
						errStr += fmt.Sprintf("ERR: undefined terminal %q produced by %q\n", sym, rule.NonTerminal)
					}
					producedTerms[sym] = true
				}
			}

			if len(alt) == 1 && !IsNonTerminalName(alt[0]) {
				if owner, ok := lexicalOwner[alt[0]]; ok && owner != rule.NonTerminal {
					errStr += fmt.Sprintf("ERR: terminal %q is defined by both %q and %q\n", alt[0], owner, rule.NonTerminal)
				} else {
					lexicalOwner[alt[0]] = rule.NonTerminal
				}
			}
		}
	}

	for _, term := range g.Terminals() {
		if !producedTerms[term] {
			errStr += fmt.Sprintf("ERR: terminal %q is not produced by any rule\n", term)
		}
	}

	for _, r := range g.rules {
		if r.NonTerminal == g.StartSymbol() {
			continue
		}
		if !producedNonTerms[r.NonTerminal] {
			errStr += fmt.Sprintf("ERR: non-terminal %q not produced by any rule\n", r.NonTerminal)
		}
	}

	if _, ok := g.rulesByName[g.StartSymbol()]; !ok {
		errStr += fmt.Sprintf("ERR: no rules defined for productions of start symbol '%s'\n", g.StartSymbol())
	}

	if len(errStr) > 0 {
		return fmt.Errorf("%s", strings.TrimSuffix(errStr, "\n"))
	}

	return nil
}
