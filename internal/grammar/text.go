package grammar

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads a grammar from its text form: one rule per line in the form
//
//	NONTERM -> SYMBOL SYMBOL | SYMBOL | ε
//
// where non-terminals are bare upper-case names and terminals are
// double-quoted strings. Lines that are blank or start with "#" are skipped. A
// rule with nothing after the arrow declares a non-terminal with no
// productions. Every quoted terminal is registered with the grammar.
func Parse(text string) (Grammar, error) {
	var g Grammar

	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r, err := ParseRule(line)
		if err != nil {
			return Grammar{}, fmt.Errorf("line %d: %w", lineNo, err)
		}

		g.DeclareRule(r.NonTerminal)
		for _, p := range r.Productions {
			if !p.IsEpsilon() {
				for i, sym := range p {
					if !IsNonTerminalName(sym) {
						p[i] = g.AddTerm(sym)
					}
				}
			}
			g.AddRule(r.NonTerminal, p)
		}
	}
	if err := sc.Err(); err != nil {
		return Grammar{}, err
	}

	return g, nil
}

// MustParse is Parse but it panics if there is an error.
func MustParse(text string) Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// ParseRule parses a single rule in the text form accepted by Parse.
func ParseRule(r string) (Rule, error) {
	sides := strings.SplitN(r, "->", 2)
	if len(sides) != 2 {
		return Rule{}, fmt.Errorf("not a rule of form 'NONTERM -> SYMBOL SYMBOL | SYMBOL ...': %q", r)
	}

	nonTerminal := strings.TrimSpace(sides[0])
	if !IsNonTerminalName(nonTerminal) {
		return Rule{}, fmt.Errorf("invalid nonterminal name %q; must be upper-case letters, digits, or \"_\"", nonTerminal)
	}

	parsed := Rule{NonTerminal: nonTerminal}

	symbols, err := scanSymbols(sides[1])
	if err != nil {
		return Rule{}, fmt.Errorf("rule for %s: %w", nonTerminal, err)
	}
	if len(symbols) == 0 {
		return parsed, nil
	}

	cur := Production{}
	flush := func() error {
		if len(cur) == 0 {
			return fmt.Errorf("rule for %s: empty alternative", nonTerminal)
		}
		for _, sym := range cur {
			if sym == "" && len(cur) > 1 {
				return fmt.Errorf("rule for %s: epsilon must be the only symbol of an alternative", nonTerminal)
			}
		}
		parsed.Productions = append(parsed.Productions, cur)
		cur = Production{}
		return nil
	}

	for _, sym := range symbols {
		if sym.bar {
			if err := flush(); err != nil {
				return Rule{}, err
			}
			continue
		}
		cur = append(cur, sym.value)
	}
	if err := flush(); err != nil {
		return Rule{}, err
	}

	return parsed, nil
}

type scannedSymbol struct {
	value string
	bar   bool
}

// scanSymbols splits the right-hand side of a rule into symbols. Quoted
// terminals are unquoted; "ε" becomes the empty string.
func scanSymbols(rhs string) ([]scannedSymbol, error) {
	var out []scannedSymbol

	runes := []rune(rhs)
	for i := 0; i < len(runes); {
		ch := runes[i]
		switch {
		case unicode.IsSpace(ch):
			i++
		case ch == '|':
			out = append(out, scannedSymbol{bar: true})
			i++
		case ch == '"':
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				if runes[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("unterminated terminal starting at %q", string(runes[i:]))
			}
			lit, err := strconv.Unquote(string(runes[i : end+1]))
			if err != nil {
				return nil, fmt.Errorf("bad terminal %s: %w", string(runes[i:end+1]), err)
			}
			if lit == "" {
				return nil, fmt.Errorf("empty terminal not allowed; use ε for epsilon")
			}
			out = append(out, scannedSymbol{value: lit})
			i = end + 1
		default:
			end := i
			for end < len(runes) && !unicode.IsSpace(runes[end]) && runes[end] != '|' && runes[end] != '"' {
				end++
			}
			word := string(runes[i:end])
			if word == "ε" {
				out = append(out, scannedSymbol{value: ""})
			} else if IsNonTerminalName(word) {
				out = append(out, scannedSymbol{value: word})
			} else {
				return nil, fmt.Errorf("cannot tell if symbol is a terminal or non-terminal: %q (quote terminals)", word)
			}
			i = end
		}
	}

	return out, nil
}
