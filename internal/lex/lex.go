// Package lex normalizes Vietnamese utterances and splits them into the
// multi-word terminals of a grammar.
package lex

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/HienLe2004/menuq/internal/mqerrors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in canonical form: NFC composed, lower-cased with Vietnamese
// casing rules, with all runs of whitespace collapsed to a single space and no
// leading or trailing whitespace.
func Fold(s string) string {
	s = norm.NFC.String(s)

	// a Caser holds state; do not share it across calls
	s = cases.Lower(language.Vietnamese).String(s)

	return strings.Join(strings.Fields(s), " ")
}

// sentencePunct is the punctuation Normalize removes. Other punctuation, such
// as the hyphen in "coca-cola", can be part of a catalog name and is kept.
const sentencePunct = ".,!?:;"

// Normalize returns the folded form of s with sentence punctuation removed.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(sentencePunct, r) {
			return -1
		}
		return r
	}, s)
	return Fold(s)
}

// TokenizeError is returned by Tokenize when some part of the input does not
// begin with any known terminal.
type TokenizeError struct {
	// Offset is the byte offset into the normalized input where matching
	// failed.
	Offset int

	// Remainder is the unmatched rest of the normalized input.
	Remainder string
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("no terminal matches input at offset %d: %q", e.Offset, e.Remainder)
}

// Unwrap returns mqerrors.ErrTokenize.
func (e *TokenizeError) Unwrap() error {
	return mqerrors.ErrTokenize
}

// Lexicon is a set of terminals ranked for greedy matching. The zero value
// matches nothing; use NewLexicon to create one.
type Lexicon struct {
	terms []string
}

// NewLexicon creates a Lexicon from the given terminals. Terminals are
// normalized and de-duplicated, then ranked by length in runes, longest first, with ties
// broken lexically so that the ranking is the same on every run.
func NewLexicon(terminals []string) Lexicon {
	seen := map[string]bool{}
	var terms []string
	for _, t := range terminals {
		t = Normalize(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, t)
	}

	sort.Slice(terms, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(terms[i]), utf8.RuneCountInString(terms[j])
		if li != lj {
			return li > lj
		}
		return terms[i] < terms[j]
	})

	return Lexicon{terms: terms}
}

// Terms returns the ranked terminals of the Lexicon.
func (lx Lexicon) Terms() []string {
	out := make([]string, len(lx.terms))
	copy(out, lx.terms)
	return out
}

// Tokenize normalizes text and splits it into terminals by repeatedly taking
// the highest-ranked terminal that prefixes the unconsumed input. Whitespace
// following a match is consumed. The entire input must be consumed; if at any
// point no terminal matches, a *TokenizeError is returned.
//
// Matching is by rank only and does not consult the grammar, so a shorter
// terminal is never chosen when a longer one also matches.
func (lx Lexicon) Tokenize(text string) ([]string, error) {
	s := Normalize(text)
	tokens := []string{}

	pos := 0
	for pos < len(s) {
		rest := s[pos:]

		matched := ""
		for _, t := range lx.terms {
			if strings.HasPrefix(rest, t) {
				matched = t
				break
			}
		}
		if matched == "" {
			return nil, &TokenizeError{Offset: pos, Remainder: rest}
		}

		tokens = append(tokens, matched)
		pos += len(matched)
		for pos < len(s) && s[pos] == ' ' {
			pos++
		}
	}

	return tokens, nil
}
