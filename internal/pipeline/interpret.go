// Package pipeline runs utterances through the full chain of interpreter
// stages: reading the utterance into a semantic record, mapping the record to
// its database operation and logical form, and executing the result against a
// cart.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HienLe2004/menuq/internal/grammar"
	"github.com/HienLe2004/menuq/internal/lex"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/HienLe2004/menuq/internal/parse"
	"github.com/HienLe2004/menuq/internal/pattern"
	"github.com/HienLe2004/menuq/internal/semantic"
)

// Human-readable answers given when an utterance cannot be read.
const (
	MsgNoParse        = "Câu không hợp lệ với văn phạm."
	MsgTooComplex     = "Câu quá phức tạp, vui lòng nói ngắn gọn hơn."
	MsgNotUnderstood  = "Xin lỗi, tôi không hiểu yêu cầu của bạn."
	msgTokenizeFormat = "Câu lệnh không hợp lệ: \"%s\" không có trong menu hoặc từ vựng."
)

// Analysis is the result of reading one utterance.
type Analysis struct {
	// Structure is the syntactic structure found, rendered for reports. It is
	// empty if none was found.
	Structure string

	// Record is the semantic reading. It is never nil; an utterance that could
	// not be read gives a semantic.Invalid.
	Record semantic.Record

	// Err is the reason the utterance could not be read, if it could not be.
	Err error
}

func failed(structure string, err error) Analysis {
	return Analysis{
		Structure: structure,
		Record:    semantic.Invalid{Reason: err},
		Err:       err,
	}
}

// Interpreter reads utterances into semantic records.
type Interpreter interface {
	// Name returns the name of the strategy, as accepted by ParseStrategy.
	Name() string

	// Interpret reads text. It does not return an error; failure is reported
	// in the returned Analysis.
	Interpret(text string) Analysis
}

// Strategy selects an Interpreter implementation.
type Strategy int

const (
	// Grammar reads utterances by parsing them with the ordering grammar. This
	// is the default.
	Grammar Strategy = iota

	// Pattern reads utterances by matching regular expressions.
	Pattern
)

func (s Strategy) String() string {
	switch s {
	case Grammar:
		return "grammar"
	case Pattern:
		return "pattern"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the Strategy with the given name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grammar", "":
		return Grammar, nil
	case "pattern":
		return Pattern, nil
	default:
		return Grammar, fmt.Errorf("unknown strategy %q; must be one of 'grammar' or 'pattern'", s)
	}
}

// NewInterpreter creates the Interpreter for the given strategy. g is only
// used by the Grammar strategy and maxSteps is its parse budget; see
// parse.Parser.MaxSteps.
func NewInterpreter(strategy Strategy, m *menu.Menu, g grammar.Grammar, maxSteps int) (Interpreter, error) {
	switch strategy {
	case Grammar:
		return NewGrammarBased(g, maxSteps)
	case Pattern:
		return NewPatternBased(m), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %v", strategy)
	}
}

// GrammarBased reads utterances by tokenizing them against the terminals of a
// grammar, taking the first parse tree, and extracting its semantics.
type GrammarBased struct {
	lexicon lex.Lexicon
	parser  *parse.Parser
}

// NewGrammarBased creates a GrammarBased interpreter for g.
func NewGrammarBased(g grammar.Grammar, maxSteps int) (*GrammarBased, error) {
	p, err := parse.New(g)
	if err != nil {
		return nil, err
	}
	p.MaxSteps = maxSteps

	return &GrammarBased{lexicon: g.Lexicon(), parser: p}, nil
}

// Name returns "grammar".
func (gb *GrammarBased) Name() string {
	return Grammar.String()
}

// Interpret reads text with the grammar.
func (gb *GrammarBased) Interpret(text string) Analysis {
	toks, err := gb.lexicon.Tokenize(text)
	if err != nil {
		word := ""
		var tokErr *lex.TokenizeError
		if errors.As(err, &tokErr) {
			if fields := strings.Fields(tokErr.Remainder); len(fields) > 0 {
				word = fields[0]
			}
		}
		return failed("", mqerrors.WrapInterpreterf(err, msgTokenizeFormat, word))
	}

	forest, err := gb.parser.Parse(toks)
	if err != nil {
		return failed("", parseFailure(err))
	}
	tree, err := forest.First()
	if err != nil {
		return failed("", parseFailure(err))
	}

	rec := semantic.Extract(tree)
	if rec == nil {
		err := fmt.Errorf("parse tree has no intent: %w", mqerrors.ErrUnmappedIntent)
		return failed(tree.String(), mqerrors.WrapInterpreter(err, MsgNotUnderstood, ""))
	}

	return Analysis{Structure: tree.String(), Record: rec}
}

// parseFailure gives the error for a parse that produced no tree. Running out
// of budget counts as no parse.
func parseFailure(err error) error {
	if errors.Is(err, parse.ErrBudgetExceeded) {
		err = fmt.Errorf("%w: %w", mqerrors.ErrNoParse, err)
		return mqerrors.WrapInterpreter(err, MsgTooComplex, "")
	}
	return mqerrors.WrapInterpreter(err, MsgNoParse, "")
}

// PatternBased reads utterances with a pattern.Matcher.
type PatternBased struct {
	matcher *pattern.Matcher
}

// NewPatternBased creates a PatternBased interpreter that resolves items
// against m.
func NewPatternBased(m *menu.Menu) *PatternBased {
	return &PatternBased{matcher: pattern.NewMatcher(m)}
}

// Name returns "pattern".
func (pb *PatternBased) Name() string {
	return Pattern.String()
}

// Interpret reads text with sentence patterns.
func (pb *PatternBased) Interpret(text string) Analysis {
	rels, err := pb.matcher.Parse(text)
	if err != nil {
		return failed("", mqerrors.WrapInterpreter(err, MsgNotUnderstood, ""))
	}

	rec := pattern.ToRecord(rels)
	if inv, ok := rec.(semantic.Invalid); ok {
		return failed(rels.String(), mqerrors.WrapInterpreter(inv.Reason, MsgNotUnderstood, ""))
	}

	return Analysis{Structure: rels.String(), Record: rec}
}
