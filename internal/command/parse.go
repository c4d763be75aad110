package command

import (
	"strings"

	"github.com/HienLe2004/menuq/internal/lex"
	"github.com/HienLe2004/menuq/internal/mqerrors"
)

var (
	// VerbAliases maps the ways a meta command can be typed to its canonical
	// verb. Keys are case-folded.
	VerbAliases map[string]string = map[string]string{
		"exit":     Quit,
		"quit":     Quit,
		"thoát":    Quit,
		"bye":      Quit,
		"help":     Help,
		"?":        Help,
		"trợ giúp": Help,
		"reset":    Reset,
		"làm lại":  Reset,
		"grammar":  Grammar,
		"văn phạm": Grammar,
	}
)

// aliasWordLimit is the number of words in the longest alias.
const aliasWordLimit = 2

// Parse reads a Command from the given line.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
//
// Meta commands are only recognized when the alias makes up the whole line,
// except that HELP may be followed by a topic. Any other line is an utterance,
// so that a customer typing "làm lại đơn cho tôi" is not taken to mean RESET.
func Parse(line string) (Command, error) {
	text := strings.TrimSpace(line)
	tokens := strings.Fields(lex.Fold(text))
	if len(tokens) < 1 {
		return Command{}, nil
	}

	expanded, aliasLen := ExpandAliases(tokens, aliasWordLimit)
	if aliasLen == 0 {
		return Command{Verb: Say, Text: text}, nil
	}

	verb := expanded[0]
	rest := tokens[aliasLen:]

	switch verb {
	case Help:
		cmd := Command{Verb: Help}
		if len(rest) > 0 {
			cmd.Text = strings.Join(rest, " ")
		}
		return cmd, nil
	case Quit, Reset, Grammar:
		if len(rest) > 0 {
			return Command{Verb: Say, Text: text}, nil
		}
		return Command{Verb: verb}, nil
	default:
		return Command{}, mqerrors.Interpreterf("Không hiểu lệnh %q", text)
	}
}

// ExpandAliases takes a slice of case-folded tokens of user input and replaces
// the longest alias that begins it with its canonical verb. The number of
// tokens the alias consumed is also returned; it is 0 if no alias matched, in
// which case the returned slice holds the same tokens.
//
// The given tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported. Passing 0 or less means
// the given tokens will be returned unchanged.
func ExpandAliases(tokens []string, aliasLimit int) ([]string, int) {
	expandedTokens := append([]string{}, tokens...)
	if aliasLimit < 1 {
		return expandedTokens, 0
	}

	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	for curLimit := aliasLimit; curLimit >= 1; curLimit-- {
		checkStr := strings.Join(tokens[:curLimit], " ")
		expansion, ok := VerbAliases[checkStr]
		if ok {
			expandedTokens = append([]string{expansion}, tokens[curLimit:]...)
			return expandedTokens, curLimit
		}
	}

	return expandedTokens, 0
}
