// Package command defines the lines a customer can enter at the interpreter
// prompt and handles reading them from input sources.
package command

// Verbs of the meta commands. A line that is not a meta command is an
// utterance to be interpreted, and has verb Say.
const (
	Say     = "SAY"
	Quit    = "QUIT"
	Help    = "HELP"
	Reset   = "RESET"
	Grammar = "GRAMMAR"
)

// Command is a line received from an input source.
type Command struct {

	// Verb is the canonical name of the command, such as "QUIT" or "HELP".
	// Meta commands may be typed with any of their aliases, for instance
	// "thoát" or "bye" instead of "QUIT", and all of them result in a Command
	// with the canonical verb. Utterances have the verb Say.
	Verb string

	// Text is the utterance for Say commands and the optional topic for HELP.
	// It keeps the case and spacing it was typed with, minus surrounding
	// whitespace.
	Text string
}

// IsMeta returns whether the command controls the interpreter itself rather
// than being an utterance for it.
func (c Command) IsMeta() bool {
	return c.Verb != Say && c.Verb != ""
}
