// Package mqerrors holds the error values shared by the MenuQ interpreter
// stages along with an error type that carries a message meant for the person
// typing the utterance.
package mqerrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig is the cause of every error produced while loading or
	// validating catalog and grammar configuration.
	ErrConfig = errors.New("configuration error")

	// ErrTokenize is the cause of errors where input could not be split into
	// known terminals.
	ErrTokenize = errors.New("no terminal matches input")

	// ErrNoParse is the cause of errors where a token sequence has no
	// derivation in the grammar.
	ErrNoParse = errors.New("no parse")

	// ErrUnknownItem is the cause of errors where an utterance names an item
	// that is not on the menu.
	ErrUnknownItem = errors.New("item is not on the menu")

	// ErrUnmappedIntent is the cause of errors where an utterance could be
	// analyzed but did not produce a known intent.
	ErrUnmappedIntent = errors.New("no intent could be determined")
)

// interpreterError is an error caused by attempting to interpret an
// utterance. It includes a human-readable message to show to the customer as
// well as a more technical error message.
type interpreterError struct {
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// HumanMessage is the message that should be shown to the customer to describe
// the error.
func (e *interpreterError) HumanMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Interpreter returns a new error that has both the message to show the
// customer and the technical description of the error.
func Interpreter(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got InterpreterError(%q)", human)
	}
	return &interpreterError{
		msg:   technical,
		human: human,
	}
}

// Interpreterf returns a new error that has a message to show to the customer
// and an automatically generated Error() description.
func Interpreterf(humanFormat string, a ...interface{}) error {
	return Interpreter(fmt.Sprintf(humanFormat, a...), "")
}

// WrapInterpreter returns a new error that has both the message to show the
// customer and the technical description of the error, and that wraps the
// given error.
func WrapInterpreter(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %s", human, e.Error())
	}
	return &interpreterError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// WrapInterpreterf is WrapInterpreter with a formatted human message.
func WrapInterpreterf(e error, humanFormat string, a ...interface{}) error {
	return WrapInterpreter(e, fmt.Sprintf(humanFormat, a...), "")
}

// HumanMessage gets the message to show the customer for the given error. If
// err or anything it wraps was created by this package, its human message is
// returned. Otherwise, err.Error() is returned. A nil error gives "".
func HumanMessage(err error) string {
	if err == nil {
		return ""
	}
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.HumanMessage()
	}
	return err.Error()
}

// ConfigError is returned when a catalog or grammar definition is invalid. It
// collects every problem found rather than stopping at the first one.
type ConfigError struct {
	// Source is the file or component the problems were found in.
	Source string

	// Problems holds one entry per violation.
	Problems []string
}

// Config creates a ConfigError for a single problem.
func Config(source string, problemFormat string, a ...interface{}) *ConfigError {
	return &ConfigError{
		Source:   source,
		Problems: []string{fmt.Sprintf(problemFormat, a...)},
	}
}

func (e *ConfigError) Error() string {
	msg := strings.Join(e.Problems, "; ")
	if e.Source != "" {
		return e.Source + ": " + msg
	}
	return msg
}

// Is returns true when target is ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
