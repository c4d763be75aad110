package command

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect Command
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "quit", input: "quit", expect: Command{Verb: Quit}},
		{name: "exit uppercase", input: "EXIT", expect: Command{Verb: Quit}},
		{name: "thoát", input: " Thoát ", expect: Command{Verb: Quit}},
		{name: "bye", input: "bye", expect: Command{Verb: Quit}},
		{name: "help", input: "help", expect: Command{Verb: Help}},
		{name: "question mark", input: "?", expect: Command{Verb: Help}},
		{name: "two word help alias", input: "trợ giúp", expect: Command{Verb: Help}},
		{name: "help with topic", input: "help reset", expect: Command{Verb: Help, Text: "reset"}},
		{name: "reset", input: "làm lại", expect: Command{Verb: Reset}},
		{name: "grammar", input: "Văn Phạm", expect: Command{Verb: Grammar}},
		{name: "utterance", input: "Cho mình 1 cơm tấm", expect: Command{Verb: Say, Text: "Cho mình 1 cơm tấm"}},
		{name: "alias followed by more words is an utterance", input: "làm lại đơn cho tôi", expect: Command{Verb: Say, Text: "làm lại đơn cho tôi"}},
		{name: "menu question", input: "menu có gì?", expect: Command{Verb: Say, Text: "menu có gì?"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ExpandAliases(t *testing.T) {
	testCases := []struct {
		name         string
		tokens       []string
		limit        int
		expect       []string
		expectLength int
	}{
		{name: "no alias", tokens: []string{"phở", "bò"}, limit: 2, expect: []string{"phở", "bò"}},
		{name: "one word", tokens: []string{"bye"}, limit: 2, expect: []string{"QUIT"}, expectLength: 1},
		{name: "two words", tokens: []string{"văn", "phạm"}, limit: 2, expect: []string{"GRAMMAR"}, expectLength: 2},
		{name: "limit too short", tokens: []string{"văn", "phạm"}, limit: 1, expect: []string{"văn", "phạm"}},
		{name: "zero limit", tokens: []string{"help"}, limit: 0, expect: []string{"help"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, n := ExpandAliases(tc.tokens, tc.limit)

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expectLength, n)
		})
	}
}

type lineReader struct {
	lines []string
}

func (lr *lineReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *lineReader) AllowBlank(bool) {}

func (lr *lineReader) Close() error { return nil }

func Test_Get(t *testing.T) {
	assert := assert.New(t)
	var out strings.Builder
	r := &lineReader{lines: []string{"  ", "thêm 1 trà đá"}}

	cmd, err := Get(r, bufio.NewWriter(&out))

	assert.NoError(err)
	assert.Equal(Command{Verb: Say, Text: "thêm 1 trà đá"}, cmd)

	_, err = Get(r, bufio.NewWriter(&out))
	assert.ErrorIs(err, io.EOF)
}
