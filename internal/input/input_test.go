package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectCommandReader_ReadCommand(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		allowBlank  bool
		expect      []string
		expectFinal error
	}{
		{
			name:        "skips blank lines",
			input:       "menu có gì\n\n   \nthêm 1 trà đá\n",
			expect:      []string{"menu có gì", "thêm 1 trà đá"},
			expectFinal: io.EOF,
		},
		{
			name:        "blank lines allowed",
			input:       "menu có gì\n\nbye\n",
			allowBlank:  true,
			expect:      []string{"menu có gì", "", "bye"},
			expectFinal: io.EOF,
		},
		{
			name:        "last line without newline",
			input:       "  phở bò giá bao nhiêu  ",
			expect:      []string{"phở bò giá bao nhiêu"},
			expectFinal: io.EOF,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			r := NewDirectReader(strings.NewReader(tc.input))
			r.AllowBlank(tc.allowBlank)

			var actual []string
			for range tc.expect {
				line, err := r.ReadCommand()
				if !assert.NoError(err) {
					return
				}
				actual = append(actual, line)
			}
			_, err := r.ReadCommand()

			assert.Equal(tc.expect, actual)
			assert.ErrorIs(err, tc.expectFinal)
			assert.NoError(r.Close())
		})
	}
}
