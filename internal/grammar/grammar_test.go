package grammar

import (
	"testing"

	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		extraTerm string
		expectErr bool
	}{
		{
			name: "single rule",
			text: `S -> "a"`,
		},
		{
			name: "epsilon and nesting",
			text: `S -> A "b"
A -> "a" | ε`,
		},
		{
			name: "declared empty rule",
			text: `S -> A | "b"
A ->`,
		},
		{
			name:      "undefined nonterminal",
			text:      `S -> A "b"`,
			expectErr: true,
		},
		{
			name: "no start symbol",
			text: `A -> "a"
B -> A`,
			expectErr: true,
		},
		{
			name: "unreferenced nonterminal",
			text: `S -> "a"
A -> "b"`,
			expectErr: true,
		},
		{
			name:      "unused terminal",
			text:      `S -> "a"`,
			extraTerm: "z",
			expectErr: true,
		},
		{
			name: "terminal owned by two lexical rules",
			text: `S -> A | B
A -> "x" | "y"
B -> "x"`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := Parse(tc.text)
			require.NoError(t, err)
			if tc.extraTerm != "" {
				g.AddTerm(tc.extraTerm)
			}

			actual := g.Validate()

			if tc.expectErr {
				assert.Error(actual)
			} else {
				assert.NoError(actual)
			}
		})
	}
}

func Test_ParseRule(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Rule
		expectErr bool
	}{
		{
			name:  "nonterminals",
			input: "S -> CMD | QRY",
			expect: Rule{NonTerminal: "S", Productions: []Production{
				{"CMD"}, {"QRY"},
			}},
		},
		{
			name:  "multi-word terminals",
			input: `POLITE_PREFIX -> "tôi muốn" | "làm ơn cho tôi"`,
			expect: Rule{NonTerminal: "POLITE_PREFIX", Productions: []Production{
				{"tôi muốn"}, {"làm ơn cho tôi"},
			}},
		},
		{
			name:  "mixed with epsilon",
			input: `OPT -> "vào đơn" X | ε`,
			expect: Rule{NonTerminal: "OPT", Productions: []Production{
				{"vào đơn", "X"}, Epsilon,
			}},
		},
		{
			name:   "declaration only",
			input:  "FOOD ->",
			expect: Rule{NonTerminal: "FOOD"},
		},
		{
			name:      "unquoted terminal",
			input:     "S -> món",
			expectErr: true,
		},
		{
			name:      "no arrow",
			input:     "S CMD",
			expectErr: true,
		},
		{
			name:      "empty alternative",
			input:     `S -> "a" | | "b"`,
			expectErr: true,
		},
		{
			name:      "unterminated quote",
			input:     `S -> "a`,
			expectErr: true,
		},
		{
			name:      "lower-case nonterminal",
			input:     `s -> "a"`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseRule(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			} else if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Grammar_String_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(structuralRules)
	g.AddLexicalRule(Food, []string{"phở bò"})
	g.AddLexicalRule(Number, []string{"1"})
	g.AddLexicalRule(Unit, nil)
	g.AddLexicalRule(Attribute, []string{"tái"})

	text := g.String()
	reparsed, err := Parse(text)

	if assert.NoError(err) {
		assert.Equal(text, reparsed.String())
		assert.Equal(g.Terminals(), reparsed.Terminals())
	}
	assert.Contains(text, `V_ADD_ACTION -> "thêm" | "cho thêm" | "thêm vào"`)
	assert.Contains(text, `OPT_POLITE -> POLITE_PREFIX | ε`)
	assert.Contains(text, "UNIT ->\n")
}

func Test_Grammar_Nullable(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(`S -> A B | "x"
A -> "a" | ε
B -> A A
C -> "c"`)

	actual := g.Nullable()

	assert.Equal(map[string]bool{"A": true, "B": true, "S": true}, actual)
}

func Test_Build(t *testing.T) {
	m, err := menu.New(menu.Catalog{
		Items: []menu.Item{
			{Name: "phở bò", Price: 45000, Options: []string{"tái", "nạm"}},
			{Name: "cơm tấm", Price: 40000, Options: []string{"sườn"}},
		},
		Units:   []string{"phần", "tô"},
		Numbers: []string{"1", "2", "12"},
	})
	require.NoError(t, err)

	assert := assert.New(t)

	g, err := Build(m)
	require.NoError(t, err)

	assert.Equal(Start, g.StartSymbol())
	assert.Len(g.Rule(Food).Productions, 2)
	assert.Len(g.Rule(Attribute).Productions, 3)
	assert.True(g.IsTerminal("phở bò"))
	assert.True(g.IsTerminal("làm ơn cho tôi"))
	assert.True(g.IsNonTerminal(Query))

	again, err := Build(m)
	require.NoError(t, err)
	assert.Equal(g.String(), again.String(), "build must be deterministic")
}

func Test_Build_EmptyCatalog(t *testing.T) {
	assert := assert.New(t)

	m, err := menu.New(menu.Catalog{})
	require.NoError(t, err)

	g, err := Build(m)

	assert.NoError(err)
	assert.Len(g.Rule(Food).Productions, 0)
	assert.Equal(Food, g.Rule(Food).NonTerminal)
}

func Test_Build_CollidingCatalogWords(t *testing.T) {
	assert := assert.New(t)

	// "phần" is both a unit and an option
	m, err := menu.New(menu.Catalog{
		Items:   []menu.Item{{Name: "phở bò", Price: 45000, Options: []string{"phần"}}},
		Units:   []string{"phần"},
		Numbers: []string{"1"},
	})
	require.NoError(t, err)

	_, err = Build(m)

	assert.ErrorIs(err, mqerrors.ErrConfig)
}
