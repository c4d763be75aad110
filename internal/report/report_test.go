package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Writer_Write(t *testing.T) {
	testCases := []struct {
		name            string
		input           pipeline.Result
		expectStructure string
		expectQueries   string
		expectLogic     string
		expectAnswers   string
	}{
		{
			name: "all stages present",
			input: pipeline.Result{
				Input:       "phở bò giá bao nhiêu",
				Structure:   "(S (QRY (Q_PRICE (NP (FOOD phở bò)) (Q_PRICE_SUFFIX giá bao nhiêu))))",
				Semantics:   "{intent: price, item: phở bò}",
				DBOperation: "SELECT price FROM menu WHERE name = 'phở bò' -- price=45000",
				LogicalForm: "price(phở bò) ⇒ query_price(phở bò)",
				Answer:      "Phở bò giá 45.000 VND.",
			},
			expectStructure: "Câu: phở bò giá bao nhiêu\n→ (S (QRY (Q_PRICE (NP (FOOD phở bò)) (Q_PRICE_SUFFIX giá bao nhiêu))))\n→ {intent: price, item: phở bò}\n\n",
			expectQueries:   "Câu: phở bò giá bao nhiêu\n→ SELECT price FROM menu WHERE name = 'phở bò' -- price=45000\n\n",
			expectLogic:     "Câu: phở bò giá bao nhiêu\n→ price(phở bò) ⇒ query_price(phở bò)\n\n",
			expectAnswers:   "Q: phở bò giá bao nhiêu\nA: Phở bò giá 45.000 VND.\n\n",
		},
		{
			name: "empty stages are marked",
			input: pipeline.Result{
				Input:       "tôi muốn đặt 1 pizza",
				Semantics:   "{intent: invalid}",
				DBOperation: "INVALID QUERY",
			},
			expectStructure: "Câu: tôi muốn đặt 1 pizza\n→ ()\n→ {intent: invalid}\n\n",
			expectQueries:   "Câu: tôi muốn đặt 1 pizza\n→ INVALID QUERY\n\n",
			expectLogic:     "Câu: tôi muốn đặt 1 pizza\n→ ()\n\n",
			expectAnswers:   "Q: tôi muốn đặt 1 pizza\nA: ()\n\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var st, q, l, a strings.Builder
			w := &Writer{Structure: &st, Queries: &q, Logic: &l, Answers: &a}

			err := w.Write(tc.input)

			require.NoError(t, err)
			assert.Equal(tc.expectStructure, st.String())
			assert.Equal(tc.expectQueries, q.String())
			assert.Equal(tc.expectLogic, l.String())
			assert.Equal(tc.expectAnswers, a.String())
		})
	}
}

func Test_Writer_NilStreamsAreSkipped(t *testing.T) {
	assert := assert.New(t)
	var a strings.Builder
	w := &Writer{Answers: &a}

	assert.NoError(w.WriteHeaders())
	assert.NoError(w.Write(pipeline.Result{Input: "menu có gì", Answer: "Menu có: trà đá (5.000đ)."}))

	assert.Equal(headerAnswers+"Q: menu có gì\nA: Menu có: trà đá (5.000đ).\n\n", a.String())
}

func Test_Create(t *testing.T) {
	assert := assert.New(t)
	dir := filepath.Join(t.TempDir(), "output")

	w, err := Create(dir)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeaders())
	require.NoError(t, w.Write(pipeline.Result{Input: "menu có gì"}))
	require.NoError(t, w.Close())

	for _, name := range []string{StructureFile, QueriesFile, LogicFile, AnswersFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if !assert.NoError(err, name) {
			continue
		}
		assert.True(strings.HasPrefix(string(data), "=== "), name)
		assert.Contains(string(data), "menu có gì", name)
	}
}
