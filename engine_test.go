package menuq

import (
	"strings"
	"testing"

	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, in string, strategy pipeline.Strategy) (*Engine, *strings.Builder) {
	out := &strings.Builder{}
	eng, err := New(strings.NewReader(in), out, Options{
		CatalogPath: "data/menu.toml",
		Strategy:    strategy,
		ForceDirect: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng, out
}

func Test_Engine_RunUntilQuit(t *testing.T) {
	testCases := []struct {
		name         string
		strategy     pipeline.Strategy
		input        string
		expectOutput []string
		notExpect    []string
	}{
		{
			name:     "order then show cart",
			strategy: pipeline.Grammar,
			input:    "tôi muốn đặt 2 phở bò\ntôi đã đặt những món gì\nthoát\nmenu có gì\n",
			expectOutput: []string{
				"Đã thêm 2 x phở bò (45.000đ) vào đơn hàng.",
				"• 2 phở bò → 90.000đ",
				"Tổng tiền: 90.000 VND",
				"Tạm biệt!",
			},
			notExpect: []string{"Menu có:"},
		},
		{
			name:     "reset empties the cart",
			strategy: pipeline.Pattern,
			input:    "cho mình 1 cơm tấm\nlàm lại\ntổng tiền\n",
			expectOutput: []string{
				"Đã thêm 1 x cơm tấm (40.000đ) vào đơn hàng.",
				"Đã hủy toàn bộ đơn hàng.",
				"Bạn chưa đặt món nào.",
				"Tạm biệt!",
			},
		},
		{
			name:         "help",
			strategy:     pipeline.Grammar,
			input:        "help\n",
			expectOutput: []string{"Các lệnh có thể dùng:", "RESET", "GRAMMAR"},
		},
		{
			name:         "grammar",
			strategy:     pipeline.Grammar,
			input:        "văn phạm\n",
			expectOutput: []string{"S -> CMD | QRY", "FOOD -> ", `"bánh mì"`},
		},
		{
			name:         "invalid utterance does not stop the loop",
			strategy:     pipeline.Grammar,
			input:        "tôi muốn đặt 1 pizza\nphở bò giá bao nhiêu\n",
			expectOutput: []string{`"pizza"`, "Phở bò giá 45.000 VND."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			eng, out := newTestEngine(t, tc.input, tc.strategy)

			err := eng.RunUntilQuit()

			assert.NoError(err)
			for _, s := range tc.expectOutput {
				assert.Contains(out.String(), s)
			}
			for _, s := range tc.notExpect {
				assert.NotContains(out.String(), s)
			}
		})
	}
}

func Test_Engine_RunBatch(t *testing.T) {
	assert := assert.New(t)
	eng, _ := newTestEngine(t, "", pipeline.Grammar)
	var st, q, l, a strings.Builder
	rep := &report.Writer{Structure: &st, Queries: &q, Logic: &l, Answers: &a}
	batch := "thêm 1 cơm tấm sườn vào đơn\n\ntôi muốn đặt 1 pizza\ntôi đã đặt những món gì\n"

	n, err := eng.RunBatch(strings.NewReader(batch), rep)

	require.NoError(t, err)
	assert.Equal(3, n)
	assert.Contains(st.String(), "Câu: thêm 1 cơm tấm sườn vào đơn\n→ (S (CMD (VP_ADD")
	assert.Contains(st.String(), "Câu: tôi muốn đặt 1 pizza\n→ ()\n")
	assert.Contains(q.String(), "→ INSERT/UPDATE order: cơm tấm × 1 @ 40000")
	assert.Contains(q.String(), "→ INVALID QUERY")
	assert.Contains(l.String(), "→ add(cơm tấm, 1, [sườn], \"\") ⇒ add_to_cart(cơm tấm, 1, [sườn])")
	assert.Contains(a.String(), "Q: tôi đã đặt những món gì\nA: Đơn hàng của bạn:\n• 1 cơm tấm (sườn) → 40.000đ")
}
