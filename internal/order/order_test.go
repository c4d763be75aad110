package order

import (
	"errors"
	"testing"

	"github.com/HienLe2004/menuq/internal/logic"
	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/mqerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMenu(t *testing.T) *menu.Menu {
	m, err := menu.New(menu.Catalog{
		Items: []menu.Item{
			{Name: "phở bò", Price: 45000, Options: []string{"tái", "nạm"}},
			{Name: "cơm tấm", Price: 40000},
			{Name: "gà rán", Price: 35000},
			{Name: "trà đá", Price: 5000},
		},
	})
	require.NoError(t, err)
	return m
}

func Test_Cart_Add_MergesQuantity(t *testing.T) {
	assert := assert.New(t)
	c := NewCart()

	c.Add("phở bò", 2, []string{"tái"}, "", 45000)
	ln := c.Add("phở bò", 3, []string{"nạm"}, "12 giờ", 50000)

	assert.Equal(5, ln.Quantity)
	assert.Equal(45000, ln.Price, "price must stay what it was when first added")
	assert.Equal([]string{"tái", "nạm"}, ln.Attributes)
	assert.Equal("12 giờ", ln.Time)
	assert.Equal(1, c.Len())
}

func Test_Cart_Add_EmptyTimeKeepsOld(t *testing.T) {
	assert := assert.New(t)
	c := NewCart()

	c.Add("phở bò", 1, nil, "12 giờ", 45000)
	ln := c.Add("phở bò", 1, nil, "", 45000)

	assert.Equal("12 giờ", ln.Time)
}

func Test_Cart_SetQuantity(t *testing.T) {
	testCases := []struct {
		name        string
		quantity    int
		expectFound bool
		expectLines int
	}{
		{name: "overwrite", quantity: 3, expectFound: true, expectLines: 2},
		{name: "zero removes", quantity: 0, expectFound: true, expectLines: 1},
		{name: "negative removes", quantity: -2, expectFound: true, expectLines: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			c := NewCart()
			c.Add("phở bò", 2, nil, "", 45000)
			c.Add("trà đá", 1, nil, "", 5000)

			found := c.SetQuantity("phở bò", tc.quantity)

			assert.Equal(tc.expectFound, found)
			assert.Len(c.Lines(), tc.expectLines)
			if tc.quantity > 0 {
				ln, ok := c.Get("phở bò")
				assert.True(ok)
				assert.Equal(tc.quantity, ln.Quantity)
			} else {
				_, ok := c.Get("phở bò")
				assert.False(ok)
			}
		})
	}
}

func Test_Cart_SetQuantity_Absent(t *testing.T) {
	assert := assert.New(t)
	c := NewCart()

	assert.False(c.SetQuantity("phở bò", 3))
	assert.Equal(0, c.Len())
}

func Test_Cart_SetTime_UsesLastReferenced(t *testing.T) {
	assert := assert.New(t)
	var c Cart

	c.Add("phở bò", 1, nil, "", 45000)
	c.Add("trà đá", 1, nil, "", 5000)
	item, ok := c.SetTime("7 giờ tối")

	assert.True(ok)
	assert.Equal("trà đá", item)
	ln, _ := c.Get("trà đá")
	assert.Equal("7 giờ tối", ln.Time)

	c.Remove("trà đá")
	_, ok = c.SetTime("8 giờ")
	assert.False(ok)
}

func Test_Cart_LinesKeepInsertionOrder(t *testing.T) {
	assert := assert.New(t)
	c := NewCart()

	c.Add("trà đá", 1, nil, "", 5000)
	c.Add("phở bò", 1, nil, "", 45000)
	c.Add("cơm tấm", 2, nil, "", 40000)
	c.Add("trà đá", 1, nil, "", 5000)
	c.Remove("phở bò")

	var items []string
	for _, ln := range c.Lines() {
		items = append(items, ln.Item)
	}

	assert.Equal([]string{"trà đá", "cơm tấm"}, items)
	assert.Equal(90000, c.Total())
	assert.Equal(map[string]int{"trà đá": 2, "cơm tấm": 2}, c.Quantities())
}

func Test_Cart_LinesAreCopies(t *testing.T) {
	assert := assert.New(t)
	c := NewCart()
	c.Add("phở bò", 1, []string{"tái"}, "", 45000)

	lines := c.Lines()
	lines[0].Attributes[0] = "chín"
	lines[0].Quantity = 99

	ln, _ := c.Get("phở bò")
	assert.Equal([]string{"tái"}, ln.Attributes)
	assert.Equal(1, ln.Quantity)
}

func Test_Executor_Execute(t *testing.T) {
	testCases := []struct {
		name    string
		setup   func(c *Cart)
		calls   []logic.Call
		expect  []string
		expectQ map[string]int
	}{
		{
			name:    "add known item",
			calls:   []logic.Call{{Proc: logic.AddToCart, Item: "cơm tấm", Quantity: 1}},
			expect:  []string{"Đã thêm 1 x cơm tấm (40.000đ) vào đơn hàng."},
			expectQ: map[string]int{"cơm tấm": 1},
		},
		{
			name:    "add unknown item with no close match",
			calls:   []logic.Call{{Proc: logic.AddToCart, Item: "pizza", Quantity: 1}},
			expect:  []string{"Xin lỗi, quán không có món pizza."},
			expectQ: map[string]int{},
		},
		{
			name:    "add unknown item with suggestion",
			calls:   []logic.Call{{Proc: logic.AddToCart, Item: "phở bà", Quantity: 1}},
			expect:  []string{"Xin lỗi, quán không có món phở bà. Có phải bạn muốn phở bò?"},
			expectQ: map[string]int{},
		},
		{
			name:  "failed add does not move delivery time onto earlier item",
			setup: func(c *Cart) { c.Add("trà đá", 1, nil, "", 5000) },
			calls: []logic.Call{
				{Proc: logic.AddToCart, Item: "pizza", Quantity: 1},
				{Proc: logic.SetDeliveryTime, Item: "pizza", Time: "lúc 7 giờ"},
			},
			expect: []string{
				"Xin lỗi, quán không có món pizza.",
				AnswerNoItemForTime,
			},
			expectQ: map[string]int{"trà đá": 1},
		},
		{
			name: "add with delivery time",
			calls: []logic.Call{
				{Proc: logic.AddToCart, Item: "phở bò", Quantity: 2, Attributes: []string{"tái"}},
				{Proc: logic.SetDeliveryTime, Item: "phở bò", Time: "lúc 7 giờ tối"},
			},
			expect: []string{
				"Đã thêm 2 x phở bò (45.000đ) vào đơn hàng.",
				"Sẽ giao phở bò lúc 7 giờ tối.",
			},
			expectQ: map[string]int{"phở bò": 2},
		},
		{
			name:    "remove present item",
			setup:   func(c *Cart) { c.Add("gà rán", 1, nil, "", 35000) },
			calls:   []logic.Call{{Proc: logic.RemoveFromCart, Item: "gà rán"}},
			expect:  []string{"Đã xóa gà rán khỏi đơn hàng."},
			expectQ: map[string]int{},
		},
		{
			name:    "remove absent item",
			calls:   []logic.Call{{Proc: logic.RemoveFromCart, Item: "gà rán"}},
			expect:  []string{"Không có gà rán trong đơn hàng để xóa."},
			expectQ: map[string]int{},
		},
		{
			name:    "set quantity overwrites",
			setup:   func(c *Cart) { c.Add("phở bò", 1, nil, "", 45000) },
			calls:   []logic.Call{{Proc: logic.SetItemQuantity, Item: "phở bò", Quantity: 3}},
			expect:  []string{"Đã cập nhật phở bò thành 3 phần."},
			expectQ: map[string]int{"phở bò": 3},
		},
		{
			name:    "set quantity of absent item adds it",
			calls:   []logic.Call{{Proc: logic.SetItemQuantity, Item: "phở bò", Quantity: 3}},
			expect:  []string{"Đã thêm 3 x phở bò (45.000đ) vào đơn hàng."},
			expectQ: map[string]int{"phở bò": 3},
		},
		{
			name:    "set quantity to zero removes",
			setup:   func(c *Cart) { c.Add("phở bò", 1, nil, "", 45000) },
			calls:   []logic.Call{{Proc: logic.SetItemQuantity, Item: "phở bò", Quantity: 0}},
			expect:  []string{"Đã xóa phở bò khỏi đơn hàng."},
			expectQ: map[string]int{},
		},
		{
			name:    "clear",
			setup:   func(c *Cart) { c.Add("phở bò", 1, nil, "", 45000) },
			calls:   []logic.Call{{Proc: logic.ClearCart}},
			expect:  []string{AnswerCleared},
			expectQ: map[string]int{},
		},
		{
			name:    "price",
			calls:   []logic.Call{{Proc: logic.QueryPrice, Item: "phở bò"}},
			expect:  []string{"Phở bò giá 45.000 VND."},
			expectQ: map[string]int{},
		},
		{
			name:    "price of unknown item",
			calls:   []logic.Call{{Proc: logic.QueryPrice, Item: "pizza"}},
			expect:  []string{"Không có món pizza trong menu."},
			expectQ: map[string]int{},
		},
		{
			name: "availability",
			calls: []logic.Call{
				{Proc: logic.QueryAvailability, Item: "trà đá"},
				{Proc: logic.QueryAvailability, Item: "pizza"},
			},
			expect:  []string{"Có món trà đá.", "Không có món pizza."},
			expectQ: map[string]int{},
		},
		{
			name:    "menu",
			calls:   []logic.Call{{Proc: logic.ListMenu}},
			expect:  []string{"Menu có: phở bò (45.000đ), cơm tấm (40.000đ), gà rán (35.000đ), trà đá (5.000đ)."},
			expectQ: map[string]int{},
		},
		{
			name:    "empty cart listing and total",
			calls:   []logic.Call{{Proc: logic.ShowCart}, {Proc: logic.ComputeTotal}},
			expect:  []string{AnswerEmptyCart, AnswerEmptyCart},
			expectQ: map[string]int{},
		},
		{
			name: "cart listing",
			setup: func(c *Cart) {
				c.Add("phở bò", 2, []string{"tái"}, "lúc 12 giờ", 45000)
				c.Add("trà đá", 3, nil, "7 giờ tối", 5000)
			},
			calls: []logic.Call{{Proc: logic.ShowCart}, {Proc: logic.ComputeTotal}},
			expect: []string{
				"Đơn hàng của bạn:\n" +
					"• 2 phở bò (tái) – Giao lúc 12 giờ → 90.000đ\n" +
					"• 3 trà đá – Giao lúc 7 giờ tối → 15.000đ\n" +
					"\n" +
					"Tổng tiền: 105.000 VND\n" +
					"Thời gian giao hàng: 12 giờ và 7 giờ tối",
				"Tổng tiền: 105.000 VND.",
			},
			expectQ: map[string]int{"phở bò": 2, "trà đá": 3},
		},
		{
			name: "reject with human message",
			calls: []logic.Call{{
				Proc:   logic.Reject,
				Reason: mqerrors.WrapInterpreter(mqerrors.ErrNoParse, "Câu không hợp lệ với văn phạm.", ""),
			}},
			expect:  []string{"Câu không hợp lệ với văn phạm."},
			expectQ: map[string]int{},
		},
		{
			name:    "reject without reason",
			calls:   []logic.Call{{Proc: logic.Reject}},
			expect:  []string{AnswerNotUnderstood},
			expectQ: map[string]int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			c := NewCart()
			if tc.setup != nil {
				tc.setup(c)
			}
			ex := Executor{Menu: testMenu(t), Cart: c}

			actual := ex.Execute(tc.calls)

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expectQ, c.Quantities())
		})
	}
}

func Test_Executor_QueriesAreIdempotent(t *testing.T) {
	assert := assert.New(t)
	c := NewCart()
	c.Add("phở bò", 2, nil, "", 45000)
	ex := Executor{Menu: testMenu(t), Cart: c}

	calls := []logic.Call{
		{Proc: logic.ListMenu},
		{Proc: logic.QueryPrice, Item: "phở bò"},
		{Proc: logic.ShowCart},
		{Proc: logic.ComputeTotal},
	}

	first := ex.Execute(calls)
	second := ex.Execute(calls)

	assert.Equal(first, second)
	assert.Equal(map[string]int{"phở bò": 2}, c.Quantities())
}

func Test_Executor_RejectPlainError(t *testing.T) {
	assert := assert.New(t)
	ex := Executor{Menu: testMenu(t), Cart: NewCart()}

	actual := ex.Execute([]logic.Call{{Proc: logic.Reject, Reason: errors.New("boom")}})

	assert.Equal([]string{"boom"}, actual)
}
