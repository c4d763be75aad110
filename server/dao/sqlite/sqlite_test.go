package sqlite

import (
	"context"
	"testing"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_cartSnapshot(t *testing.T) {
	testCases := []struct {
		name  string
		input cartSnapshot
	}{
		{
			name:  "empty cart",
			input: cartSnapshot{},
		},
		{
			name: "lines with and without attributes",
			input: cartSnapshot{
				{Item: "phở bò", Quantity: 2, Attributes: []string{"tái", "nhiều hành"}, Time: "12 giờ trưa", Price: 45000},
				{Item: "trà đá", Quantity: 3, Price: 5000},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := rezi.EncBinary(tc.input)

			var actual cartSnapshot
			n, err := rezi.DecBinary(data, &actual)

			require.NoError(t, err)
			assert.Equal(t, len(data), n)
			assert.Equal(t, tc.input, actual)
		})
	}
}

func Test_cartSnapshot_RejectsImpossibleCounts(t *testing.T) {
	line := append(rezi.EncString("trà đá"), rezi.EncInt(1)...)

	testCases := []struct {
		name  string
		input []byte
	}{
		{name: "negative line count", input: rezi.EncInt(-1)},
		{name: "line count larger than data", input: rezi.EncInt(1 << 30)},
		{name: "attribute count larger than data", input: append(append(rezi.EncInt(1), line...), rezi.EncInt(1<<30)...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var actual cartSnapshot

			err := actual.UnmarshalBinary(tc.input)

			assert.Error(t, err)
			assert.Nil(t, actual)
		})
	}
}

func Test_Store_SessionsAndTranscripts(t *testing.T) {
	assert := assert.New(t)
	st := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	s, err := st.Sessions().Create(ctx, dao.Session{ID: id, Strategy: "grammar"})
	require.NoError(t, err)
	assert.Equal(id, s.ID)

	_, err = st.Sessions().Create(ctx, dao.Session{ID: id, Strategy: "grammar"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	cart := []dao.CartLine{{Item: "bún chả", Quantity: 1, Time: "7 giờ tối", Price: 40000}}
	first, err := st.Utterances().Create(ctx, dao.Utterance{
		SessionID:   id,
		Input:       "tôi muốn đặt 1 bún chả giao lúc 7 giờ tối",
		Semantics:   "{intent: add_item}",
		LogicalForm: "add(bún chả, 1)",
		Answer:      "Đã thêm 1 x bún chả (40.000đ) vào đơn hàng.",
		Cart:        cart,
	})
	require.NoError(t, err)
	_, err = st.Utterances().Create(ctx, dao.Utterance{SessionID: id, Input: "tôi đã đặt những món gì", Cart: cart})
	require.NoError(t, err)

	got, err := st.Utterances().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(cart, got.Cart)
	assert.Equal("add(bún chả, 1)", got.LogicalForm)

	all, err := st.Utterances().GetAllBySession(ctx, id)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(first.ID, all[0].ID)

	_, err = st.Sessions().Delete(ctx, id)
	require.NoError(t, err)

	// transcript rows go with the session
	all, err = st.Utterances().GetAllBySession(ctx, id)
	require.NoError(t, err)
	assert.Empty(all)
}

func Test_Store_GetMissingSession(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Sessions().GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, dao.ErrNotFound)
}
