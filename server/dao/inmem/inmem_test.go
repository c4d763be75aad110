package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/HienLe2004/menuq/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Sessions_CreateUsesGivenID(t *testing.T) {
	assert := assert.New(t)
	repo := NewSessionsRepository()
	ctx := context.Background()
	id := uuid.New()

	created, err := repo.Create(ctx, dao.Session{ID: id, Strategy: "pattern"})
	require.NoError(t, err)

	assert.Equal(id, created.ID)
	assert.Equal("pattern", created.Strategy)
	assert.False(created.Created.IsZero())

	_, err = repo.Create(ctx, dao.Session{ID: id})
	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

func Test_Sessions_UpdateAndDelete(t *testing.T) {
	assert := assert.New(t)
	repo := NewSessionsRepository()
	ctx := context.Background()

	s, err := repo.Create(ctx, dao.Session{Strategy: "grammar"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, s.ID)

	later := s.LastActive.Add(time.Hour)
	s.LastActive = later
	updated, err := repo.Update(ctx, s.ID, s)
	require.NoError(t, err)
	assert.Equal(later, updated.LastActive)

	_, err = repo.Delete(ctx, s.ID)
	assert.NoError(err)

	_, err = repo.GetByID(ctx, s.ID)
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Update(ctx, s.ID, s)
	assert.ErrorIs(err, dao.ErrNotFound)
}

func Test_Utterances_TranscriptOrder(t *testing.T) {
	assert := assert.New(t)
	repo := NewUtterancesRepository()
	ctx := context.Background()
	sess := uuid.New()
	other := uuid.New()

	inputs := []string{"cho thêm 2 ly trà đá", "tôi đã đặt những món gì", "hủy hết đơn hàng"}
	for _, in := range inputs {
		_, err := repo.Create(ctx, dao.Utterance{SessionID: sess, Input: in})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, dao.Utterance{SessionID: other, Input: "menu có gì"})
	require.NoError(t, err)

	all, err := repo.GetAllBySession(ctx, sess)
	require.NoError(t, err)

	var got []string
	for _, u := range all {
		got = append(got, u.Input)
	}
	assert.Equal(inputs, got)

	removed, err := repo.DeleteAllBySession(ctx, sess)
	require.NoError(t, err)
	assert.Len(removed, 3)

	all, err = repo.GetAllBySession(ctx, sess)
	require.NoError(t, err)
	assert.Empty(all)

	all, err = repo.GetAllBySession(ctx, other)
	require.NoError(t, err)
	assert.Len(all, 1)
}

func Test_Utterances_CartIsCopied(t *testing.T) {
	assert := assert.New(t)
	repo := NewUtterancesRepository()
	ctx := context.Background()

	cart := []dao.CartLine{{Item: "phở bò", Quantity: 2, Attributes: []string{"tái"}, Price: 45000}}
	u, err := repo.Create(ctx, dao.Utterance{SessionID: uuid.New(), Cart: cart})
	require.NoError(t, err)

	cart[0].Quantity = 9
	cart[0].Attributes[0] = "nạm"

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(2, got.Cart[0].Quantity)
	assert.Equal([]string{"tái"}, got.Cart[0].Attributes)
}
