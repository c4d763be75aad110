package mqs

import (
	"context"
	"testing"

	"github.com/HienLe2004/menuq/internal/menu"
	"github.com/HienLe2004/menuq/internal/order"
	"github.com/HienLe2004/menuq/internal/pipeline"
	"github.com/HienLe2004/menuq/server/dao"
	"github.com/HienLe2004/menuq/server/dao/inmem"
	"github.com/HienLe2004/menuq/server/dao/sqlite"
	"github.com/HienLe2004/menuq/server/serr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, db dao.Store) *Service {
	m, err := menu.Load("../../data/menu.toml")
	require.NoError(t, err)

	svc, err := New(db, m, pipeline.Grammar, 0)
	require.NoError(t, err)
	return svc
}

func quantities(o Order) map[string]int {
	q := map[string]int{}
	for _, ln := range o.Lines {
		q[ln.Item] = ln.Quantity
	}
	return q
}

func Test_Service_ProcessRecordsTranscript(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newService(t, inmem.NewDatastore())

	s, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.Equal("grammar", s.Strategy)

	res, err := svc.Process(ctx, s.ID, "cho thêm 2 ly trà đá")
	require.NoError(t, err)
	assert.Equal("Đã thêm 2 x trà đá (5.000đ) vào đơn hàng.", res.Answer)

	o, err := svc.GetOrder(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(map[string]int{"trà đá": 2}, quantities(o))
	assert.Equal(10000, o.Total)

	transcript, err := svc.Transcript(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	assert.Equal("cho thêm 2 ly trà đá", transcript[0].Input)
	assert.Equal(res.LogicalForm, transcript[0].LogicalForm)
	assert.Equal([]dao.CartLine{{Item: "trà đá", Quantity: 2, Price: 5000}}, transcript[0].Cart)
}

func Test_Service_SessionsAreIsolated(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newService(t, inmem.NewDatastore())

	s1, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	s2, err := svc.CreateSession(ctx, "pattern")
	require.NoError(t, err)

	_, err = svc.Process(ctx, s1.ID, "cho thêm 2 ly trà đá")
	require.NoError(t, err)
	_, err = svc.Process(ctx, s2.ID, "cho mình 1 cơm tấm")
	require.NoError(t, err)

	o1, err := svc.GetOrder(ctx, s1.ID)
	require.NoError(t, err)
	o2, err := svc.GetOrder(ctx, s2.ID)
	require.NoError(t, err)

	assert.Equal(map[string]int{"trà đá": 2}, quantities(o1))
	assert.Equal(map[string]int{"cơm tấm": 1}, quantities(o2))
	assert.Equal(2, svc.LiveSessions())
}

func Test_Service_CartIsNotKeptAcrossRestart(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	db, err := sqlite.NewDatastore(dir)
	require.NoError(t, err)
	before := newService(t, db)
	s, err := before.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = before.Process(ctx, s.ID, "Tôi muốn đặt 2 tô phở bò tái giao lúc 12 giờ trưa")
	require.NoError(t, err)
	_, err = before.Process(ctx, s.ID, "cho thêm 2 ly trà đá")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.NewDatastore(dir)
	require.NoError(t, err)
	defer db.Close()
	after := newService(t, db)
	require.Equal(t, 0, after.LiveSessions())

	o, err := after.GetOrder(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(o.Lines)
	assert.Equal(0, o.Total)
	assert.Equal(1, after.LiveSessions())

	// the session carries on from an empty cart and its history is kept
	res, err := after.Process(ctx, s.ID, "cho thêm 2 ly trà đá")
	require.NoError(t, err)
	assert.Equal("Đã thêm 2 x trà đá (5.000đ) vào đơn hàng.", res.Answer)

	o, err = after.GetOrder(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(map[string]int{"trà đá": 2}, quantities(o))

	transcript, err := after.Transcript(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Equal([]dao.CartLine{{Item: "trà đá", Quantity: 2, Price: 5000}}, transcript[2].Cart)
}

func Test_Service_ClearOrder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newService(t, inmem.NewDatastore())
	s, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Process(ctx, s.ID, "cho thêm 2 ly trà đá")
	require.NoError(t, err)

	res, err := svc.ClearOrder(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(order.AnswerCleared, res.Answer)
	o, err := svc.GetOrder(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(o.Lines)

	transcript, err := svc.Transcript(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(resetInput, transcript[1].Input)
	assert.Empty(transcript[1].Cart)
}

func Test_Service_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, inmem.NewDatastore())

	testCases := []struct {
		name   string
		call   func() error
		expect error
	}{
		{
			name: "unknown strategy",
			call: func() error {
				_, err := svc.CreateSession(ctx, "regex")
				return err
			},
			expect: serr.ErrBadArgument,
		},
		{
			name: "process in unknown session",
			call: func() error {
				_, err := svc.Process(ctx, uuid.New(), "menu có gì")
				return err
			},
			expect: serr.ErrNotFound,
		},
		{
			name: "order of unknown session",
			call: func() error {
				_, err := svc.GetOrder(ctx, uuid.New())
				return err
			},
			expect: serr.ErrNotFound,
		},
		{
			name: "delete unknown session",
			call: func() error {
				_, err := svc.DeleteSession(ctx, uuid.New())
				return err
			},
			expect: serr.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), tc.expect)
		})
	}
}

func Test_Service_DeleteSession(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newService(t, inmem.NewDatastore())
	s, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, err = svc.Process(ctx, s.ID, "cho thêm 2 ly trà đá")
	require.NoError(t, err)

	_, err = svc.DeleteSession(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(0, svc.LiveSessions())
	_, err = svc.Transcript(ctx, s.ID)
	assert.ErrorIs(err, serr.ErrNotFound)
	left, err := svc.DB.Utterances().GetAllBySession(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(left)
}
