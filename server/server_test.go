package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HienLe2004/menuq/server/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *MenuQServer {
	srv, err := New(Config{
		CatalogPath:       "../data/menu.toml",
		UnauthDelayMillis: -1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func do(t *testing.T, h http.Handler, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, api.PathPrefix+path, strings.NewReader(string(data)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, api.PathPrefix+path, nil)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[E any](t *testing.T, rec *httptest.ResponseRecorder) E {
	var v E
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler, body interface{}) api.SessionModel {
	rec := do(t, h, http.MethodPost, "/sessions", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.SessionModel](t, rec)
}

func Test_OrderingFlow(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()

	sess := createSession(t, h, nil)
	require.NotEmpty(t, sess.Token)
	assert.Equal("grammar", sess.Strategy)

	rec := do(t, h, http.MethodPost, "/utterances", sess.Token, api.UtteranceRequest{Text: "cho thêm 2 ly trà đá"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	utt := decode[api.UtteranceModel](t, rec)
	assert.Equal("Đã thêm 2 x trà đá (5.000đ) vào đơn hàng.", utt.Answer)
	assert.NotEmpty(utt.Structure)
	assert.NotEmpty(utt.LogicalForm)

	rec = do(t, h, http.MethodGet, "/order", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ord := decode[api.OrderModel](t, rec)
	require.Len(t, ord.Lines, 1)
	assert.Equal("trà đá", ord.Lines[0].Item)
	assert.Equal(2, ord.Lines[0].Quantity)
	assert.Equal(10000, ord.Total)

	rec = do(t, h, http.MethodGet, "/utterances", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	transcript := decode[[]api.UtteranceModel](t, rec)
	require.Len(t, transcript, 1)
	assert.Equal("cho thêm 2 ly trà đá", transcript[0].Input)
	assert.Len(transcript[0].Cart, 1)

	rec = do(t, h, http.MethodDelete, "/order", sess.Token, nil)
	assert.Equal(http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/order", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(decode[api.OrderModel](t, rec).Lines)

	rec = do(t, h, http.MethodDelete, "/sessions/"+sess.ID, sess.Token, nil)
	assert.Equal(http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/order", sess.Token, nil)
	assert.Equal(http.StatusUnauthorized, rec.Code)
}

func Test_UnderstoodFailuresAreNotErrors(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()
	sess := createSession(t, h, nil)

	rec := do(t, h, http.MethodPost, "/utterances", sess.Token, api.UtteranceRequest{Text: "tôi muốn đặt 1 pizza"})

	require.Equal(t, http.StatusCreated, rec.Code)
	utt := decode[api.UtteranceModel](t, rec)
	assert.True(strings.HasPrefix(utt.Semantics, "{intent: invalid"), utt.Semantics)
	assert.Contains(utt.Answer, "pizza")
}

func Test_SessionsAreIsolated(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()
	s1 := createSession(t, h, nil)
	s2 := createSession(t, h, api.SessionRequest{Strategy: "pattern"})
	assert.Equal("pattern", s2.Strategy)

	rec := do(t, h, http.MethodPost, "/utterances", s1.Token, api.UtteranceRequest{Text: "cho thêm 2 ly trà đá"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/order", s2.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(decode[api.OrderModel](t, rec).Lines)

	// a token only reaches its own session
	rec = do(t, h, http.MethodDelete, "/sessions/"+s1.ID, s2.Token, nil)
	assert.Equal(http.StatusNotFound, rec.Code)
}

func Test_Errors(t *testing.T) {
	h := newTestServer(t).Handler()
	sess := createSession(t, h, nil)

	testCases := []struct {
		name   string
		method string
		path   string
		tok    string
		body   interface{}
		expect int
	}{
		{name: "no token", method: http.MethodGet, path: "/order", expect: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/order", tok: "abc", expect: http.StatusUnauthorized},
		{name: "empty utterance", method: http.MethodPost, path: "/utterances", tok: sess.Token, body: api.UtteranceRequest{Text: "  "}, expect: http.StatusBadRequest},
		{name: "unknown strategy", method: http.MethodPost, path: "/sessions", body: api.SessionRequest{Strategy: "regex"}, expect: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/tables", expect: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPut, path: "/menu", expect: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.tok, tc.body)

			assert.Equal(t, tc.expect, rec.Code, rec.Body.String())
		})
	}
}

func Test_PublicEndpoints(t *testing.T) {
	assert := assert.New(t)
	h := newTestServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/menu", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]api.MenuItemModel](t, rec)
	assert.Len(items, 10)
	assert.Equal("phở bò", items[0].Name)
	assert.Equal(45000, items[0].Price)

	rec = do(t, h, http.MethodGet, "/grammar", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(rec.Body.String(), "FOOD -> ")

	rec = do(t, h, http.MethodGet, "/info", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[api.InfoModel](t, rec)
	assert.Equal("grammar", info.Strategy)
}
