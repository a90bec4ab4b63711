package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/engine"
	"github.com/rushteam/mangarec/eval"
	"github.com/rushteam/mangarec/store"
)

func newTestServer(t *testing.T, items []core.Item, ratings core.Ratings) (*Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore(items, ratings)
	eng, err := engine.New(core.Config{Mode: core.ModeContent})
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mem, mem, eng, eval.New(eng), logger), mem
}

func serverCatalog() []core.Item {
	return []core.Item{
		{ID: 1, Title: "A", Category: "X"},
		{ID: 2, Title: "B", Category: "X"},
		{ID: 3, Title: "C", Category: "Y"},
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), nil)
	w := do(t, s.Router(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestItemsWithAverageRating(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), core.Ratings{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 1, Score: 3},
	})
	w := do(t, s.Router(), http.MethodGet, "/items", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out []struct {
		ItemID    int64   `json:"item_id"`
		AvgRating float64 `json:"avg_rating"`
	}
	decode(t, w, &out)
	require.Len(t, out, 3)
	assert.InDelta(t, 4.0, out[0].AvgRating, 1e-12)
	assert.Zero(t, out[1].AvgRating, "unrated items have avg 0")
}

func TestRecommendations(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), core.Ratings{
		{UserID: 1, ItemID: 1, Score: 5},
	})
	w := do(t, s.Router(), http.MethodGet, "/recommendations/1?n=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var out struct {
		UserID          int64                 `json:"user_id"`
		Recommendations []core.Recommendation `json:"recommendations"`
	}
	decode(t, w, &out)
	assert.Equal(t, int64(1), out.UserID)
	require.Len(t, out.Recommendations, 2)
	assert.Equal(t, int64(2), out.Recommendations[0].ItemID)
}

func TestRecommendationsColdStart(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), nil)
	w := do(t, s.Router(), http.MethodGet, "/recommendations/42", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Recommendations []core.Recommendation `json:"recommendations"`
	}
	decode(t, w, &out)
	assert.NotNil(t, out.Recommendations)
	assert.Empty(t, out.Recommendations, "cold start is an empty list, not null or an error")
}

func TestRecommendationsBadInput(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), nil)

	for _, target := range []string{
		"/recommendations/abc",
		"/recommendations/0",
		"/recommendations/-3",
		"/recommendations/1?n=zero",
		"/recommendations/1?n=-1",
	} {
		w := do(t, s.Router(), http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
	}
}

func TestSaveRating(t *testing.T) {
	s, mem := newTestServer(t, serverCatalog(), nil)

	w := do(t, s.Router(), http.MethodPost, "/ratings", `{"user_id":1,"item_id":2,"rating":5}`)
	require.Equal(t, http.StatusOK, w.Code)

	ratings, err := mem.LoadRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, core.Rating{UserID: 1, ItemID: 2, Score: 5}, ratings[0])
}

func TestSaveRatingValidation(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), nil)

	for _, body := range []string{
		`not json`,
		`{"user_id":0,"item_id":2,"rating":5}`,
		`{"user_id":1,"item_id":-2,"rating":5}`,
		`{"user_id":1,"item_id":2,"rating":0}`,
		`{"user_id":1,"item_id":2,"rating":6}`,
	} {
		w := do(t, s.Router(), http.MethodPost, "/ratings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestUserAccuracySentinel(t *testing.T) {
	// 只有一条评分的用户：业务性跳过，HTTP 层面仍是 200
	s, _ := newTestServer(t, serverCatalog(), core.Ratings{
		{UserID: 1, ItemID: 1, Score: 5},
	})
	w := do(t, s.Router(), http.MethodGet, "/accuracy/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Message string `json:"message"`
	}
	decode(t, w, &out)
	assert.Equal(t, core.MsgInsufficientData, out.Message)
}

func TestOverallAccuracy(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), core.Ratings{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 5},
		{UserID: 1, ItemID: 3, Score: 4},
		{UserID: 2, ItemID: 1, Score: 4},
		{UserID: 2, ItemID: 2, Score: 5},
	})
	w := do(t, s.Router(), http.MethodGet, "/accuracy", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out core.AggregateResult
	decode(t, w, &out)
	if out.Message == "" {
		assert.Greater(t, out.UsersEvaluated, 0)
		assert.GreaterOrEqual(t, out.MeanPrecision, 0.0)
		assert.LessOrEqual(t, out.MeanPrecision, 1.0)
	}
}

func TestOverallAccuracyNoUsers(t *testing.T) {
	s, _ := newTestServer(t, serverCatalog(), nil)
	w := do(t, s.Router(), http.MethodGet, "/accuracy", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Message string `json:"message"`
	}
	decode(t, w, &out)
	assert.Equal(t, core.MsgNoEvaluableUsers, out.Message)
}
