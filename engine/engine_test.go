package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/mangarec/core"
)

func testCatalog() []core.Item {
	return []core.Item{
		{ID: 1, Title: "A", Category: "X"},
		{ID: 2, Title: "B", Category: "X"},
		{ID: 3, Title: "C", Category: "Y"},
	}
}

func TestRecommendContentMode(t *testing.T) {
	e, err := New(core.Config{Mode: core.ModeContent})
	require.NoError(t, err)

	ratings := core.Ratings{{UserID: 1, ItemID: 1, Score: 5}}
	recs, err := e.Recommend(context.Background(), 1, testCatalog(), ratings, 2)
	require.NoError(t, err)

	// 已评分物品不出现在结果里
	require.Len(t, recs, 2)
	assert.Equal(t, int64(2), recs[0].ItemID, "same-category item ranks first")
	assert.Equal(t, int64(3), recs[1].ItemID)
	assert.Equal(t, "B", recs[0].Title)
	assert.Equal(t, "X", recs[0].Category)
	assert.Greater(t, recs[0].Score, recs[1].Score)
}

func TestRecommendItemCFMode(t *testing.T) {
	e, err := New(core.Config{Mode: core.ModeItemCF})
	require.NoError(t, err)

	ratings := core.Ratings{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 1, ItemID: 2, Score: 4},
		{UserID: 2, ItemID: 1, Score: 4},
		{UserID: 2, ItemID: 2, Score: 5},
		{UserID: 2, ItemID: 3, Score: 5},
	}
	recs, err := e.Recommend(context.Background(), 1, testCatalog(), ratings, 5)
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, int64(3), recs[0].ItemID)
	for _, rec := range recs {
		assert.NotContains(t, []int64{1, 2}, rec.ItemID, "rated items must not be recommended")
	}
}

func TestRecommendHybridMode(t *testing.T) {
	e, err := New(core.Config{Mode: core.ModeHybrid})
	require.NoError(t, err)

	ratings := core.Ratings{
		{UserID: 1, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 1, Score: 5},
		{UserID: 2, ItemID: 2, Score: 5},
	}
	recs, err := e.Recommend(context.Background(), 1, testCatalog(), ratings, 5)
	require.NoError(t, err)

	// 协同过滤只覆盖物品 2，内容召回补上物品 3
	ids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ItemID)
	}
	assert.Contains(t, ids, int64(2))
	assert.Contains(t, ids, int64(3))
	assert.NotContains(t, ids, int64(1))
}

func TestRecommendEmptyCatalog(t *testing.T) {
	e, err := New(core.Config{})
	require.NoError(t, err)

	_, err = e.Recommend(context.Background(), 1, nil, nil, 5)
	assert.True(t, core.IsEmptyCatalog(err), "err = %v", err)
}

func TestRecommendColdStart(t *testing.T) {
	e, err := New(core.Config{Mode: core.ModeContent})
	require.NoError(t, err)

	recs, err := e.Recommend(context.Background(), 99, testCatalog(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, recs, "cold start yields an empty list, not an error")
}

func TestRecommendDefaultTopN(t *testing.T) {
	e, err := New(core.Config{Mode: core.ModeContent, TopN: 1})
	require.NoError(t, err)

	ratings := core.Ratings{{UserID: 1, ItemID: 1, Score: 5}}
	recs, err := e.Recommend(context.Background(), 1, testCatalog(), ratings, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "topN <= 0 falls back to configured TopN")
}

func TestRecommendFilterRules(t *testing.T) {
	e, err := New(
		core.Config{Mode: core.ModeContent},
		WithFilterRules([]string{`item.category == "Y"`}),
	)
	require.NoError(t, err)

	ratings := core.Ratings{{UserID: 1, ItemID: 1, Score: 5}}
	recs, err := e.Recommend(context.Background(), 1, testCatalog(), ratings, 5)
	require.NoError(t, err)

	for _, rec := range recs {
		assert.NotEqual(t, "Y", rec.Category, "category Y is excluded by rule")
	}
	require.Len(t, recs, 1)
	assert.Equal(t, int64(2), recs[0].ItemID)
}

func TestNewRejectsBadRules(t *testing.T) {
	_, err := New(core.Config{}, WithFilterRules([]string{`item.category ==`}))
	assert.Error(t, err)
}
