package recall

import (
	"context"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/pipeline"
	"github.com/rushteam/mangarec/pkg/utils"
	"github.com/rushteam/mangarec/similarity"
	"github.com/rushteam/mangarec/vectorize"
)

// ContentRecall 是基于内容的召回源。
//
// 核心思想："用户喜欢具有某些特征的物品，推荐具有相似特征的其他物品"
//
// 算法流程：
//  1. 目录文本 → TF-IDF 行向量（索引按目录哈希缓存）
//  2. 用户画像 = 评分 >= LikedThreshold 的物品行向量均值
//  3. 画像与每个物品行算一次余弦相似度
//
// 已评分物品的剔除交给下游 FilterNode，召回只负责打分。
// ContentRecall 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type ContentRecall struct {
	// Cache 内容索引缓存；nil 时每次调用都重建索引
	Cache *vectorize.ContentIndexCache

	// LikedThreshold 画像聚合的评分门槛，<=0 时取 4
	LikedThreshold int

	// CategoryWeight / TagsWeight 特征文本字段重复次数，<=0 时取 3 / 2
	CategoryWeight int
	TagsWeight     int
}

func (r *ContentRecall) Name() string        { return "recall.content" }
func (r *ContentRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ContentRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
// 冷启动（没有达到门槛的评分）返回空结果，不是错误。
func (r *ContentRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}
	if len(rctx.Catalog) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	likedThreshold := r.LikedThreshold
	if likedThreshold <= 0 {
		likedThreshold = 4
	}
	categoryWeight := r.CategoryWeight
	if categoryWeight <= 0 {
		categoryWeight = 3
	}
	tagsWeight := r.TagsWeight
	if tagsWeight <= 0 {
		tagsWeight = 2
	}

	var ix *vectorize.ContentIndex
	var err error
	if r.Cache != nil {
		ix, err = r.Cache.Get(rctx.Catalog, categoryWeight, tagsWeight)
	} else {
		ix, err = vectorize.BuildContentIndex(rctx.Catalog, categoryWeight, tagsWeight)
	}
	if err != nil {
		return nil, err
	}

	profile := ix.Profile(rctx.Ratings, rctx.UserID, likedThreshold)
	if profile == nil {
		return nil, nil
	}

	scores := similarity.AgainstRows(profile, ix.Rows)
	out := make([]*core.Candidate, 0, len(scores))
	for i, score := range scores {
		c := core.NewCandidate(ix.IDs[i])
		c.Score = score
		c.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
