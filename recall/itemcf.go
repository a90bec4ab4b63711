package recall

import (
	"context"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/pipeline"
	"github.com/rushteam/mangarec/pkg/utils"
	"github.com/rushteam/mangarec/similarity"
	"github.com/rushteam/mangarec/vectorize"
)

// ItemCF 是基于物品的协同过滤召回源（Item-based Collaborative Filtering）。
//
// 核心思想："被同一批用户喜欢的物品，相互相似"
//
// 算法流程：
//  1. 评分快照 → 用户×物品矩阵（缺失为 0）
//  2. 物品列向量两两余弦相似度（物品-物品相似度矩阵）
//  3. 对每个用户未评分的物品 i，预测分 =
//     Σ_j sim(i,j)·rating(u,j) / (Σ_j |sim(i,j)| + ε)，j 只取用户评过分的物品
//
// 没有任何已评分相似邻居（Σ|sim| = 0）的物品不产生预测分。
// 用户在视图中没有评分时返回空结果（冷启动，不是错误）。
// ItemCF 同时实现 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type ItemCF struct{}

func (r *ItemCF) Name() string        { return "recall.itemcf" }
func (r *ItemCF) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *ItemCF) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *ItemCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}
	if len(rctx.Catalog) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	m := vectorize.BuildUserItemMatrix(rctx.Ratings)
	userRow, ok := m.UserRow(rctx.UserID)
	if !ok {
		return nil, nil
	}

	sim := similarity.PairwiseRows(m.ItemColumns())

	// 用户评过分的列坐标
	rated := make([]int, 0, len(userRow))
	for j, v := range userRow {
		if v != 0 {
			rated = append(rated, j)
		}
	}
	if len(rated) == 0 {
		return nil, nil
	}

	out := make([]*core.Candidate, 0, len(m.ItemIDs))
	for i := range m.ItemIDs {
		if userRow[i] != 0 {
			continue // 已评分，不预测
		}

		var weighted, simSum float64
		for _, j := range rated {
			s := sim[i][j]
			weighted += s * userRow[j]
			if s < 0 {
				simSum -= s
			} else {
				simSum += s
			}
		}
		if simSum == 0 {
			continue // 没有已评分的相似邻居
		}

		c := core.NewCandidate(m.ItemIDs[i])
		c.Score = weighted / (simSum + similarity.Epsilon)
		c.PutLabel("recall_source", utils.Label{Value: "itemcf", Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}
