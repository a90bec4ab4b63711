package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/pipeline"
)

// TopN 是排序 + 截断节点：按分数降序排列，同分按物品 ID 升序，
// 保证同一输入永远得到同一顺序，然后截取前 N 个。
//
// N <= 0 时只排序不截断。
type TopN struct {
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(items) == 0 {
		return items, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})

	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
