package filter

import (
	"context"

	"github.com/rushteam/mangarec/core"
)

// RatedFilter 过滤掉用户在当前评分视图下已经评过分的物品。
// 集合来自 rctx.Ratings：评估器传入训练视图时，
// 测试分区的物品不会被误判为已评分。
//
// 实例按请求创建（引擎每次调用组装新 Pipeline），已评分集合只构建一次。
type RatedFilter struct {
	set map[int64]int
}

func (f *RatedFilter) Name() string {
	return "filter.rated"
}

func (f *RatedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Candidate,
) (bool, error) {
	if item == nil || rctx == nil || rctx.UserID == 0 {
		return false, nil
	}
	if f.set == nil {
		f.set = rctx.RatedSet()
	}
	_, rated := f.set[item.ID]
	return rated, nil
}
