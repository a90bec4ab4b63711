package core

// RecommendContext 承载一次推荐请求的输入，贯穿整个 Pipeline 透传。
// Catalog 与 Ratings 是本次计算的快照视图：评估器会传入仅含训练分区的
// Ratings 视图，节点不得绕过它去读全量数据。
type RecommendContext struct {
	UserID int64

	// Catalog 目录快照（一次计算内不可变）
	Catalog []Item

	// Ratings 评分视图（可能是受限的训练视图）
	Ratings Ratings

	// Params 请求级上下文参数
	Params map[string]any
}

// RatedSet 返回当前视图下用户已评分的物品集合，用于排除已评分物品。
func (rctx *RecommendContext) RatedSet() map[int64]int {
	if rctx == nil {
		return nil
	}
	return rctx.Ratings.ItemSet(rctx.UserID)
}
