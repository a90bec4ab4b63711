package core

// Recommendation 是对外返回的一条推荐结果。
type Recommendation struct {
	ItemID   int64   `json:"item_id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// EvaluationResult 是单用户的评估结果。
// Message 非空表示 sentinel（数据不足 / 测试分区无相关物品），
// 此时数值字段无意义，且不计入聚合。
type EvaluationResult struct {
	UserID      int64   `json:"user_id"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1          float64 `json:"f1_score"`
	Hits        int     `json:"hits"`
	Recommended []int64 `json:"recommended"`
	Relevant    []int64 `json:"relevant"`
	Message     string  `json:"message,omitempty"`
}

// OK 报告该结果是否为数值结果（非 sentinel）。
func (r EvaluationResult) OK() bool { return r.Message == "" }

// AggregateResult 是跨用户的聚合评估结果。
// Message 非空表示没有任何用户产生数值结果。
type AggregateResult struct {
	MeanPrecision  float64 `json:"mean_precision"`
	MeanRecall     float64 `json:"mean_recall"`
	MeanF1         float64 `json:"mean_f1"`
	UsersEvaluated int     `json:"users_evaluated"`
	Message        string  `json:"message,omitempty"`
}

// 评估 sentinel 文案。HTTP 层按业务结果（200）返回，不作为错误。
const (
	MsgInsufficientData = "user does not have enough ratings for evaluation (requires at least 2)"
	MsgNoRelevantItems  = "no positive ratings found in the test partition; metrics cannot be computed"
	MsgNoEvaluableUsers = "no user has enough data to compute metrics"
)
