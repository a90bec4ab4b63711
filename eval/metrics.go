package eval

// precisionRecallF1 计算命中指标。
//   - precision = hits / 实际推荐条数（推荐为空时取 0）
//   - recall    = hits / 相关物品数
//   - f1        = 2pr/(p+r)，p = r = 0 时取 0
func precisionRecallF1(hits, recommended, relevant int) (precision, recall, f1 float64) {
	if recommended > 0 {
		precision = float64(hits) / float64(recommended)
	}
	if relevant > 0 {
		recall = float64(hits) / float64(relevant)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}
