package vectorize

import (
	"github.com/rushteam/mangarec/core"
)

// ContentIndex 是内容模式的物品表示：每个物品一行 TF-IDF 向量，
// 外加显式的 item_id -> 行号映射。任何时候都通过映射取行，
// 绝不用 item_id 做下标运算（目录 ID 不保证连续）。
type ContentIndex struct {
	IDs   []int64
	Index map[int64]int
	Rows  [][]float64

	vectorizer *Vectorizer
}

// BuildContentIndex 在目录快照上构建内容索引。
// categoryWeight / tagsWeight 控制特征文本中字段的重复次数。
// 空目录返回 ErrEmptyCatalog。
func BuildContentIndex(items []core.Item, categoryWeight, tagsWeight int) (*ContentIndex, error) {
	if len(items) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	docs := make([][]string, len(items))
	for i := range items {
		docs[i] = Tokenize(items[i].FeatureText(categoryWeight, tagsWeight))
	}

	v := FitVectorizer(docs)
	ix := &ContentIndex{
		IDs:        make([]int64, len(items)),
		Index:      make(map[int64]int, len(items)),
		Rows:       make([][]float64, len(items)),
		vectorizer: v,
	}
	for i := range items {
		ix.IDs[i] = items[i].ID
		ix.Index[items[i].ID] = i
		ix.Rows[i] = v.Transform(docs[i])
	}
	return ix, nil
}

// Row 按 item_id 取物品向量。
func (ix *ContentIndex) Row(itemID int64) ([]float64, bool) {
	i, ok := ix.Index[itemID]
	if !ok {
		return nil, false
	}
	return ix.Rows[i], true
}

// Dim 返回向量空间维度（词表大小）。
func (ix *ContentIndex) Dim() int {
	return len(ix.vectorizer.Terms)
}

// Profile 聚合用户画像：取评分 >= likedThreshold 的物品行向量的算术平均。
// 没有符合条件的物品、或这些物品都不在目录里时返回 nil —— 这是冷启动，
// 不是错误。
func (ix *ContentIndex) Profile(ratings core.Ratings, userID int64, likedThreshold int) []float64 {
	var profile []float64
	var liked int
	for itemID, score := range ratings.ItemSet(userID) {
		if score < likedThreshold {
			continue
		}
		row, ok := ix.Row(itemID)
		if !ok {
			continue
		}
		if profile == nil {
			profile = make([]float64, len(row))
		}
		for i, v := range row {
			profile[i] += v
		}
		liked++
	}
	if liked == 0 {
		return nil
	}
	for i := range profile {
		profile[i] /= float64(liked)
	}
	return profile
}
