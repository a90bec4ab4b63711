package core

import "sort"

// Rating 是一条评分记录 (user_id, item_id, rating)，评分取值 1..5。
type Rating struct {
	UserID int64 `json:"user_id"`
	ItemID int64 `json:"item_id"`
	Score  int   `json:"rating"`
}

// Ratings 是评分快照视图。引擎只读取视图，不缓存：
// 评估器需要传入仅含训练分区的受限视图，与全量数据不同。
type Ratings []Rating

// Dedup 对重复的 (user_id, item_id) 应用 last-write-wins 语义，
// 保留快照中最后出现的评分。返回新切片，顺序为首次出现顺序。
func (rs Ratings) Dedup() Ratings {
	if len(rs) == 0 {
		return rs
	}
	type key struct{ u, i int64 }
	idx := make(map[key]int, len(rs))
	out := make(Ratings, 0, len(rs))
	for _, r := range rs {
		k := key{r.UserID, r.ItemID}
		if pos, ok := idx[k]; ok {
			out[pos] = r
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}

// ForUser 返回指定用户的评分子集。
func (rs Ratings) ForUser(userID int64) Ratings {
	out := make(Ratings, 0, 8)
	for _, r := range rs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// WithoutUser 返回去掉指定用户后的评分子集。
func (rs Ratings) WithoutUser(userID int64) Ratings {
	out := make(Ratings, 0, len(rs))
	for _, r := range rs {
		if r.UserID != userID {
			out = append(out, r)
		}
	}
	return out
}

// Users 返回快照中出现过的用户 ID，升序去重。
func (rs Ratings) Users() []int64 {
	seen := make(map[int64]struct{}, len(rs))
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		out = append(out, r.UserID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ItemSet 返回用户评过分的物品集合（last-write-wins 之后的视图）。
func (rs Ratings) ItemSet(userID int64) map[int64]int {
	out := make(map[int64]int, 8)
	for _, r := range rs {
		if r.UserID == userID {
			out[r.ItemID] = r.Score
		}
	}
	return out
}
