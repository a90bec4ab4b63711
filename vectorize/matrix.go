package vectorize

import (
	"sort"

	"github.com/rushteam/mangarec/core"
)

// UserItemMatrix 是协同模式的评分矩阵：用户一行、物品一列，缺失为 0。
// 用户与物品各自带显式的 id -> 下标映射，行列按 ID 升序排列以保证确定性。
type UserItemMatrix struct {
	UserIDs []int64
	ItemIDs []int64
	Rows    [][]float64 // 用户行

	userIndex map[int64]int
	itemIndex map[int64]int
}

// BuildUserItemMatrix 从评分快照构建矩阵。
// 重复的 (user, item) 按 last-write-wins 处理。
func BuildUserItemMatrix(rs core.Ratings) *UserItemMatrix {
	rs = rs.Dedup()

	userSet := make(map[int64]struct{})
	itemSet := make(map[int64]struct{})
	for _, r := range rs {
		userSet[r.UserID] = struct{}{}
		itemSet[r.ItemID] = struct{}{}
	}

	m := &UserItemMatrix{
		UserIDs:   sortedKeys(userSet),
		ItemIDs:   sortedKeys(itemSet),
		userIndex: make(map[int64]int, len(userSet)),
		itemIndex: make(map[int64]int, len(itemSet)),
	}
	for i, id := range m.UserIDs {
		m.userIndex[id] = i
	}
	for i, id := range m.ItemIDs {
		m.itemIndex[id] = i
	}

	m.Rows = make([][]float64, len(m.UserIDs))
	for i := range m.Rows {
		m.Rows[i] = make([]float64, len(m.ItemIDs))
	}
	for _, r := range rs {
		m.Rows[m.userIndex[r.UserID]][m.itemIndex[r.ItemID]] = float64(r.Score)
	}
	return m
}

// UserRow 返回用户的评分行。
func (m *UserItemMatrix) UserRow(userID int64) ([]float64, bool) {
	i, ok := m.userIndex[userID]
	if !ok {
		return nil, false
	}
	return m.Rows[i], true
}

// ItemColumns 返回物品列向量（物品 × 用户），顺序与 ItemIDs 一致。
// 物品的向量就是它在所有用户上的评分列。
func (m *UserItemMatrix) ItemColumns() [][]float64 {
	cols := make([][]float64, len(m.ItemIDs))
	for j := range m.ItemIDs {
		col := make([]float64, len(m.UserIDs))
		for i := range m.UserIDs {
			col[i] = m.Rows[i][j]
		}
		cols[j] = col
	}
	return cols
}

// ItemIndex 返回物品的列坐标。
func (m *UserItemMatrix) ItemIndex(itemID int64) (int, bool) {
	i, ok := m.itemIndex[itemID]
	return i, ok
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
