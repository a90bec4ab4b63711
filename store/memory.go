package store

import (
	"context"
	"sync"

	"github.com/rushteam/mangarec/core"
)

// 注意：此包只包含实现，接口定义在 core 包
// （core.CatalogStore / core.RatingStore）。

// MemoryStore 是内存实现的目录 + 评分存储，用于测试/开发/原型。
// 读写经 RWMutex 保护；进程重启后数据丢失。
type MemoryStore struct {
	mu      sync.RWMutex
	items   []core.Item
	ratings core.Ratings
}

func NewMemoryStore(items []core.Item, ratings core.Ratings) *MemoryStore {
	return &MemoryStore{
		items:   append([]core.Item(nil), items...),
		ratings: append(core.Ratings(nil), ratings...),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) LoadItems(ctx context.Context) ([]core.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]core.Item(nil), m.items...), nil
}

func (m *MemoryStore) LoadRatings(ctx context.Context) (core.Ratings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(core.Ratings(nil), m.ratings...), nil
}

// SaveRating 追加或更新评分，(user_id, item_id) 上 last-write-wins。
func (m *MemoryStore) SaveRating(ctx context.Context, r core.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.ratings {
		if m.ratings[i].UserID == r.UserID && m.ratings[i].ItemID == r.ItemID {
			m.ratings[i].Score = r.Score
			return nil
		}
	}
	m.ratings = append(m.ratings, r)
	return nil
}

var (
	_ core.CatalogStore = (*MemoryStore)(nil)
	_ core.RatingStore  = (*MemoryStore)(nil)
)
