package vectorize

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/rushteam/mangarec/core"
)

// ContentIndexCache 持有按目录内容哈希键控的内容索引。
// 目录内容（或字段权重）变化时重建，否则复用；重建在锁外完成后整体换入，
// 并发请求不会看到半成品索引。评分视图与缓存无关，永远按调用传入。
type ContentIndexCache struct {
	mu    sync.RWMutex
	key   uint64
	index *ContentIndex
}

func NewContentIndexCache() *ContentIndexCache {
	return &ContentIndexCache{}
}

// Get 返回目录对应的内容索引，必要时重建。
func (c *ContentIndexCache) Get(items []core.Item, categoryWeight, tagsWeight int) (*ContentIndex, error) {
	key := hashCatalog(items, categoryWeight, tagsWeight)

	c.mu.RLock()
	if c.index != nil && c.key == key {
		ix := c.index
		c.mu.RUnlock()
		return ix, nil
	}
	c.mu.RUnlock()

	ix, err := BuildContentIndex(items, categoryWeight, tagsWeight)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.key = key
	c.index = ix
	c.mu.Unlock()
	return ix, nil
}

// hashCatalog 对目录内容与权重配置求 xxhash。
// 只覆盖参与向量化的字段；image_url 之类的展示字段变化不触发重建。
func hashCatalog(items []core.Item, categoryWeight, tagsWeight int) uint64 {
	d := xxhash.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(categoryWeight))
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(tagsWeight))
	_, _ = d.Write(buf[:])

	for i := range items {
		binary.LittleEndian.PutUint64(buf[:], uint64(items[i].ID))
		_, _ = d.Write(buf[:])
		for _, s := range []string{
			items[i].Title, items[i].Category, items[i].Author,
			items[i].Year, items[i].Tags, items[i].Synopsis,
		} {
			_, _ = d.WriteString(s)
			_, _ = d.Write([]byte{0})
		}
	}
	return d.Sum64()
}
