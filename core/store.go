package core

import "context"

// CatalogStore 是目录数据源的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 领域层不依赖基础设施层，避免循环依赖
type CatalogStore interface {
	// Name 返回数据源名称（用于日志）
	Name() string

	// LoadItems 加载目录快照
	LoadItems(ctx context.Context) ([]Item, error)
}

// RatingStore 是评分数据源的领域接口。
// 评分由外部协作方追加/更新；引擎每个请求周期重新读取快照，绝不跨调用缓存。
type RatingStore interface {
	// Name 返回数据源名称（用于日志）
	Name() string

	// LoadRatings 加载评分快照
	LoadRatings(ctx context.Context) (Ratings, error)

	// SaveRating 追加或更新一条评分，(user_id, item_id) 上 last-write-wins
	SaveRating(ctx context.Context, r Rating) error
}
