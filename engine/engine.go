// Package engine 是推荐引擎的对外门面：组装召回 → 过滤 → 重排的 Pipeline，
// 并把候选装配成带标题/分类的推荐结果。
//
// 引擎对每次调用是纯函数：除受保护的内容索引缓存外不持有跨调用状态，
// 目录与评分都以快照视图传入。评估器靠这一点传入受限的训练视图。
package engine

import (
	"context"
	"log/slog"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/filter"
	"github.com/rushteam/mangarec/pipeline"
	"github.com/rushteam/mangarec/recall"
	"github.com/rushteam/mangarec/rerank"
	"github.com/rushteam/mangarec/vectorize"
)

// Engine 持有配置、内容索引缓存与编译后的过滤规则。
type Engine struct {
	cfg        core.Config
	cache      *vectorize.ContentIndexCache
	ruleExprs  []string
	ruleFilter func() (*filter.RuleFilter, error)
	logger     *slog.Logger
}

// Option 配置 Engine。
type Option func(*Engine)

// WithLogger 指定结构化日志器。
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFilterRules 指定 CEL 过滤规则表达式（在 New 中编译校验）。
func WithFilterRules(exprs []string) Option {
	return func(e *Engine) { e.ruleExprs = exprs }
}

// New 创建引擎。规则表达式编译失败时返回错误。
func New(cfg core.Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    cfg.Normalized(),
		cache:  vectorize.NewContentIndexCache(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	// 编译一次以校验；RuleFilter 实例按请求创建（它会缓存请求内的目录映射）
	if _, err := filter.NewRuleFilter(e.ruleExprs); err != nil {
		return nil, err
	}
	e.ruleFilter = func() (*filter.RuleFilter, error) {
		return filter.NewRuleFilter(e.ruleExprs)
	}
	return e, nil
}

// Config 返回归一化后的引擎配置。
func (e *Engine) Config() core.Config { return e.cfg }

// Recommend 为用户生成 topN 条推荐。
//   - topN <= 0 时取配置默认
//   - 空目录返回 ErrEmptyCatalog
//   - 冷启动用户返回空列表，不是错误
func (e *Engine) Recommend(
	ctx context.Context,
	userID int64,
	items []core.Item,
	ratings core.Ratings,
	topN int,
) ([]core.Recommendation, error) {
	if len(items) == 0 {
		return nil, core.ErrEmptyCatalog
	}
	if topN <= 0 {
		topN = e.cfg.TopN
	}

	rctx := &core.RecommendContext{
		UserID:  userID,
		Catalog: items,
		Ratings: ratings,
	}

	p, err := e.buildPipeline(topN)
	if err != nil {
		return nil, err
	}

	candidates, err := p.Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]core.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := make([]core.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		it, ok := byID[c.ID]
		if !ok {
			// 评分里出现但目录里没有的物品不返回
			continue
		}
		out = append(out, core.Recommendation{
			ItemID:   c.ID,
			Title:    it.Title,
			Category: it.Category,
			Score:    c.Score,
		})
	}

	e.logger.DebugContext(ctx, "recommendations generated",
		slog.Int64("user_id", userID),
		slog.String("mode", e.cfg.Mode),
		slog.Int("count", len(out)),
	)
	return out, nil
}

// buildPipeline 按模式组装 Pipeline。实例按请求创建，便于过滤器缓存请求内状态。
func (e *Engine) buildPipeline(topN int) (*pipeline.Pipeline, error) {
	var recallNode pipeline.Node
	switch e.cfg.Mode {
	case core.ModeContent:
		recallNode = e.contentSource()
	case core.ModeHybrid:
		recallNode = &recall.Fanout{
			Sources: []recall.Source{&recall.ItemCF{}, e.contentSource()},
			Logger:  e.logger,
		}
	default: // core.ModeItemCF
		recallNode = &recall.ItemCF{}
	}

	rules, err := e.ruleFilter()
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			recallNode,
			&filter.FilterNode{Filters: []filter.Filter{&filter.RatedFilter{}, rules}},
			&rerank.TopN{N: topN},
		},
	}, nil
}

func (e *Engine) contentSource() *recall.ContentRecall {
	return &recall.ContentRecall{
		Cache:          e.cache,
		LikedThreshold: e.cfg.LikedThreshold,
		CategoryWeight: e.cfg.CategoryWeight,
		TagsWeight:     e.cfg.TagsWeight,
	}
}
