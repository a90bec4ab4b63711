package recall

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/pipeline"
	"github.com/rushteam/mangarec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并按优先级合并结果。
// hybrid 模式用它把内容召回与协同过滤拼在一起：同一物品出现在多路时，
// 保留优先级更高（Sources 中靠前）的那一路的分数。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间，0 表示不限制
	MaxConcurrent int           // 最大并发数，0 表示不限制
	Logger        *slog.Logger  // nil 时取 slog.Default()
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		mu      sync.Mutex
		results []sourced
	)

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		s := src
		priority := i // 索引越小优先级越高

		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 目录级错误必须上抛，不能静默吞掉
				if core.IsEmptyCatalog(err) {
					return err
				}
				// 其他单路失败不中断剩余召回源，但要留下痕迹
				logger.WarnContext(egCtx, "recall source failed",
					slog.String("source", s.Name()),
					slog.Any("error", err),
				)
				return nil
			}

			for _, it := range items {
				it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
				it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(priority), Source: "recall"})
			}

			mu.Lock()
			results = append(results, sourced{priority: priority, items: items})
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return mergeByPriority(results), nil
}

// sourced 是一路召回的结果及其优先级。
type sourced struct {
	priority int
	items    []*core.Candidate
}

// mergeByPriority 按 ID 去重：相同 ID 保留优先级更高的一路，labels 合并。
func mergeByPriority(results []sourced) []*core.Candidate {
	type slot struct {
		priority int
		item     *core.Candidate
	}
	seen := make(map[int64]*slot)
	order := make([]int64, 0)

	// 按优先级稳定遍历
	for p := 0; p < len(results); p++ {
		for _, batch := range results {
			if batch.priority != p {
				continue
			}
			for _, it := range batch.items {
				if it == nil {
					continue
				}
				if old, ok := seen[it.ID]; ok {
					for k, v := range it.Labels {
						old.item.PutLabel(k, v)
					}
					continue
				}
				seen[it.ID] = &slot{priority: p, item: it}
				order = append(order, it.ID)
			}
		}
	}

	out := make([]*core.Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id].item)
	}
	return out
}
