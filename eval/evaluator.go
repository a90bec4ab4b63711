// Package eval 用留出法衡量推荐质量：把用户评分切成训练/测试分区，
// 只用训练视图重新生成推荐，与测试分区中的相关物品比对，
// 计算单用户与全量用户的 precision / recall / F1。
package eval

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/engine"
)

// Evaluator 包装引擎执行评估。自身无跨调用状态，评估是输入的纯函数。
type Evaluator struct {
	engine *engine.Engine
	cfg    core.Config
	logger *slog.Logger
}

// Option 配置 Evaluator。
type Option func(*Evaluator)

// WithLogger 指定结构化日志器。
func WithLogger(l *slog.Logger) Option {
	return func(ev *Evaluator) { ev.logger = l }
}

// New 创建评估器，配置取自引擎。
func New(e *engine.Engine, opts ...Option) *Evaluator {
	ev := &Evaluator{
		engine: e,
		cfg:    e.Config(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(ev)
	}
	return ev
}

// EvaluateUser 评估单个用户。
//
// 状态机（每用户独立，无持久状态）：
//  1. 过滤：评分条数 < MinRatings → InsufficientData sentinel
//  2. 切分：固定种子的确定性训练/测试划分
//  3. 训练视图 = 其他用户的全部评分 ∪ 本用户的训练分区，
//     原样喂给引擎 —— 评估器不触碰引擎内部
//  4. 用训练视图生成 EvalTopN 条推荐
//  5. 相关集 = 测试分区中评分 >= RelevanceThreshold 的物品；
//     为空 → NoRelevantItems sentinel
//  6. 计分：precision / recall / F1
//
// 用户级失败以 sentinel 返回；error 只用于目录级失败（如空目录）。
func (ev *Evaluator) EvaluateUser(
	ctx context.Context,
	userID int64,
	items []core.Item,
	ratings core.Ratings,
) (core.EvaluationResult, error) {
	userRatings := ratings.ForUser(userID).Dedup()
	if len(userRatings) < ev.cfg.MinRatings {
		return core.EvaluationResult{UserID: userID, Message: core.MsgInsufficientData}, nil
	}

	train, test := splitRatings(userRatings, ev.cfg.TestFraction, ev.cfg.Seed)

	trainView := ratings.WithoutUser(userID)
	trainView = append(trainView, train...)

	recs, err := ev.engine.Recommend(ctx, userID, items, trainView, ev.cfg.EvalTopN)
	if err != nil {
		return core.EvaluationResult{}, err
	}

	relevant := make([]int64, 0, len(test))
	for _, r := range test {
		if r.Score >= ev.cfg.RelevanceThreshold {
			relevant = append(relevant, r.ItemID)
		}
	}
	if len(relevant) == 0 {
		return core.EvaluationResult{UserID: userID, Message: core.MsgNoRelevantItems}, nil
	}
	sort.Slice(relevant, func(i, j int) bool { return relevant[i] < relevant[j] })

	relevantSet := make(map[int64]struct{}, len(relevant))
	for _, id := range relevant {
		relevantSet[id] = struct{}{}
	}

	recommended := make([]int64, 0, len(recs))
	hits := 0
	for _, rec := range recs {
		recommended = append(recommended, rec.ItemID)
		if _, ok := relevantSet[rec.ItemID]; ok {
			hits++
		}
	}

	precision, recall, f1 := precisionRecallF1(hits, len(recommended), len(relevant))
	return core.EvaluationResult{
		UserID:      userID,
		Precision:   precision,
		Recall:      recall,
		F1:          f1,
		Hits:        hits,
		Recommended: recommended,
		Relevant:    relevant,
	}, nil
}

// EvaluateAll 评估快照中出现过的每个用户并聚合。
// 用户之间相互独立，经 errgroup 并行展开；聚合是可交换的求和/计数，
// 不依赖用户间顺序。sentinel 用户不计入均值。
func (ev *Evaluator) EvaluateAll(
	ctx context.Context,
	items []core.Item,
	ratings core.Ratings,
) (core.AggregateResult, error) {
	users := ratings.Users()

	var (
		mu                  sync.Mutex
		sumP, sumR, sumF    float64
		evaluated, skipped  int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for _, userID := range users {
		uid := userID
		eg.Go(func() error {
			result, err := ev.EvaluateUser(egCtx, uid, items, ratings)
			if err != nil {
				// 目录级失败中止整个聚合
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if result.OK() {
				sumP += result.Precision
				sumR += result.Recall
				sumF += result.F1
				evaluated++
			} else {
				skipped++
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return core.AggregateResult{}, err
	}

	if evaluated == 0 {
		return core.AggregateResult{Message: core.MsgNoEvaluableUsers}, nil
	}

	ev.logger.DebugContext(ctx, "aggregate evaluation finished",
		slog.Int("users_evaluated", evaluated),
		slog.Int("users_skipped", skipped),
	)
	n := float64(evaluated)
	return core.AggregateResult{
		MeanPrecision:  sumP / n,
		MeanRecall:     sumR / n,
		MeanF1:         sumF / n,
		UsersEvaluated: evaluated,
	}, nil
}
