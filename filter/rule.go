package filter

import (
	"context"

	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/pkg/dsl"
)

// RuleFilter 按 CEL 规则过滤候选：任一规则对物品求值为 true 即过滤。
// 规则来自服务配置，例如排除某个分类：item.category == "Josei"。
//
// 候选不在目录里时不做判断（交给结果装配阶段丢弃）。
type RuleFilter struct {
	Rules []*dsl.Rule

	catalog map[int64]core.Item
}

// NewRuleFilter 编译一组规则表达式。
func NewRuleFilter(exprs []string) (*RuleFilter, error) {
	rules := make([]*dsl.Rule, 0, len(exprs))
	for _, e := range exprs {
		if e == "" {
			continue
		}
		r, err := dsl.Compile(e)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return &RuleFilter{Rules: rules}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Candidate,
) (bool, error) {
	if len(f.Rules) == 0 || item == nil || rctx == nil {
		return false, nil
	}

	if f.catalog == nil {
		f.catalog = make(map[int64]core.Item, len(rctx.Catalog))
		for _, it := range rctx.Catalog {
			f.catalog[it.ID] = it
		}
	}

	it, ok := f.catalog[item.ID]
	if !ok {
		return false, nil
	}

	input := map[string]any{
		"id":       it.ID,
		"title":    it.Title,
		"category": it.Category,
		"author":   it.Author,
		"year":     it.Year,
		"tags":     it.Tags,
		"synopsis": it.Synopsis,
		"score":    item.Score,
	}
	for _, rule := range f.Rules {
		hit, err := rule.Eval(input)
		if err != nil {
			return false, err
		}
		if hit {
			return true, nil
		}
	}
	return false, nil
}
