// Package dsl 提供基于 CEL (Common Expression Language) 的规则求值，
// 用于配置驱动的目录过滤规则。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是编译后的 CEL 规则，可以被并发复用。
//
// 表达式语法（CEL 标准语法），item 暴露目录物品属性：
//   - item.category == "Seinen"
//   - item.year >= "2010" && item.tags.contains("mecha")
//   - item.score > 0.7
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。规则在配置加载时编译一次，求值阶段零编译开销。
func Compile(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回规则原文（用于日志与 label）。
func (r *Rule) Expr() string { return r.expr }

// Eval 对一个物品属性 map 求值，返回布尔结果。
// 表达式结果不是布尔时返回错误。
func (r *Rule) Eval(item map[string]any) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{"item": item})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", r.expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return boolean, got %T", r.expr, out.Value())
	}
	return b, nil
}
