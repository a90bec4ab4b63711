// Package mangarec 是一个漫画目录推荐与评估引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - 视图传入: 目录与评分是每次调用的快照视图，评估器据此传入训练视图
// - 显式配置: 阈值、切分比例、TopN 统一为 core.Config，不再硬编码
package mangarec

import (
	"github.com/rushteam/mangarec/core"
	"github.com/rushteam/mangarec/engine"
	"github.com/rushteam/mangarec/eval"
)

// 轻量 facade：便于用户直接 import "mangarec" 使用核心抽象。
type Engine = engine.Engine
type Evaluator = eval.Evaluator
type Config = core.Config

var (
	NewEngine    = engine.New
	NewEvaluator = eval.New
)
