// Package config 加载服务配置（YAML）。引擎参数、数据后端、过滤规则
// 全部显式配置，不再散落成互相矛盾的硬编码常量。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/mangarec/core"
)

// Config 是服务的顶层配置。
type Config struct {
	Server  Server   `yaml:"server"`
	Data    Data     `yaml:"data"`
	Engine  Engine   `yaml:"engine"`
	Filters []string `yaml:"filters"` // CEL 过滤规则，如 item.category == "Josei"
	Log     Log      `yaml:"log"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Data struct {
	Backend     string `yaml:"backend"` // csv / redis（redis 仅评分，目录仍走 csv）
	ItemsPath   string `yaml:"items_path"`
	RatingsPath string `yaml:"ratings_path"`
	Redis       Redis  `yaml:"redis"`
}

type Redis struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type Engine struct {
	Mode               string  `yaml:"mode"` // content / itemcf / hybrid
	LikedThreshold     int     `yaml:"liked_threshold"`
	RelevanceThreshold int     `yaml:"relevance_threshold"`
	TestFraction       float64 `yaml:"test_fraction"`
	TopN               int     `yaml:"top_n"`
	EvalTopN           int     `yaml:"eval_top_n"`
	MinRatings         int     `yaml:"min_ratings"`
	Seed               int64   `yaml:"seed"`
	CategoryWeight     int     `yaml:"category_weight"`
	TagsWeight         int     `yaml:"tags_weight"`
}

type Log struct {
	Level string `yaml:"level"` // debug / info / warn / error
}

// Default 返回默认配置（CSV 后端、itemcf 模式）。
func Default() *Config {
	return &Config{
		Server: Server{Addr: ":8000"},
		Data: Data{
			Backend:     "csv",
			ItemsPath:   "items.csv",
			RatingsPath: "ratings.csv",
		},
		Log: Log{Level: "info"},
	}
}

// Load 从 YAML 文件加载配置并校验；path 为空时返回默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验枚举与取值范围。
func (c *Config) Validate() error {
	switch c.Data.Backend {
	case "", "csv", "redis":
	default:
		return fmt.Errorf("config: unknown data backend %q (supported: csv, redis)", c.Data.Backend)
	}
	switch c.Engine.Mode {
	case "", core.ModeContent, core.ModeItemCF, core.ModeHybrid:
	default:
		return fmt.Errorf("config: unknown engine mode %q (supported: %s, %s, %s)",
			c.Engine.Mode, core.ModeContent, core.ModeItemCF, core.ModeHybrid)
	}
	if c.Engine.TestFraction < 0 || c.Engine.TestFraction >= 1 {
		return fmt.Errorf("config: test_fraction must be in [0,1), got %v", c.Engine.TestFraction)
	}
	if c.Data.Backend == "redis" && c.Data.Redis.Addr == "" {
		return fmt.Errorf("config: redis backend requires redis.addr")
	}
	return nil
}

// EngineConfig 把配置映射为引擎参数；零值由 core.Config.Normalized 补齐。
func (c *Config) EngineConfig() core.Config {
	return core.Config{
		Mode:               c.Engine.Mode,
		LikedThreshold:     c.Engine.LikedThreshold,
		RelevanceThreshold: c.Engine.RelevanceThreshold,
		TestFraction:       c.Engine.TestFraction,
		TopN:               c.Engine.TopN,
		EvalTopN:           c.Engine.EvalTopN,
		MinRatings:         c.Engine.MinRatings,
		Seed:               c.Engine.Seed,
		CategoryWeight:     c.Engine.CategoryWeight,
		TagsWeight:         c.Engine.TagsWeight,
	}
}
