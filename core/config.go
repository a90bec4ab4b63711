package core

// 推荐模式。
const (
	ModeContent = "content" // 内容向量（TF-IDF）
	ModeItemCF  = "itemcf"  // 物品协同过滤
	ModeHybrid  = "hybrid"  // 两路召回按优先级合并
)

// Config 是引擎的显式配置。历史上阈值、切分比例、TopN 在各处硬编码且互相矛盾，
// 这里统一为可配置参数；零值在 Normalized 中补齐默认。
type Config struct {
	// Mode 推荐模式：content / itemcf / hybrid
	Mode string

	// LikedThreshold 内容模式下，评分 >= 该值的物品参与用户画像聚合
	LikedThreshold int

	// RelevanceThreshold 评估时测试分区中评分 >= 该值的物品视为相关
	RelevanceThreshold int

	// TestFraction 评估时划入测试分区的比例 (0,1)
	TestFraction float64

	// TopN 在线推荐条数
	TopN int

	// EvalTopN 评估用推荐条数；衡量 recall 需要比在线更大的 N
	EvalTopN int

	// MinRatings 评估要求的最少评分条数
	MinRatings int

	// Seed 训练/测试切分的随机种子；相同种子保证切分可复现
	Seed int64

	// CategoryWeight / TagsWeight 特征文本中 category、tags 的重复次数
	CategoryWeight int
	TagsWeight     int
}

// Normalized 返回补齐默认值后的配置副本。
func (c Config) Normalized() Config {
	if c.Mode == "" {
		c.Mode = ModeItemCF
	}
	if c.LikedThreshold <= 0 {
		c.LikedThreshold = 4
	}
	if c.RelevanceThreshold <= 0 {
		c.RelevanceThreshold = 4
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = 0.3
	}
	if c.TopN <= 0 {
		c.TopN = 5
	}
	if c.EvalTopN <= 0 {
		c.EvalTopN = c.TopN
	}
	if c.MinRatings <= 0 {
		c.MinRatings = 2
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.CategoryWeight <= 0 {
		c.CategoryWeight = 3
	}
	if c.TagsWeight <= 0 {
		c.TagsWeight = 2
	}
	return c
}
