package core

import (
	"strings"

	"github.com/rushteam/mangarec/pkg/utils"
)

// Item 是目录物品（漫画条目）的统一承载结构。
// 字段来自目录快照；在一次计算内不可变。
type Item struct {
	ID       int64  `json:"item_id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Year     string `json:"year"`
	Tags     string `json:"tags"`
	Synopsis string `json:"synopsis,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// FeatureText 拼接物品的文本属性，作为内容向量化的输入。
// category 与 tags 通过字面重复提升权重：重复次数线性提升其词频占比，
// 不需要显式的分字段权重。缺失字段视为空串。
func (it *Item) FeatureText(categoryWeight, tagsWeight int) string {
	if categoryWeight <= 0 {
		categoryWeight = 1
	}
	if tagsWeight <= 0 {
		tagsWeight = 1
	}

	parts := make([]string, 0, 4+categoryWeight+tagsWeight)
	parts = append(parts, it.Title)
	for i := 0; i < categoryWeight; i++ {
		parts = append(parts, it.Category)
	}
	parts = append(parts, it.Author, it.Year)
	for i := 0; i < tagsWeight; i++ {
		parts = append(parts, it.Tags)
	}
	parts = append(parts, it.Synopsis)

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// Candidate 是推荐链路中的候选物品：ID、分数与标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Candidate struct {
	ID     int64
	Score  float64
	Labels map[string]utils.Label
}

func NewCandidate(id int64) *Candidate {
	return &Candidate{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
