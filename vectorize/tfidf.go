// Package vectorize 构建物品的数值表示：
// 内容模式下是目录词表上的 TF-IDF 行向量，协同模式下是用户×物品评分矩阵。
package vectorize

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Tokenize 把特征文本切成小写词元。按非字母数字切分，空词元丢弃。
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Vectorizer 是在整个目录语料上拟合出的 TF-IDF 向量器。
// 词表顺序按词典序固定，保证同一目录两次构建产出完全一致的向量。
type Vectorizer struct {
	Terms []string       // 行坐标 -> 词
	Vocab map[string]int // 词 -> 行坐标
	IDF   []float64
}

// FitVectorizer 在语料上拟合词表与 IDF。
// IDF 采用平滑形式 log((1+N)/(1+df)) + 1，避免 df=0/df=N 时的退化。
func FitVectorizer(docs [][]string) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		Terms: terms,
		Vocab: make(map[string]int, len(terms)),
		IDF:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, t := range terms {
		v.Vocab[t] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v
}

// Transform 把词元序列转成 L2 归一化的 TF-IDF 向量。
// 词表外的词元被忽略；空文档得到零向量（相似度按退化向量处理）。
func (v *Vectorizer) Transform(tokens []string) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, tok := range tokens {
		if i, ok := v.Vocab[tok]; ok {
			vec[i]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
