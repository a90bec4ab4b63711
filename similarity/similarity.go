// Package similarity 提供余弦相似度计算，是内容召回与协同过滤共用的底层工具。
package similarity

import "math"

// Epsilon 用于夹住零范数向量的分母，避免除零。
// 退化向量的相似度因此约等于 0，而不是让整次排序失败。
const Epsilon = 1e-9

// Cosine 计算两个同维向量的余弦相似度：dot(a,b) / (‖a‖·‖b‖)。
// 维度不一致时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	na := math.Sqrt(normA)
	nb := math.Sqrt(normB)
	if na < Epsilon {
		na = Epsilon
	}
	if nb < Epsilon {
		nb = Epsilon
	}
	return dot / (na * nb)
}

// AgainstRows 计算向量 vec 与矩阵每一行的余弦相似度。
// 内容模式用：用户画像 × 全部物品行，一次算完。
func AgainstRows(vec []float64, rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = Cosine(vec, row)
	}
	return out
}

// PairwiseRows 计算矩阵行与行之间的余弦相似度矩阵。
// 协同模式用：物品列向量两两相似度。先归一化每一行，再做点积，
// 避免 O(n²) 次重复的范数计算。
func PairwiseRows(rows [][]float64) [][]float64 {
	n := len(rows)
	normalized := make([][]float64, n)
	for i, row := range rows {
		var norm float64
		for _, v := range row {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm < Epsilon {
			norm = Epsilon
		}
		nr := make([]float64, len(row))
		for j, v := range row {
			nr[j] = v / norm
		}
		normalized[i] = nr
	}

	sim := make([][]float64, n)
	for i := 0; i < n; i++ {
		sim[i] = make([]float64, n)
		sim[i][i] = dot(normalized[i], normalized[i])
		for j := 0; j < i; j++ {
			s := dot(normalized[i], normalized[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
