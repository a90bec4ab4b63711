package similarity

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "scaled vectors keep similarity 1",
			a:    []float64{1, 1},
			b:    []float64{5, 5},
			want: 1,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1,
		},
		{
			name: "dimension mismatch",
			a:    []float64{1, 2},
			b:    []float64{1, 2, 3},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineZeroNorm(t *testing.T) {
	// 零范数向量不报错，相似度约等于 0
	got := Cosine([]float64{0, 0, 0}, []float64{1, 2, 3})
	if math.Abs(got) > 1e-6 {
		t.Errorf("Cosine(zero, v) = %v, want ~0", got)
	}
	got = Cosine([]float64{0, 0}, []float64{0, 0})
	if math.Abs(got) > 1e-6 {
		t.Errorf("Cosine(zero, zero) = %v, want ~0", got)
	}
}

func TestAgainstRows(t *testing.T) {
	rows := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}
	got := AgainstRows([]float64{1, 0}, rows)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if math.Abs(got[0]-1) > 1e-9 {
		t.Errorf("got[0] = %v, want 1", got[0])
	}
	if math.Abs(got[1]) > 1e-9 {
		t.Errorf("got[1] = %v, want 0", got[1])
	}
	if math.Abs(got[2]-1/math.Sqrt2) > 1e-9 {
		t.Errorf("got[2] = %v, want %v", got[2], 1/math.Sqrt2)
	}
}

func TestPairwiseRows(t *testing.T) {
	rows := [][]float64{
		{5, 3, 0},
		{5, 3, 0},
		{0, 0, 4},
		{0, 0, 0}, // 退化行
	}
	sim := PairwiseRows(rows)

	if math.Abs(sim[0][1]-1) > 1e-9 {
		t.Errorf("sim[0][1] = %v, want 1", sim[0][1])
	}
	if math.Abs(sim[0][2]) > 1e-9 {
		t.Errorf("sim[0][2] = %v, want 0", sim[0][2])
	}
	// 对称性
	for i := range sim {
		for j := range sim {
			if sim[i][j] != sim[j][i] {
				t.Fatalf("sim[%d][%d] != sim[%d][%d]", i, j, j, i)
			}
		}
	}
	// 退化行与任何行的相似度约等于 0，包括它自己
	for j := range sim[3] {
		if math.Abs(sim[3][j]) > 1e-6 {
			t.Errorf("sim[3][%d] = %v, want ~0", j, sim[3][j])
		}
	}
}
