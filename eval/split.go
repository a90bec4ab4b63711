package eval

import (
	"math/rand"
	"sort"

	"github.com/rushteam/mangarec/core"
)

// splitRatings 把一个用户的评分确定性地划分为训练/测试两个分区。
// 先按 item_id 排序消除快照顺序的影响，再用固定种子洗牌：
// 相同输入 + 相同种子，每次调用得到完全相同的分区。
//
// 测试分区大小为 max(1, ⌊n·testFraction⌋)。
func splitRatings(userRatings core.Ratings, testFraction float64, seed int64) (train, test core.Ratings) {
	n := len(userRatings)
	if n == 0 {
		return nil, nil
	}

	sorted := make(core.Ratings, n)
	copy(sorted, userRatings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	testSize := int(float64(n) * testFraction)
	if testSize < 1 {
		testSize = 1
	}
	if testSize >= n {
		testSize = n - 1
	}

	test = make(core.Ratings, 0, testSize)
	train = make(core.Ratings, 0, n-testSize)
	inTest := make(map[int]struct{}, testSize)
	for _, idx := range perm[:testSize] {
		inTest[idx] = struct{}{}
	}
	for i, r := range sorted {
		if _, ok := inTest[i]; ok {
			test = append(test, r)
		} else {
			train = append(train, r)
		}
	}
	return train, test
}
