package forest

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// ErrNotStratifiable reports that the labels cannot support a stratified split:
// fewer than two classes, or a class with too few members to land in both
// partitions. A failed fit must leave any previous artifact set in place.
var ErrNotStratifiable = errors.New("cannot stratify: need at least two classes with two examples each")

// StratifiedSplit partitions indices 0..len(y)-1 into train and test sets of
// roughly (1-testFrac)/testFrac proportions while preserving per-class ratios.
// Shuffling is seeded, so the split is reproducible.
func StratifiedSplit(y []int, testFrac float64, seed int64) (trainIdx, testIdx []int, err error) {
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, errors.New("test fraction must be in (0,1)")
	}
	byClass := make(map[int][]int)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	if len(byClass) < 2 {
		return nil, nil, ErrNotStratifiable
	}
	for _, idx := range byClass {
		if len(idx) < 2 {
			return nil, nil, ErrNotStratifiable
		}
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		n := int(math.Round(testFrac * float64(len(idx))))
		if n < 1 {
			n = 1
		}
		if n >= len(idx) {
			n = len(idx) - 1
		}
		testIdx = append(testIdx, idx[:n]...)
		trainIdx = append(trainIdx, idx[n:]...)
	}
	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx, nil
}
