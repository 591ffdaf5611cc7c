package training

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrDegenerateLabel marks a labeled set that cannot be split and trained on:
// fewer than two classes, or a class too small to stratify.
var ErrDegenerateLabel = errors.New("training: degenerate label distribution")

// StratifiedSplit partitions the dataset into train and test sets preserving
// each class's proportion. Every class contributes at least one row to each
// partition. The split is deterministic given the rng's seed.
func StratifiedSplit(d *Dataset, testPercent int, rng *rand.Rand) (*Dataset, *Dataset, error) {
	byClass := d.classIndexes()
	if len(byClass) < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 classes, got %d", ErrDegenerateLabel, len(byClass))
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	trainIdx := []int{}
	testIdx := []int{}
	for _, c := range classes {
		idx := byClass[c]
		if len(idx) < 2 {
			return nil, nil, fmt.Errorf("%w: class %d has %d row(s), cannot stratify", ErrDegenerateLabel, c, len(idx))
		}

		shuffled := append([]int{}, idx...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		testCount := len(shuffled) * testPercent / 100
		if testCount < 1 {
			testCount = 1
		}
		if testCount >= len(shuffled) {
			testCount = len(shuffled) - 1
		}

		testIdx = append(testIdx, shuffled[:testCount]...)
		trainIdx = append(trainIdx, shuffled[testCount:]...)
	}

	rng.Shuffle(len(trainIdx), func(a, b int) {
		trainIdx[a], trainIdx[b] = trainIdx[b], trainIdx[a]
	})

	return d.subset(trainIdx), d.subset(testIdx), nil
}
