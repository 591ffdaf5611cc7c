package training

import (
	"math/rand"
	"sort"
)

// OversampleMinority equalizes class counts by duplicating rows of the
// smaller classes, sampled with replacement. Applied to the training
// partition only; the test partition stays untouched. Deterministic given
// the rng's seed.
func OversampleMinority(d *Dataset, rng *rand.Rand) *Dataset {
	byClass := d.classIndexes()

	maxCount := 0
	for _, idx := range byClass {
		if len(idx) > maxCount {
			maxCount = len(idx)
		}
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	out := &Dataset{
		FeatureNames: d.FeatureNames,
		X:            append([][]float64{}, d.X...),
		Y:            append([]int{}, d.Y...),
	}

	for _, c := range classes {
		idx := byClass[c]
		for i := len(idx); i < maxCount; i++ {
			pick := idx[rng.Intn(len(idx))]
			out.X = append(out.X, d.X[pick])
			out.Y = append(out.Y, d.Y[pick])
		}
	}

	return out
}
