package training

import (
	"math"
	"math/rand"
	"sort"
)

// Forest is a random forest over the binary fraud label. Trees are grown on
// bootstrap samples with sqrt(d) feature subsampling per split and gini
// impurity, and predict by majority vote. All randomness derives from the
// configured seed, so training is reproducible.
type Forest struct {
	Features int    `json:"features"`
	Trees    []Tree `json:"trees"`
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is one tree node in a flat array. Feature is -1 for leaves; interior
// nodes route x[Feature] <= Threshold to Left, otherwise to Right.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     int     `json:"class"`
}

type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

func TrainForest(d *Dataset, cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 1
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = math.MaxInt32
	}

	numFeatures := 0
	if len(d.X) > 0 {
		numFeatures = len(d.X[0])
	}

	mtry := int(math.Sqrt(float64(numFeatures)))
	if mtry < 1 {
		mtry = 1
	}

	forest := &Forest{Features: numFeatures, Trees: make([]Tree, 0, cfg.Trees)}
	for t := 0; t < cfg.Trees; t++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))

		sample := make([]int, len(d.X))
		for i := range sample {
			sample[i] = rng.Intn(len(d.X))
		}

		b := &treeBuilder{
			x:        d.X,
			y:        d.Y,
			maxDepth: cfg.MaxDepth,
			minLeaf:  cfg.MinLeaf,
			mtry:     mtry,
			rng:      rng,
		}
		b.build(sample, 0)
		forest.Trees = append(forest.Trees, Tree{Nodes: b.nodes})
	}

	return forest
}

func (f *Forest) Predict(x []float64) int {
	votes := [2]int{}
	for i := range f.Trees {
		votes[f.Trees[i].predict(x)]++
	}

	if votes[1] > votes[0] {
		return 1
	}

	return 0
}

func (f *Forest) PredictBatch(x [][]float64) []int {
	preds := make([]int, len(x))
	for i := range x {
		preds[i] = f.Predict(x[i])
	}

	return preds
}

func (t *Tree) predict(x []float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Class
		}

		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	x        [][]float64
	y        []int
	maxDepth int
	minLeaf  int
	mtry     int
	rng      *rand.Rand
	nodes    []Node
}

// build grows the subtree for the given sample indexes and returns the index
// of its root node.
func (b *treeBuilder) build(idx []int, depth int) int {
	counts := b.classCounts(idx)

	if depth >= b.maxDepth || counts[0] == 0 || counts[1] == 0 || len(idx) < 2*b.minLeaf {
		return b.leaf(counts)
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		return b.leaf(counts)
	}

	left := []int{}
	right := []int{}
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	node := len(b.nodes)
	b.nodes = append(b.nodes, Node{Feature: feature, Threshold: threshold})
	b.nodes[node].Left = b.build(left, depth+1)
	b.nodes[node].Right = b.build(right, depth+1)

	return node
}

func (b *treeBuilder) leaf(counts [2]int) int {
	class := 0
	if counts[1] > counts[0] {
		class = 1
	}

	b.nodes = append(b.nodes, Node{Feature: -1, Class: class})

	return len(b.nodes) - 1
}

// bestSplit scans mtry random features. Per feature the sample is sorted by
// value and swept once, accumulating left-side class counts, so each
// candidate threshold's weighted gini falls out of the running counts.
func (b *treeBuilder) bestSplit(idx []int, counts [2]int) (int, float64, bool) {
	bestGini := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	total := float64(len(idx))
	sorted := make([]int, len(idx))

	for _, feature := range b.rng.Perm(len(b.x[0]))[:b.mtry] {
		copy(sorted, idx)
		sortByFeature(sorted, b.x, feature)

		leftCounts := [2]int{}
		for i := 0; i < len(sorted)-1; i++ {
			leftCounts[b.y[sorted[i]]]++

			cur, next := b.x[sorted[i]][feature], b.x[sorted[i+1]][feature]
			if cur == next {
				continue
			}

			nLeft := i + 1
			nRight := len(sorted) - nLeft
			if nLeft < b.minLeaf || nRight < b.minLeaf {
				continue
			}

			rightCounts := [2]int{counts[0] - leftCounts[0], counts[1] - leftCounts[1]}
			gini := (float64(nLeft)*giniImpurity(leftCounts, nLeft) +
				float64(nRight)*giniImpurity(rightCounts, nRight)) / total

			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *treeBuilder) classCounts(idx []int) [2]int {
	counts := [2]int{}
	for _, i := range idx {
		counts[b.y[i]]++
	}

	return counts
}

func giniImpurity(counts [2]int, n int) float64 {
	p0 := float64(counts[0]) / float64(n)
	p1 := float64(counts[1]) / float64(n)

	return 1 - p0*p0 - p1*p1
}

// sortByFeature orders sample indexes by feature value, breaking ties by
// index so tree construction is deterministic.
func sortByFeature(idx []int, x [][]float64, feature int) {
	sort.Slice(idx, func(a, b int) bool {
		if x[idx[a]][feature] == x[idx[b]][feature] {
			return idx[a] < idx[b]
		}
		return x[idx[a]][feature] < x[idx[b]][feature]
	})
}
