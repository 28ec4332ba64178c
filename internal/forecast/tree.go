package forecast

import (
	"math/rand/v2"
	"sort"
)

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      int
	right     int
}

// regressionTree is a CART tree split on squared error. Nodes live in a
// flat slice; the root is nodes[0].
type regressionTree struct {
	nodes []treeNode
}

type split struct {
	feature   int
	threshold float64
	sse       float64
}

func fitTree(x [][]float64, y []float64, idx []int, p treeParams, rng *rand.Rand) *regressionTree {
	t := &regressionTree{}
	t.grow(x, y, idx, 0, p, rng)
	return t
}

func (t *regressionTree) grow(x [][]float64, y []float64, idx []int, depth int, p treeParams, rng *rand.Rand) int {
	id := len(t.nodes)
	mean, sse := meanSSE(y, idx)
	t.nodes = append(t.nodes, treeNode{leaf: true, value: mean})

	if depth >= p.maxDepth || len(idx) < p.minSamplesSplit || sse <= 1e-12 {
		return id
	}

	best, ok := bestSplit(x, y, idx, sse, p, rng)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if x[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := t.grow(x, y, left, depth+1, p, rng)
	r := t.grow(x, y, right, depth+1, p, rng)
	t.nodes[id] = treeNode{
		feature:   best.feature,
		threshold: best.threshold,
		left:      l,
		right:     r,
		value:     mean,
	}
	return id
}

func (t *regressionTree) predict(row []float64) float64 {
	n := t.nodes[0]
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
	}
	return n.value
}

// bestSplit scans every candidate threshold of the sampled features and
// returns the one with the lowest summed child squared error.
func bestSplit(x [][]float64, y []float64, idx []int, parentSSE float64, p treeParams, rng *rand.Rand) (split, bool) {
	width := len(x[idx[0]])
	features := candidateFeatures(width, p.maxFeatures, rng)

	n := len(idx)
	var totalSum, totalSq float64
	for _, i := range idx {
		totalSum += y[i]
		totalSq += y[i] * y[i]
	}

	best := split{sse: parentSSE}
	found := false
	order := make([]int, n)

	for _, f := range features {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			v := y[order[k]]
			leftSum += v
			leftSq += v * v

			nl := k + 1
			nr := n - nl
			if nl < p.minSamplesLeaf || nr < p.minSamplesLeaf {
				continue
			}
			lo, hi := x[order[k]][f], x[order[k+1]][f]
			if lo == hi {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < best.sse {
				best = split{feature: f, threshold: (lo + hi) / 2, sse: sse}
				found = true
			}
		}
	}
	return best, found
}

func candidateFeatures(width, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= width {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rng.Perm(width)[:maxFeatures]
}

func meanSSE(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	var sse float64
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}
