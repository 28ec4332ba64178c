package forecast

import (
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RandomForest averages bootstrap-trained regression trees.
type RandomForest struct {
	trees []*regressionTree
}

// FitForest trains cfg.NumTrees trees concurrently. Tree i draws its
// bootstrap sample from a generator seeded with (cfg.Seed, i), so the
// result does not depend on scheduling.
func FitForest(x [][]float64, y []float64, cfg ModelConfig) (*RandomForest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.Wrapf(ErrTraining, "forest needs matching rows and labels, got %d and %d", len(x), len(y))
	}

	params := treeParams{
		maxDepth:        cfg.MaxDepth,
		minSamplesSplit: cfg.MinSamplesSplit,
		minSamplesLeaf:  cfg.MinSamplesLeaf,
		maxFeatures:     cfg.MaxFeatures,
	}

	trees := make([]*regressionTree, cfg.NumTrees)
	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	for i := range trees {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Wrapf(ErrTraining, "tree %d: %v", i, r)
				}
			}()

			rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(i)))
			trees[i] = fitTree(x, y, bootstrap(len(x), rng), params, rng)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RandomForest{trees: trees}, nil
}

func (f *RandomForest) Predict(row []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(row)
	}
	return sum / float64(len(f.trees))
}

func (f *RandomForest) String() string {
	return fmt.Sprintf("RandomForest(trees=%d)", len(f.trees))
}

func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}
