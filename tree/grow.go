package tree

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/pbanos/mfe/dataset"
	"gonum.org/v1/gonum/mat"
)

// FitError represents an error related with growing trees
type FitError string

/*
ErrEmptyTrainingSet is the error returned when trying to grow a tree
without training samples
*/
const ErrEmptyTrainingSet = FitError("cannot grow tree from empty training set")

func (fe FitError) Error() string {
	return string(fe)
}

/*
Classifier grows CART classification trees using the Gini impurity. The
features are considered in a random order on every node, drawn from a
source seeded with RandomState, so that ties between equally good
partitions are broken the same way for the same seed.
*/
type Classifier struct {
	Strategy    PruningStrategy
	RandomState int64
}

/*
NewClassifier takes a seed and returns a Classifier with the default
pruning strategy
*/
func NewClassifier(randomState int64) *Classifier {
	return &Classifier{DefaultPruningStrategy(), randomState}
}

type grower struct {
	ctx         context.Context
	x           mat.Matrix
	y           []int
	nClasses    int
	numFeatures int
	strategy    PruningStrategy
	rand        *rand.Rand
	nodes       []Node
	importances []float64
}

/*
Fit takes a context, a matrix with a row per training sample and a column
per feature, and the class labels of the samples, and returns the model
grown from them or an error. Missing values are represented with NaN.
*/
func (c *Classifier) Fit(ctx context.Context, x mat.Matrix, y []string) (*Model, error) {
	if x == nil || len(y) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	r, f := x.Dims()
	if r != len(y) {
		return nil, fmt.Errorf("growing tree: %d samples but %d labels", r, len(y))
	}
	classes, codes := dataset.EncodeLabels(y)
	g := &grower{
		ctx:         ctx,
		x:           x,
		y:           codes,
		nClasses:    len(classes),
		numFeatures: f,
		strategy:    c.Strategy,
		rand:        rand.New(rand.NewSource(c.RandomState)),
		importances: make([]float64, f),
	}
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	if _, err := g.grow(idx, 0); err != nil {
		return nil, err
	}
	normalize(g.importances)
	return &Model{nodes: g.nodes, classes: classes, importances: g.importances, numFeatures: f}, nil
}

func (g *grower) grow(idx []int, depth int) (int, error) {
	if err := g.ctx.Err(); err != nil {
		return 0, err
	}
	counts := g.classCounts(idx)
	prediction, err := NewPrediction(counts)
	if err != nil {
		return 0, err
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, Node{
		ID:         id,
		Samples:    len(idx),
		Impurity:   gini(counts, len(idx)),
		Prediction: prediction,
	})
	impurity := g.nodes[id].Impurity
	if impurity <= 0 || len(idx) < g.strategy.minSamplesSplit() {
		return id, nil
	}
	if g.strategy.MaxDepth > 0 && depth >= g.strategy.MaxDepth {
		return id, nil
	}
	p := g.bestPartition(idx, impurity)
	if p == nil {
		return id, nil
	}
	prune, err := g.strategy.pruner().Prune(g.ctx, p)
	if err != nil {
		return 0, err
	}
	if prune {
		return id, nil
	}
	g.importances[p.Feature] += float64(len(idx)) * p.ImpurityDecrease
	left, err := g.grow(p.Left, depth+1)
	if err != nil {
		return 0, err
	}
	right, err := g.grow(p.Right, depth+1)
	if err != nil {
		return 0, err
	}
	g.nodes[id].Split = &Split{Feature: p.Feature, Threshold: p.Threshold, Left: left, Right: right}
	return id, nil
}

/*
bestPartition returns the partition of the given samples in 2 parts with
the greatest impurity decrease among all features, or nil if the samples
cannot be partitioned. Only strictly better partitions replace the current
best one, so the order in which features are considered matters on ties.
*/
func (g *grower) bestPartition(idx []int, impurity float64) *Partition {
	minLeaf := g.strategy.minSamplesLeaf()
	n := len(idx)
	total := g.classCounts(idx)
	sorted := make([]int, n)
	var result *Partition
	for _, f := range g.rand.Perm(g.numFeatures) {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return lessNaNLast(g.x.At(sorted[i], f), g.x.At(sorted[j], f))
		})
		left := make([]int, g.nClasses)
		for i := 0; i < n-1; i++ {
			left[g.y[sorted[i]]]++
			v := g.x.At(sorted[i], f)
			next := g.x.At(sorted[i+1], f)
			if math.IsNaN(v) {
				break
			}
			if v == next || i+1 < minLeaf || n-i-1 < minLeaf {
				continue
			}
			right := make([]int, g.nClasses)
			for c := range right {
				right[c] = total[c] - left[c]
			}
			nl, nr := i+1, n-i-1
			decrease := impurity -
				float64(nl)/float64(n)*gini(left, nl) -
				float64(nr)/float64(n)*gini(right, nr)
			if result != nil && decrease <= result.ImpurityDecrease {
				continue
			}
			threshold := v + (next-v)/2
			if math.IsNaN(next) {
				threshold = v
			}
			result = &Partition{
				Feature:          f,
				Threshold:        threshold,
				Left:             append([]int(nil), sorted[:nl]...),
				Right:            append([]int(nil), sorted[nl:]...),
				ImpurityDecrease: decrease,
			}
		}
	}
	return result
}

func (g *grower) classCounts(idx []int) []int {
	counts := make([]int, g.nClasses)
	for _, i := range idx {
		counts[g.y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	result := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		result -= p * p
	}
	return result
}

func lessNaNLast(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

func normalize(v []float64) {
	var sum float64
	for _, e := range v {
		sum += e
	}
	if sum <= 0 {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}
