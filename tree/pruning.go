package tree

import "context"

// PruningStrategy holds the configuration
// for when a node should not be partitioned
// further or at all.
type PruningStrategy struct {
	// Pruner is applied to the best partition
	// found for a node to determine if the
	// result is worth incorporating into the
	// tree.
	Pruner
	// MaxDepth is the maximum depth of a node
	// that can still be partitioned, with the
	// root at depth 0. A value of 0 or less
	// means no limit.
	MaxDepth int
	// MinSamplesSplit is the minimum number of
	// samples a node must have to be partitioned.
	MinSamplesSplit int
	// MinSamplesLeaf is the minimum number of
	// samples each side of a partition must have.
	MinSamplesLeaf int
}

/*
DefaultPruningStrategy returns the strategy that grows a tree until its
leaves are pure or cannot be split, pruning with the DefaultPruner.
*/
func DefaultPruningStrategy() PruningStrategy {
	return PruningStrategy{
		Pruner:          DefaultPruner(),
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

func (ps PruningStrategy) pruner() Pruner {
	if ps.Pruner == nil {
		return DefaultPruner()
	}
	return ps.Pruner
}

func (ps PruningStrategy) minSamplesSplit() int {
	if ps.MinSamplesSplit < 2 {
		return 2
	}
	return ps.MinSamplesSplit
}

func (ps PruningStrategy) minSamplesLeaf() int {
	if ps.MinSamplesLeaf < 1 {
		return 1
	}
	return ps.MinSamplesLeaf
}

/*
Partition represents the split of the samples of a node in two on a
feature and threshold, with the decrease in Gini impurity it achieves
weighted by the fraction of samples on each side.
*/
type Partition struct {
	Feature          int
	Threshold        float64
	Left             []int
	Right            []int
	ImpurityDecrease float64
}

/*
Pruner is an interface wrapping the Prune method, that can be used
to decide whether a partition is good enough to become part of a tree
or if it must be pruned instead.

The Prune method takes a context and a partition and returns a boolean:
true to indicate the partition must be pruned, false to allow its adding
to the tree and further development.
*/
type Pruner interface {
	Prune(ctx context.Context, p *Partition) (bool, error)
}

/*
PrunerFunc wraps a function with the Prune method signature to implement
the Pruner interface
*/
type PrunerFunc func(ctx context.Context, p *Partition) (bool, error)

/*
Prune takes a context.Context and a partition and invokes the PrunerFunc
with those parameters to return its boolean result.
*/
func (pf PrunerFunc) Prune(ctx context.Context, p *Partition) (bool, error) {
	return pf(ctx, p)
}

/*
DefaultPruner returns a Pruner whose Prune method prunes partitions that do
not decrease the impurity at all.
*/
func DefaultPruner() Pruner {
	return MinimumImpurityDecreasePruner(0)
}

/*
MinimumImpurityDecreasePruner takes a threshold float64 value and returns a
Pruner whose Prune method returns whether the threshold is greater or equal
to the received partition's impurity decrease
*/
func MinimumImpurityDecreasePruner(threshold float64) Pruner {
	return PrunerFunc(func(ctx context.Context, p *Partition) (bool, error) {
		return threshold >= p.ImpurityDecrease, nil
	})
}

/*
NoPruner returns a Pruner whose Prune method always returns false, that is,
never prunes.
*/
func NoPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, p *Partition) (bool, error) {
		return false, nil
	})
}
