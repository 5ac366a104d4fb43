package tree

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Model represents a fitted classification tree. Its nodes
// are stored in an arena in depth-first preorder, so the
// root node is always the first one.
type Model struct {
	nodes       []Node
	classes     []string
	importances []float64
	numFeatures int
}

/*
NodeCount returns the number of nodes in the tree, including leaves
*/
func (m *Model) NodeCount() int {
	return len(m.nodes)
}

/*
Node returns the node with the given ID
*/
func (m *Model) Node(id int) *Node {
	return &m.nodes[id]
}

/*
Classes returns the classes the model predicts in ascending order. Class
indexes of nodes and predictions refer to this slice.
*/
func (m *Model) Classes() []string {
	return m.classes
}

/*
NumFeatures returns the number of features the model was trained with
*/
func (m *Model) NumFeatures() int {
	return m.numFeatures
}

/*
FeatureImportances returns the total impurity decrease brought by each
feature, weighted by the number of samples reaching the partitioned nodes
and normalized to sum 1. All importances are 0 for single node trees.
*/
func (m *Model) FeatureImportances() []float64 {
	return m.importances
}

/*
Depth returns the length of the longest path from the root to a leaf
*/
func (m *Model) Depth() int {
	depths := make([]int, len(m.nodes))
	var result int
	m.Traverse(context.Background(), false, func(ctx context.Context, n *Node) error {
		if n.Split != nil {
			depths[n.Split.Left] = depths[n.ID] + 1
			depths[n.Split.Right] = depths[n.ID] + 1
		}
		if depths[n.ID] > result {
			result = depths[n.ID]
		}
		return nil
	})
	return result
}

/*
Apply takes the feature values of a sample and returns the ID of the leaf
the sample ends in. Values that do not satisfy a split test, NaN
included, follow its right branch.
*/
func (m *Model) Apply(row []float64) (int, error) {
	if len(row) != m.numFeatures {
		return 0, fmt.Errorf("applying tree: expected %d feature values, got %d", m.numFeatures, len(row))
	}
	n := &m.nodes[0]
	for n.Split != nil {
		v := row[n.Split.Feature]
		if !math.IsNaN(v) && v <= n.Split.Threshold {
			n = &m.nodes[n.Split.Left]
		} else {
			n = &m.nodes[n.Split.Right]
		}
	}
	return n.ID, nil
}

/*
Predict takes the feature values of a sample and returns the class predicted
for it according to the tree and an error if the prediction could not be
made.
*/
func (m *Model) Predict(row []float64) (string, error) {
	id, err := m.Apply(row)
	if err != nil {
		return "", err
	}
	return m.classes[m.nodes[id].Class()], nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. Left
// children are always traversed before right ones.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (m *Model) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	if len(m.nodes) == 0 {
		return nil
	}
	return m.traverse(ctx, &m.nodes[0], bottomup, f)
}

func (m *Model) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	if n.Split != nil {
		for _, id := range []int{n.Split.Left, n.Split.Right} {
			err = m.traverse(ctx, &m.nodes[id], bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

func (m *Model) String() string {
	if len(m.nodes) == 0 {
		return ""
	}
	return m.subtreeString(0)
}

func (m *Model) subtreeString(id int) string {
	n := &m.nodes[id]
	result := fmt.Sprintf("[%d]\n", id)
	var children []int
	if n.Split != nil {
		result = fmt.Sprintf("%s{ x[%d] <= %g }\n", result, n.Split.Feature, n.Split.Threshold)
		children = []int{n.Split.Left, n.Split.Right}
	}
	result = fmt.Sprintf("%s{ %v }\n", result, n.Prediction)
	if len(children) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	} else {
		result = fmt.Sprintf("%s \n", result)
	}
	for i, subtreeID := range children {
		for j, line := range strings.Split(m.subtreeString(subtreeID), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(children)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
