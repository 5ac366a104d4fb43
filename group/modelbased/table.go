package modelbased

import (
	"context"

	"github.com/pbanos/mfe/tree"
)

/*
Row holds the properties of a node of a decision tree used by the
model-based meta-features
*/
type Row struct {
	// The index of the feature the node splits on, -1 for leaves
	Feature int
	Leaf    bool
	// The number of training samples that reached the node
	Samples int
	// The index of the class predicted by the node
	Class int
}

/*
Table is the tree property table: the Row of every node of a decision
tree, indexed by node ID
*/
type Table []Row

/*
NewTable takes a fitted model and returns its tree property table
*/
func NewTable(m *tree.Model) Table {
	t := make(Table, m.NodeCount())
	for id := range t {
		n := m.Node(id)
		t[id] = Row{Feature: -1, Leaf: n.IsLeaf(), Samples: n.Samples, Class: n.Class()}
		if !n.IsLeaf() {
			t[id].Feature = n.Split.Feature
		}
	}
	return t
}

/*
Leaves returns the number of leaves in the table
*/
func (t Table) Leaves() int {
	var result int
	for _, r := range t {
		if r.Leaf {
			result++
		}
	}
	return result
}

/*
Depths takes a fitted model and returns the depth of each of its nodes,
indexed by node ID. The root has depth 0 and the children of every internal
node are one level deeper than their parent. The walk stops with the
context's error once it is done.
*/
func Depths(ctx context.Context, m *tree.Model) ([]int, error) {
	depths := make([]int, m.NodeCount())
	err := m.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		if n.Split != nil {
			depths[n.Split.Left] = depths[n.ID] + 1
			depths[n.Split.Right] = depths[n.ID] + 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return depths, nil
}
