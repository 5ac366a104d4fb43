package tree

/*
Node is a node of a fitted tree. Nodes are stored in an arena indexed by
their ID, assigned in depth-first preorder so the root has ID 0.
*/
type Node struct {
	// The ID of the node, its index in the arena of the tree
	ID int
	// The number of training samples that reached the node
	Samples int
	// The Gini impurity of the training samples that reached the node
	Impurity float64
	// The class distribution of the training samples that reached the node
	Prediction *Prediction
	// The split that sends samples to the children of the node, nil for
	// leaves
	Split *Split
}

/*
Split is the test of an internal node: samples whose value for Feature is
less than or equal to Threshold go to the Left child, the rest (including
missing values) go to the Right child.
*/
type Split struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
}

/*
IsLeaf returns whether the node has no children
*/
func (n *Node) IsLeaf() bool {
	return n.Split == nil
}

/*
Class returns the index of the class predicted by the node
*/
func (n *Node) Class() int {
	return n.Prediction.Class()
}
