/*
Package modelbased provides the model-based meta-features: measures of the
structure of a decision tree fitted to the numeric-only view of a dataset.

The tree is fitted once per extraction by the model precomputation, which
also contributes the tree property table and the depth of every node. All
the meta-features of the group are computed from those values.
*/
package modelbased

import (
	"fmt"
	"math"
	"sort"

	mf "github.com/pbanos/mfe/metafeature"
	"github.com/pbanos/mfe/tree"
)

// Name is the name of the group
const Name = "model-based"

/*
Group returns the declaration of the model-based group
*/
func Group() mf.Group {
	table, depth := mf.Required(mf.Table), mf.Required(mf.TreeDepth)
	n := mf.Required(mf.N)
	return mf.Group{
		Name:          Name,
		Prerequisites: []string{"general"},
		Extractors: []mf.Extractor{
			{Name: "leaves", Params: []mf.Param{table}, Extract: Leaves},
			{Name: "leaves_branch", Params: []mf.Param{table, depth}, Extract: LeavesBranch},
			{Name: "leaves_corrob", Params: []mf.Param{n, table}, Extract: LeavesCorrob},
			{Name: "leaves_homo", Params: []mf.Param{table, depth}, Extract: LeavesHomo},
			{Name: "leaves_per_class", Params: []mf.Param{table}, Extract: LeavesPerClass},
			{Name: "nodes", Params: []mf.Param{table}, Extract: Nodes},
			{Name: "nodes_per_attr", Params: []mf.Param{n, table}, Extract: NodesPerAttr},
			{Name: "nodes_per_inst", Params: []mf.Param{n, table}, Extract: NodesPerInst},
			{Name: "nodes_per_level", Params: []mf.Param{table, depth}, Extract: NodesPerLevel},
			{Name: "nodes_repeated", Params: []mf.Param{table}, Extract: NodesRepeated},
			{Name: "tree_depth", Params: []mf.Param{depth}, Extract: TreeDepth},
			{Name: "tree_imbalance", Params: []mf.Param{table, depth}, Extract: TreeImbalance},
			{Name: "tree_shape", Params: []mf.Param{table, depth}, Extract: TreeShape},
			{Name: "var_importance", Params: []mf.Param{mf.Required(mf.Model)}, Extract: VarImportance},
		},
		Precomputations: []mf.Precomputation{
			{
				Name: "model",
				Params: []mf.Param{
					n,
					mf.Optional(string(mf.Y), nil),
					mf.Required(mf.RandomState),
					mf.Optional("max_depth", 0),
					mf.Optional("min_samples_leaf", 1),
				},
				Provides:   []mf.Key{mf.Model, mf.Table, mf.TreeDepth},
				Precompute: PrecomputeModel,
			},
		},
	}
}

/*
PrecomputeModel fits a CART decision tree to N and the target vector, seeded
with the random state of the extraction, and contributes it along with its
tree property table and the depth of its nodes. A model already in the pool
is reused. Nothing is contributed for unsupervised datasets or datasets
without numeric attributes.
*/
func PrecomputeModel(args *mf.Args, pool mf.PoolReader) (map[mf.Key]interface{}, error) {
	if pool.Has(mf.Model) && pool.Has(mf.Table) && pool.Has(mf.TreeDepth) {
		return nil, nil
	}
	result := make(map[mf.Key]interface{})
	var m *tree.Model
	if v, ok := pool.Get(mf.Model); ok {
		m, ok = v.(*tree.Model)
		if !ok {
			return nil, fmt.Errorf("pooled model has type %T", v)
		}
	} else {
		var err error
		m, err = fit(args)
		if err != nil || m == nil {
			return nil, err
		}
		result[mf.Model] = m
	}
	if !pool.Has(mf.Table) {
		result[mf.Table] = NewTable(m)
	}
	if !pool.Has(mf.TreeDepth) {
		depths, err := Depths(args.Context(), m)
		if err != nil {
			return nil, err
		}
		result[mf.TreeDepth] = depths
	}
	return result, nil
}

func fit(args *mf.Args) (*tree.Model, error) {
	n, err := args.Matrix(string(mf.N))
	if err != nil {
		return nil, err
	}
	var y []string
	if args.Has(string(mf.Y)) {
		y, err = args.Strings(string(mf.Y))
		if err != nil {
			return nil, err
		}
	}
	if n == nil || len(y) == 0 {
		return nil, nil
	}
	seed, err := args.Int64(string(mf.RandomState))
	if err != nil {
		return nil, err
	}
	maxDepth, err := args.Int("max_depth")
	if err != nil {
		return nil, err
	}
	minSamplesLeaf, err := args.Int("min_samples_leaf")
	if err != nil {
		return nil, err
	}
	c := tree.NewClassifier(seed)
	c.Strategy.MaxDepth = maxDepth
	c.Strategy.MinSamplesLeaf = minSamplesLeaf
	m, err := c.Fit(args.Context(), n, y)
	if err != nil {
		return nil, fmt.Errorf("fitting decision tree: %v", err)
	}
	return m, nil
}

/*
Leaves returns the number of leaves of the tree
*/
func Leaves(args *mf.Args) (mf.Value, error) {
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Count(t.Leaves()), nil
}

/*
Nodes returns the number of internal nodes of the tree
*/
func Nodes(args *mf.Args) (mf.Value, error) {
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Count(len(t) - t.Leaves()), nil
}

/*
LeavesBranch returns the depth of every leaf, that is, the length of the
branch from the root to it
*/
func LeavesBranch(args *mf.Args) (mf.Value, error) {
	leafDepths, err := leafDepthsArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	result := make([]float64, len(leafDepths))
	for i, d := range leafDepths {
		result[i] = float64(d)
	}
	return mf.Vector(result), nil
}

/*
LeavesCorrob returns the proportion of training instances that reached
every leaf
*/
func LeavesCorrob(args *mf.Args) (mf.Value, error) {
	rows, _, err := dims(args)
	if err != nil {
		return mf.Value{}, err
	}
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	var result []float64
	for _, r := range t {
		if r.Leaf {
			result = append(result, ratio(float64(r.Samples), float64(rows)))
		}
	}
	return mf.Vector(result), nil
}

/*
TreeShape returns, for every leaf, the entropy-like term of the probability
of reaching it by a random walk from the root: -p log2(p) with p = 1/2^depth,
which amounts to depth / 2^depth.
*/
func TreeShape(args *mf.Args) (mf.Value, error) {
	leafDepths, err := leafDepthsArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Vector(treeShape(leafDepths)), nil
}

/*
LeavesHomo returns the number of leaves divided by the tree shape of every
leaf, NaN for leaves whose tree shape is 0
*/
func LeavesHomo(args *mf.Args) (mf.Value, error) {
	leafDepths, err := leafDepthsArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	shape := treeShape(leafDepths)
	leaves := float64(len(leafDepths))
	for i, s := range shape {
		shape[i] = ratio(leaves, s)
	}
	return mf.Vector(shape), nil
}

/*
TreeImbalance returns, for every distinct leaf depth d in descending order,
the tree shape term of x = (number of leaves at depth d) / 2^d, that is,
x / 2^x.
*/
func TreeImbalance(args *mf.Args) (mf.Value, error) {
	leafDepths, err := leafDepthsArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	counts := make(map[int]int)
	for _, d := range leafDepths {
		counts[d]++
	}
	depths := make([]int, 0, len(counts))
	for d := range counts {
		depths = append(depths, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(depths)))
	result := make([]float64, len(depths))
	for i, d := range depths {
		x := float64(counts[d]) / math.Pow(2, float64(d))
		result[i] = x / math.Pow(2, x)
	}
	return mf.Vector(result), nil
}

/*
LeavesPerClass returns the proportion of leaves predicting each class, for
the classes predicted by at least one leaf in ascending order.
*/
func LeavesPerClass(args *mf.Args) (mf.Value, error) {
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	counts := make(map[int]int)
	for _, r := range t {
		if r.Leaf {
			counts[r.Class]++
		}
	}
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	leaves := float64(t.Leaves())
	result := make([]float64, len(classes))
	for i, c := range classes {
		result[i] = float64(counts[c]) / leaves
	}
	return mf.Vector(result), nil
}

/*
NodesPerAttr returns the number of internal nodes divided by the number of
attributes of N
*/
func NodesPerAttr(args *mf.Args) (mf.Value, error) {
	_, cols, err := dims(args)
	if err != nil {
		return mf.Value{}, err
	}
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Scalar(ratio(float64(len(t)-t.Leaves()), float64(cols))), nil
}

/*
NodesPerInst returns the number of internal nodes divided by the number of
instances of N
*/
func NodesPerInst(args *mf.Args) (mf.Value, error) {
	rows, _, err := dims(args)
	if err != nil {
		return mf.Value{}, err
	}
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	return mf.Scalar(ratio(float64(len(t)-t.Leaves()), float64(rows))), nil
}

/*
NodesPerLevel returns the number of internal nodes at every depth of the
tree that has any, in ascending depth order
*/
func NodesPerLevel(args *mf.Args) (mf.Value, error) {
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	depths, err := args.Ints(string(mf.TreeDepth))
	if err != nil {
		return mf.Value{}, err
	}
	var result []float64
	for id, r := range t {
		if r.Leaf {
			continue
		}
		for len(result) <= depths[id] {
			result = append(result, 0)
		}
		result[depths[id]]++
	}
	return mf.Vector(result), nil
}

/*
NodesRepeated returns the number of internal nodes splitting on each
feature, for the features used by at least one node in the order in which
they first appear in a depth-first preorder walk of the tree.
*/
func NodesRepeated(args *mf.Args) (mf.Value, error) {
	t, err := tableArg(args)
	if err != nil {
		return mf.Value{}, err
	}
	index := make(map[int]int)
	var result []float64
	for _, r := range t {
		if r.Leaf {
			continue
		}
		i, ok := index[r.Feature]
		if !ok {
			i = len(result)
			index[r.Feature] = i
			result = append(result, 0)
		}
		result[i]++
	}
	return mf.Vector(result), nil
}

/*
TreeDepth returns the depth of every node of the tree
*/
func TreeDepth(args *mf.Args) (mf.Value, error) {
	depths, err := args.Ints(string(mf.TreeDepth))
	if err != nil {
		return mf.Value{}, err
	}
	result := make([]float64, len(depths))
	for i, d := range depths {
		result[i] = float64(d)
	}
	return mf.Vector(result), nil
}

/*
VarImportance returns the importance of every attribute of N in the tree:
its normalized total Gini impurity decrease
*/
func VarImportance(args *mf.Args) (mf.Value, error) {
	v, err := args.Get(string(mf.Model))
	if err != nil {
		return mf.Value{}, err
	}
	m, ok := v.(*tree.Model)
	if !ok {
		return mf.Value{}, &mf.ArgumentError{Routine: "var_importance", Param: string(mf.Model), Reason: fmt.Sprintf("expected decision tree, got %T", v)}
	}
	return mf.Vector(append([]float64(nil), m.FeatureImportances()...)), nil
}

func tableArg(args *mf.Args) (Table, error) {
	v, err := args.Get(string(mf.Table))
	if err != nil {
		return nil, err
	}
	t, ok := v.(Table)
	if !ok {
		return nil, &mf.ArgumentError{Param: string(mf.Table), Reason: fmt.Sprintf("expected tree property table, got %T", v)}
	}
	return t, nil
}

func leafDepthsArg(args *mf.Args) ([]int, error) {
	t, err := tableArg(args)
	if err != nil {
		return nil, err
	}
	depths, err := args.Ints(string(mf.TreeDepth))
	if err != nil {
		return nil, err
	}
	if len(depths) != len(t) {
		return nil, fmt.Errorf("%d node depths for %d nodes", len(depths), len(t))
	}
	var result []int
	for id, r := range t {
		if r.Leaf {
			result = append(result, depths[id])
		}
	}
	return result, nil
}

func dims(args *mf.Args) (int, int, error) {
	n, err := args.Matrix(string(mf.N))
	if err != nil || n == nil {
		return 0, 0, err
	}
	r, c := n.Dims()
	return r, c, nil
}

func treeShape(leafDepths []int) []float64 {
	result := make([]float64, len(leafDepths))
	for i, d := range leafDepths {
		result[i] = float64(d) / math.Pow(2, float64(d))
	}
	return result
}

func ratio(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	return a / b
}
