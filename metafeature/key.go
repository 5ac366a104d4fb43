/*
Package metafeature provides the building blocks shared by the extraction
engine and the meta-feature groups: the keys of the values routines can
receive, the shared pool of precomputed values, the resolved arguments handed
to routines, the values they return and the declarations of routines and
groups.
*/
package metafeature

/*
Key identifies a value that routines can receive as argument: either a value
of the extraction context, supplied for every extraction, or a value
contributed to the shared pool by a precomputation.
*/
type Key string

// Context keys, supplied by the extractor for every extraction.
const (
	// X resolves to the *dataset.Dataset, holding the attribute matrix.
	X Key = "X"
	// Y resolves to the target vector as a []string.
	Y Key = "y"
	// N resolves to the numeric-only matrix as a *mat.Dense (nil if empty).
	N Key = "N"
	// C resolves to the categorical-only matrix as a *mat.Dense (nil if empty).
	C Key = "C"
	// CatCols resolves to the indices of the discrete columns of X as an []int.
	CatCols Key = "cat_cols"
	// RandomState resolves to the int64 seed of the extraction.
	RandomState Key = "random_state"
)

// Keys contributed by the precomputations of the built-in groups.
const (
	Classes    Key = "classes"
	ClassFreqs Key = "class_freqs"

	CovMat    Key = "cov_mat"
	AbsCorMat Key = "abs_cor_mat"
	CanCors   Key = "can_cors"

	ClassEnt Key = "class_ent"
	AttrEnt  Key = "attr_ent"
	JointEnt Key = "joint_ent"
	MutInf   Key = "mut_inf"

	Model     Key = "model"
	Table     Key = "table"
	TreeDepth Key = "tree_depth"

	Folds Key = "folds"
)

/*
ContextKeys returns the keys supplied by the extractor for every extraction
*/
func ContextKeys() []Key {
	return []Key{X, Y, N, C, CatCols, RandomState}
}

/*
IsContextKey returns whether the given key is supplied by the extractor for
every extraction.
*/
func IsContextKey(k Key) bool {
	for _, ck := range ContextKeys() {
		if ck == k {
			return true
		}
	}
	return false
}
