package metafeature

/*
Param declares a parameter of a routine. Required parameters must name a key
of the extraction context or a key contributed by some precomputation.
Optional parameters get their Default when they cannot be resolved otherwise;
a nil Default leaves the argument absent.
*/
type Param struct {
	Name     string
	Default  interface{}
	Optional bool
}

/*
Required declares a parameter that must be resolved for the routine to run
*/
func Required(k Key) Param {
	return Param{Name: string(k)}
}

/*
Optional declares a parameter with a default value
*/
func Optional(name string, def interface{}) Param {
	return Param{Name: name, Default: def, Optional: true}
}

/*
Precomputed declares an optional parameter that routines take advantage of
when the given key was contributed to the pool, and compute on their own
otherwise.
*/
func Precomputed(k Key) Param {
	return Param{Name: string(k), Optional: true}
}

/*
ExtractFunc computes the value of a meta-feature from its resolved arguments
*/
type ExtractFunc func(*Args) (Value, error)

/*
Extractor declares a meta-feature extraction routine
*/
type Extractor struct {
	Name    string
	Params  []Param
	Extract ExtractFunc
}

/*
PrecomputeFunc computes values to be shared among routines from its resolved
arguments and the current contents of the pool, which it must only read. It
returns the new values, which must be keyed by keys declared in Provides and
not present in the pool yet.
*/
type PrecomputeFunc func(*Args, PoolReader) (map[Key]interface{}, error)

/*
Precomputation declares a routine that contributes values to the shared
pool before any meta-feature is extracted. Precomputations run in no
particular order, and must produce the same pool under any order.
*/
type Precomputation struct {
	Name       string
	Params     []Param
	Provides   []Key
	Precompute PrecomputeFunc
}

/*
Group declares a group of meta-features: its extraction routines, its
precomputations and the groups whose precomputations it relies on.
*/
type Group struct {
	Name            string
	Prerequisites   []string
	Extractors      []Extractor
	Precomputations []Precomputation
}
