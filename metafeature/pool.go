package metafeature

import "sort"

/*
PoolReader provides read-only access to a pool of precomputed values
*/
type PoolReader interface {
	Has(Key) bool
	Get(Key) (interface{}, bool)
}

/*
Pool is the shared pool of precomputed values of an extraction. Values can
only be added: a key already present in the pool keeps its first value.

The pool also records the error of a failed precomputation for each key
that precomputation was expected to contribute, so that routines requiring
those keys can report the original failure.
*/
type Pool struct {
	values   map[Key]interface{}
	failures map[Key]error
}

/*
NewPool returns an empty Pool
*/
func NewPool() *Pool {
	return &Pool{values: make(map[Key]interface{}), failures: make(map[Key]error)}
}

/*
Has returns whether the pool has a value for the given key
*/
func (p *Pool) Has(k Key) bool {
	_, ok := p.values[k]
	return ok
}

/*
Get returns the value in the pool for the given key and whether it was
present.
*/
func (p *Pool) Get(k Key) (interface{}, bool) {
	v, ok := p.values[k]
	return v, ok
}

/*
Merge takes the keys a precomputation declares it may contribute and the
values it returned and adds to the pool those values whose key is declared
and not present yet. It returns the keys of the values that were discarded,
in ascending order.
*/
func (p *Pool) Merge(declared []Key, values map[Key]interface{}) []Key {
	allowed := make(map[Key]bool, len(declared))
	for _, k := range declared {
		allowed[k] = true
	}
	keys := make([]Key, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sortKeys(keys)
	var discarded []Key
	for _, k := range keys {
		if _, ok := p.values[k]; ok || !allowed[k] {
			discarded = append(discarded, k)
			continue
		}
		p.values[k] = values[k]
		delete(p.failures, k)
	}
	return discarded
}

/*
Fail takes a slice of keys and an error and records the error as the reason
why each of the keys that are not present in the pool is missing. A key keeps
the first error recorded for it.
*/
func (p *Pool) Fail(keys []Key, err error) {
	for _, k := range keys {
		if _, ok := p.values[k]; ok {
			continue
		}
		if _, ok := p.failures[k]; ok {
			continue
		}
		p.failures[k] = err
	}
}

/*
Failure returns the error recorded as the reason why the given key is
missing, or nil.
*/
func (p *Pool) Failure(k Key) error {
	return p.failures[k]
}

/*
Keys returns the keys present in the pool in ascending order
*/
func (p *Pool) Keys() []Key {
	keys := make([]Key, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

/*
Values returns a copy of the contents of the pool
*/
func (p *Pool) Values() map[Key]interface{} {
	result := make(map[Key]interface{}, len(p.values))
	for k, v := range p.values {
		result[k] = v
	}
	return result
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
