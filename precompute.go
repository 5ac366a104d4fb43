package mfe

import (
	"context"
	"fmt"
	"time"

	mf "github.com/pbanos/mfe/metafeature"
)

type precomputation struct {
	group string
	p     mf.Precomputation
}

// precomputations returns the precomputations of the given groups in order
func (e *Extractor) precomputations(groups []string) []precomputation {
	var result []precomputation
	for _, name := range groups {
		g, ok := e.registry.Group(name)
		if !ok {
			continue
		}
		for _, p := range g.Precomputations {
			result = append(result, precomputation{name, p})
		}
	}
	return result
}

/*
precompute runs the given precomputations in order, each exactly once, and
returns the pool they filled. Values for keys already in the pool or not
declared by the routine that returned them are discarded. When a
precomputation fails, its error is recorded in the pool for each of its
declared keys still missing. An error is returned only if the context is
done.
*/
func (e *Extractor) precompute(ctx context.Context, ps []precomputation, values map[mf.Key]interface{}, overrides map[string]map[string]interface{}) (*mf.Pool, error) {
	pool := mf.NewPool()
	for _, pc := range ps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := pc.group + "." + pc.p.Name
		start := time.Now()
		contributed, err := e.runPrecomputation(ctx, name, pc.p, values, pool, overrides)
		e.metrics.precomputation(pc.group, time.Since(start).Seconds())
		if err != nil {
			err = fmt.Errorf("precomputing %s: %v", name, err)
			e.logger.Logf("%v", err)
			pool.Fail(pc.p.Provides, err)
			continue
		}
		for _, k := range pool.Merge(pc.p.Provides, contributed) {
			e.logger.Logf("Discarding value for %s contributed by %s: key already in the pool or not declared", k, name)
			e.metrics.discarded(pc.group, string(k))
		}
	}
	return pool, nil
}

func (e *Extractor) runPrecomputation(ctx context.Context, name string, p mf.Precomputation, values map[mf.Key]interface{}, pool *mf.Pool, overrides map[string]map[string]interface{}) (contributed map[mf.Key]interface{}, err error) {
	resolved, err := resolve(name, p.Params, values, pool, overrides, GlobalScope)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			contributed, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Precompute(mf.NewArgs(name, resolved).WithContext(ctx), pool)
}
