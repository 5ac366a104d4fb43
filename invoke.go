package mfe

import (
	"context"
	"errors"
	"fmt"

	mf "github.com/pbanos/mfe/metafeature"
)

/*
resolve takes the name of a routine, its declared parameters, the values of
the extraction context, the pool, the parameter overrides and the override
scopes that apply to the routine, from the most to the least specific, and
returns the arguments to invoke the routine with. Every parameter naming a
context value gets it. Any other parameter gets the first override found in
the scopes, else the pool value for its key, else its default. Optional
parameters without default are left out when none of them exists, and an
error is returned for required ones: the failure recorded in the pool for
the key if there is one, an *mf.ArgumentError otherwise.
*/
func resolve(routine string, params []mf.Param, values map[mf.Key]interface{}, pool *mf.Pool, overrides map[string]map[string]interface{}, scopes ...string) (map[string]interface{}, error) {
	args := make(map[string]interface{}, len(params))
PARAMS:
	for _, p := range params {
		k := mf.Key(p.Name)
		if v, ok := values[k]; ok {
			args[p.Name] = v
			continue
		}
		for _, scope := range scopes {
			if v, ok := overrides[scope][p.Name]; ok {
				args[p.Name] = v
				continue PARAMS
			}
		}
		if v, ok := pool.Get(k); ok {
			args[p.Name] = v
			continue
		}
		if p.Default != nil {
			args[p.Name] = p.Default
			continue
		}
		if p.Optional {
			continue
		}
		if err := pool.Failure(k); err != nil {
			return nil, err
		}
		return nil, &mf.ArgumentError{Routine: routine, Param: p.Name, Reason: "no value in the extraction context, the overrides or the pool"}
	}
	return args, nil
}

/*
invoke resolves the arguments of the given feature and invokes it. It
returns the entry with its value, or the failure preventing its extraction.
*/
func (e *Extractor) invoke(ctx context.Context, f feature, values map[mf.Key]interface{}, pool *mf.Pool, overrides map[string]map[string]interface{}) (*Entry, *Failure) {
	name := f.group + "." + f.extractor.Name
	args, err := resolve(name, f.extractor.Params, values, pool, overrides, name, f.extractor.Name, GlobalScope)
	if err != nil {
		kind := KindPrecomputation
		if _, ok := err.(*mf.ArgumentError); ok {
			kind = KindParameterResolution
		}
		return nil, &Failure{f.extractor.Name, f.group, kind, err}
	}
	v, err := call(f.extractor.Extract, mf.NewArgs(name, args).WithContext(ctx))
	if err != nil {
		kind := KindRoutine
		var ae *mf.ArgumentError
		if errors.As(err, &ae) {
			kind = KindConfiguration
		}
		return nil, &Failure{f.extractor.Name, f.group, kind, err}
	}
	return &Entry{f.extractor.Name, f.group, v}, nil
}

func call(f mf.ExtractFunc, args *mf.Args) (v mf.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = mf.Value{}, fmt.Errorf("panic: %v", r)
		}
	}()
	return f(args)
}
