/*
Package mfe extracts meta-features from datasets: numeric descriptors of
their general, statistical, information-theoretic and model-induced
properties and of the performance of simple learners on them.

Meta-features are organised in groups held by a Registry. An extraction
resolves the requested groups and features, runs every precomputation of
the groups involved once to fill a shared pool of values, and then invokes
every requested feature with arguments resolved from the user overrides, the
extraction context, the pool and the defaults of the feature. Failures are
isolated to the features they concern.
*/
package mfe

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/pbanos/mfe/dataset"
	mf "github.com/pbanos/mfe/metafeature"
)

/*
Extractor extracts the meta-features selected by its Config from datasets.
It holds no state between extractions.
*/
type Extractor struct {
	config    Config
	registry  *Registry
	logger    Logger
	metrics   *Metrics
	summaries []namedSummary
}

/*
Option configures optional collaborators of an Extractor
*/
type Option func(*Extractor)

/*
WithLogger sets the Logger the extractor reports to
*/
func WithLogger(l Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

/*
WithMetrics sets the Metrics the extractor records to
*/
func WithMetrics(m *Metrics) Option {
	return func(e *Extractor) {
		e.metrics = m
	}
}

/*
WithRegistry sets the Registry with the groups available for extraction,
instead of the DefaultRegistry
*/
func WithRegistry(r *Registry) Option {
	return func(e *Extractor) {
		e.registry = r
	}
}

/*
New takes a Config and options and returns an Extractor for them, or an
error if the Config names unknown summary functions.
*/
func New(cfg Config, opts ...Option) (*Extractor, error) {
	e := &Extractor{config: cfg, logger: nopLogger{}}
	for _, o := range opts {
		o(e)
	}
	if e.registry == nil {
		e.registry = DefaultRegistry()
	}
	if e.logger == nil {
		e.logger = nopLogger{}
	}
	ss, err := lookupSummaries(cfg.Summary)
	if err != nil {
		return nil, fmt.Errorf("configuring summaries: %v", err)
	}
	e.summaries = ss
	return e, nil
}

type feature struct {
	group     string
	extractor mf.Extractor
}

/*
Extract takes a context and a dataset and returns the Result of extracting
the configured meta-features from it. Features that cannot be extracted are
reported in the failures of the Result. An error is returned only if the
dataset is not valid or the context is done before the extraction completes.
*/
func (e *Extractor) Extract(ctx context.Context, d *dataset.Dataset) (*Result, error) {
	err := validate(d)
	if err != nil {
		return nil, err
	}
	result := &Result{RandomState: e.randomState()}
	features, groups := e.plan(result)
	overrides := e.overrides(result)
	values := map[mf.Key]interface{}{
		mf.X:           d,
		mf.Y:           d.Y,
		mf.N:           d.N,
		mf.C:           d.C,
		mf.CatCols:     d.CatCols,
		mf.RandomState: result.RandomState,
	}
	e.logger.Logf("Extracting %d features of groups %v from a dataset with %d instances and %d attributes (random state %d) ...", len(features), groups, d.Rows(), d.Cols(), result.RandomState)
	pool, err := e.precompute(ctx, e.precomputations(groups), values, overrides)
	if err != nil {
		return nil, err
	}
	for _, f := range features {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, failure := e.invoke(ctx, f, values, pool, overrides)
		e.metrics.feature(f.group, failure != nil)
		if failure != nil {
			e.logger.Logf("Failed to extract %s.%s: %v", f.group, f.extractor.Name, failure.Err)
			result.Failures = append(result.Failures, *failure)
			continue
		}
		result.Entries = append(result.Entries, summarize(*entry, e.summaries)...)
	}
	e.logger.Logf("Extracted %d entries with %d failures", len(result.Entries), len(result.Failures))
	return result, nil
}

func validate(d *dataset.Dataset) error {
	if d == nil {
		return fmt.Errorf("%v: no dataset", ErrInvalidDataset)
	}
	rows := d.Rows()
	if len(d.Y) != 0 && len(d.Y) != rows {
		return fmt.Errorf("%v: %d labels for %d instances", ErrInvalidDataset, len(d.Y), rows)
	}
	if d.N != nil {
		if r, _ := d.N.Dims(); r != rows {
			return fmt.Errorf("%v: N has %d rows for %d instances", ErrInvalidDataset, r, rows)
		}
	}
	if d.C != nil {
		if r, _ := d.C.Dims(); r != rows {
			return fmt.Errorf("%v: C has %d rows for %d instances", ErrInvalidDataset, r, rows)
		}
	}
	return nil
}

func (e *Extractor) randomState() int64 {
	if e.config.RandomState != nil {
		return *e.config.RandomState
	}
	return rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
}

/*
plan returns the features to extract in order and the groups whose
precomputations they need, recording a configuration failure in the given
result for every unknown group or feature
*/
func (e *Extractor) plan(result *Result) ([]feature, []string) {
	var selected []string
	if selectsAll(e.config.Groups) {
		selected = e.registry.Groups()
	} else {
		for _, name := range e.config.Groups {
			if _, ok := e.registry.Group(name); !ok {
				result.Failures = append(result.Failures, Failure{Group: name, Kind: KindConfiguration, Err: ErrUnknownGroup})
				continue
			}
			selected = append(selected, name)
		}
	}
	var features []feature
	if selectsAll(e.config.Features) {
		for _, name := range e.registry.Resolve(selected...) {
			if !contains(selected, name) {
				continue
			}
			g, _ := e.registry.Group(name)
			for _, x := range g.Extractors {
				features = append(features, feature{name, x})
			}
		}
		return features, e.registry.Resolve(selected...)
	}
	seen := make(map[string]bool)
	var groups []string
	for _, name := range e.config.Features {
		group, x, err := e.registry.Lookup(name, selected...)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Feature: name, Kind: KindConfiguration, Err: err})
			continue
		}
		if seen[group+"."+x.Name] {
			continue
		}
		seen[group+"."+x.Name] = true
		features = append(features, feature{group, x})
		groups = append(groups, group)
	}
	return features, e.registry.Resolve(groups...)
}

/*
overrides returns the parameter overrides of the configuration without
those naming values of the extraction context, recording a configuration
failure in the given result for each of them
*/
func (e *Extractor) overrides(result *Result) map[string]map[string]interface{} {
	overrides := make(map[string]map[string]interface{}, len(e.config.Params))
	for _, scope := range sortedKeys(e.config.Params) {
		params := e.config.Params[scope]
		overrides[scope] = make(map[string]interface{}, len(params))
		for _, name := range sortedKeys(params) {
			if mf.IsContextKey(mf.Key(name)) {
				result.Failures = append(result.Failures, Failure{Feature: scope, Kind: KindConfiguration, Err: fmt.Errorf("overriding %s: %v", name, ErrContextOverride)})
				continue
			}
			overrides[scope][name] = params[name]
		}
	}
	return overrides
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
