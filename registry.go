package mfe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pbanos/mfe/group/general"
	"github.com/pbanos/mfe/group/infotheory"
	"github.com/pbanos/mfe/group/landmarking"
	"github.com/pbanos/mfe/group/modelbased"
	"github.com/pbanos/mfe/group/statistical"
	mf "github.com/pbanos/mfe/metafeature"
)

var (
	groupNameRE   = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	routineNameRE = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

/*
Rejection records a routine that was not registered and the reason
*/
type Rejection struct {
	Group   string
	Routine string
	Err     error
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s.%s: %v", r.Group, r.Routine, r.Err)
}

/*
Registry is the catalog of meta-feature groups available for extraction,
holding for every group its verified extraction and precomputation routines
in declaration order. A Registry is immutable once built.
*/
type Registry struct {
	order    []string
	groups   map[string]*mf.Group
	rejected []Rejection
}

/*
NewRegistry takes a logger and a list of groups and returns a Registry
holding them. Routines of the groups are verified: their names must be
lowercase snake_case and unique inside the group, their required parameters
must be either a context key or a key provided by a precomputation of some
group, and precomputations must provide some key. Routines failing the
verification are left out of the registry, logged and available through
Rejected. An error is returned if a group has an invalid or duplicate name.
*/
func NewRegistry(logger Logger, groups ...mf.Group) (*Registry, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	r := &Registry{groups: make(map[string]*mf.Group)}
	for _, g := range groups {
		if !groupNameRE.MatchString(g.Name) {
			return nil, fmt.Errorf("registering group %q: %v", g.Name, ErrInvalidName)
		}
		if _, ok := r.groups[g.Name]; ok {
			return nil, fmt.Errorf("registering group %q: %v", g.Name, ErrDuplicateName)
		}
		r.order = append(r.order, g.Name)
		r.groups[g.Name] = &mf.Group{Name: g.Name, Prerequisites: g.Prerequisites}
	}
	provided := make(map[mf.Key]bool)
	for _, k := range mf.ContextKeys() {
		provided[k] = true
	}
	for _, g := range groups {
		rg := r.groups[g.Name]
		seen := make(map[string]bool)
		for _, p := range g.Precomputations {
			var err error
			switch {
			case !routineNameRE.MatchString(p.Name):
				err = ErrInvalidName
			case seen[p.Name]:
				err = ErrDuplicateName
			case len(p.Provides) == 0:
				err = ErrNothingProvided
			case p.Precompute == nil:
				err = ErrMissingFunction
			}
			if err != nil {
				r.reject(logger, g.Name, p.Name, err)
				continue
			}
			seen[p.Name] = true
			rg.Precomputations = append(rg.Precomputations, p)
			for _, k := range p.Provides {
				provided[k] = true
			}
		}
	}
	for _, g := range groups {
		rg := r.groups[g.Name]
		seen := make(map[string]bool)
		for _, e := range g.Extractors {
			var err error
			switch {
			case !routineNameRE.MatchString(e.Name):
				err = ErrInvalidName
			case seen[e.Name]:
				err = ErrDuplicateName
			case e.Extract == nil:
				err = ErrMissingFunction
			default:
				err = checkParams(e.Params, provided)
			}
			if err != nil {
				r.reject(logger, g.Name, e.Name, err)
				continue
			}
			seen[e.Name] = true
			rg.Extractors = append(rg.Extractors, e)
		}
	}
	return r, nil
}

/*
DefaultRegistry returns a Registry with the built-in groups: general,
statistical, info-theory, model-based and landmarking.
*/
func DefaultRegistry() *Registry {
	r, err := NewRegistry(nil,
		general.Group(),
		statistical.Group(),
		infotheory.Group(),
		modelbased.Group(),
		landmarking.Group(),
	)
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

func checkParams(params []mf.Param, provided map[mf.Key]bool) error {
	for _, p := range params {
		if !p.Optional && !provided[mf.Key(p.Name)] {
			return fmt.Errorf("%s: %v", p.Name, ErrUnprovidedParam)
		}
	}
	return nil
}

func (r *Registry) reject(logger Logger, group, routine string, err error) {
	logger.Logf("Rejecting routine %s of group %s: %v", routine, group, err)
	r.rejected = append(r.rejected, Rejection{group, routine, err})
}

/*
Rejected returns the routines that were not registered
*/
func (r *Registry) Rejected() []Rejection {
	return r.rejected
}

/*
Groups returns the names of the registered groups in registration order
*/
func (r *Registry) Groups() []string {
	return append([]string(nil), r.order...)
}

/*
Group takes the name of a group and returns its registered declaration,
with only the routines that passed verification, and whether it exists.
*/
func (r *Registry) Group(name string) (mf.Group, bool) {
	g, ok := r.groups[name]
	if !ok {
		return mf.Group{}, false
	}
	return *g, true
}

/*
Features returns the names of the extraction routines of the given group in
declaration order
*/
func (r *Registry) Features(group string) []string {
	g, ok := r.groups[group]
	if !ok {
		return nil
	}
	names := make([]string, len(g.Extractors))
	for i, e := range g.Extractors {
		names[i] = e.Name
	}
	return names
}

/*
Precomputations returns the names of the precomputation routines of the
given group in declaration order
*/
func (r *Registry) Precomputations(group string) []string {
	g, ok := r.groups[group]
	if !ok {
		return nil
	}
	names := make([]string, len(g.Precomputations))
	for i, p := range g.Precomputations {
		names[i] = p.Name
	}
	return names
}

/*
Lookup takes the name of a feature, either qualified as group.feature or
unqualified, and optionally the groups to search it in, and returns the
group and extraction routine it refers to. Unqualified names are searched in
the given groups, or in every group if none is given, and must be found in
exactly one of them: ErrUnknownFeature or ErrAmbiguousFeature are returned
otherwise.
*/
func (r *Registry) Lookup(name string, within ...string) (string, mf.Extractor, error) {
	if i := strings.Index(name, "."); i >= 0 {
		group, feature := name[:i], name[i+1:]
		if g, ok := r.groups[group]; ok {
			for _, e := range g.Extractors {
				if e.Name == feature {
					return group, e, nil
				}
			}
		}
		return "", mf.Extractor{}, ErrUnknownFeature
	}
	if len(within) == 0 {
		within = r.order
	}
	var found []string
	var extractor mf.Extractor
	for _, group := range r.ordered(within) {
		for _, e := range r.groups[group].Extractors {
			if e.Name == name {
				found = append(found, group)
				extractor = e
			}
		}
	}
	switch len(found) {
	case 0:
		return "", mf.Extractor{}, ErrUnknownFeature
	case 1:
		return found[0], extractor, nil
	}
	return "", mf.Extractor{}, fmt.Errorf("%v: %s", ErrAmbiguousFeature, strings.Join(found, ", "))
}

/*
Resolve takes a list of group names and returns the registered groups among
them together with their prerequisites, recursively, without duplicates and
in registration order. Unknown names, empty names and cycles in the
prerequisites are tolerated. Resolving a list that already includes all its
prerequisites returns the same groups.
*/
func (r *Registry) Resolve(groups ...string) []string {
	visited := make(map[string]bool)
	pending := append([]string(nil), groups...)
	for len(pending) > 0 {
		name := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		g, ok := r.groups[name]
		if !ok || visited[name] {
			continue
		}
		visited[name] = true
		pending = append(pending, g.Prerequisites...)
	}
	var result []string
	for _, name := range r.order {
		if visited[name] {
			result = append(result, name)
		}
	}
	return result
}

// ordered returns the known groups among the given ones in registration order
func (r *Registry) ordered(groups []string) []string {
	wanted := make(map[string]bool, len(groups))
	for _, g := range groups {
		wanted[g] = true
	}
	var result []string
	for _, name := range r.order {
		if wanted[name] {
			result = append(result, name)
		}
	}
	return result
}
