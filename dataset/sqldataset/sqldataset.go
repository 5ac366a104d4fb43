package sqldataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbanos/mfe/attribute"
	"github.com/pbanos/mfe/dataset"
)

type layout struct {
	columns    map[string]string
	discrete   []string
	continuous []string
}

func newLayout(a Adapter, attributes []attribute.Attribute, label string) (*layout, error) {
	l := &layout{columns: make(map[string]string)}
	for _, attr := range attributes {
		c, err := a.ColumnName(attr.Name())
		if err != nil {
			return nil, err
		}
		l.columns[attr.Name()] = c
		if attribute.IsDiscrete(attr) {
			l.discrete = append(l.discrete, c)
		} else {
			l.continuous = append(l.continuous, c)
		}
	}
	if label != "" {
		c, err := a.ColumnName(label)
		if err != nil {
			return nil, err
		}
		if _, ok := l.columns[label]; ok {
			return nil, fmt.Errorf("label %s is also an attribute", label)
		}
		l.columns[label] = c
		l.discrete = append(l.discrete, c)
	}
	return l, nil
}

/*
Write takes a context, an Adapter, a slice of attributes, the name of the
label and a slice of samples and stores the samples on the database the
Adapter works on, creating the tables if needed. It returns the number of
samples stored or an error. The label may be empty for unlabelled samples.
*/
func Write(ctx context.Context, a Adapter, attributes []attribute.Attribute, label string, samples []dataset.Sample) (int, error) {
	l, err := newLayout(a, attributes, label)
	if err != nil {
		return 0, err
	}
	if err = a.CreateTables(ctx, l.discrete, l.continuous); err != nil {
		return 0, err
	}
	all := attributes
	if label != "" {
		all = append(append([]attribute.Attribute{}, attributes...), attribute.NewDiscrete(label, nil))
	}
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	distinct := make(map[string]bool)
	for i, s := range samples {
		rs := make(map[string]interface{}, len(all))
		for _, attr := range all {
			v, err := s.ValueFor(attr)
			if err != nil {
				return 0, fmt.Errorf("obtaining value of %s for sample %d: %v", attr.Name(), i, err)
			}
			if v == nil {
				continue
			}
			if vs, ok := v.(string); ok {
				distinct[vs] = true
			}
			rs[l.columns[attr.Name()]] = v
		}
		rawSamples = append(rawSamples, rs)
	}
	values := make([]string, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Strings(values)
	if _, err = a.AddDiscreteValues(ctx, values); err != nil {
		return 0, fmt.Errorf("storing discrete values: %v", err)
	}
	ids, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing discrete values: %v", err)
	}
	idFor := make(map[string]int, len(ids))
	for id, v := range ids {
		idFor[v] = id
	}
	for _, rs := range rawSamples {
		for _, c := range l.discrete {
			if v, ok := rs[c].(string); ok {
				rs[c] = idFor[v]
			}
		}
	}
	return a.AddSamples(ctx, rawSamples, l.discrete, l.continuous)
}

/*
Read takes a context, an Adapter, a slice of attributes, the name of the
label and dataset.Options and returns the dataset.Dataset built with the
samples stored on the database the Adapter works on, or an error. The label
may be empty to read an unlabelled dataset.
*/
func Read(ctx context.Context, a Adapter, attributes []attribute.Attribute, label string, opts dataset.Options) (*dataset.Dataset, error) {
	l, err := newLayout(a, attributes, label)
	if err != nil {
		return nil, err
	}
	discreteValues, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discrete values: %v", err)
	}
	var samples []dataset.Sample
	err = a.IterateOnSamples(ctx, l.discrete, l.continuous, func(i int, rs map[string]interface{}) (bool, error) {
		values := make(map[string]interface{}, len(l.columns))
		for name, c := range l.columns {
			v, ok := rs[c]
			if !ok {
				continue
			}
			if id, ok := v.(int); ok {
				s, ok := discreteValues[id]
				if !ok {
					return false, fmt.Errorf("sample %d references unknown discrete value %d for %s", i, id, name)
				}
				v = s
			}
			values[name] = v
		}
		samples = append(samples, dataset.NewSample(values))
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	var labelAttribute attribute.Attribute
	if label != "" {
		labelAttribute = attribute.NewDiscrete(label, nil)
	}
	return dataset.New(attributes, labelAttribute, samples, opts)
}
