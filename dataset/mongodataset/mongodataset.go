/*
Package mongodataset provides a store of samples that uses a MongoDB
database as backend and from which datasets can be read for extraction.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/mfe/attribute"
	"github.com/pbanos/mfe/dataset"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Store is a collection of samples to which samples can be added
and from which samples can be sequentially read
*/
type Store interface {
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
	Count(context.Context) (int, error)
	Dataset(context.Context, dataset.Options) (*dataset.Dataset, error)
}

type mongoStore struct {
	session    *mgo.Session
	attributes []attribute.Attribute
	label      string
}

const (
	samplesCollectionName = "samples"
)

/*
Open takes a context, a MongoDB database session, a slice of attributes and
the name of the label and returns a Store that works on the samples
collection of the default database for that session, or an error if the
names are not valid field names or the collection cannot be indexed. The
label may be empty for unlabelled samples.
*/
func Open(ctx context.Context, session *mgo.Session, attributes []attribute.Attribute, label string) (Store, error) {
	ms := &mongoStore{session, attributes, label}
	err := ms.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (ms *mongoStore) Count(context.Context) (int, error) {
	return ms.samplesCollection().Find(nil).Count()
}

func (ms *mongoStore) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(samples))
	for i, s := range samples {
		doc := make(bson.M)
		for _, a := range ms.fields() {
			value, err := s.ValueFor(a)
			if err != nil {
				return 0, fmt.Errorf("obtaining value of %s for sample %d: %v", a.Name(), i, err)
			}
			if value != nil {
				doc[a.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := ms.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (ms *mongoStore) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		iter := ms.samplesCollection().Find(nil).Sort("_id").Iter()
		defer iter.Close()
		var doc bson.M
		for iter.Next(&doc) {
			s, err := ms.sample(doc)
			if err != nil {
				errs <- err
				return
			}
			doc = nil
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case samples <- s:
			}
		}
		if err := iter.Err(); err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

/*
Dataset reads every sample in the store and returns the dataset.Dataset
built with them and the given options, or an error.
*/
func (ms *mongoStore) Dataset(ctx context.Context, opts dataset.Options) (*dataset.Dataset, error) {
	var samples []dataset.Sample
	sampleChan, errs := ms.Read(ctx)
	for sample := range sampleChan {
		samples = append(samples, sample)
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	var label attribute.Attribute
	if ms.label != "" {
		label = attribute.NewDiscrete(ms.label, nil)
	}
	return dataset.New(ms.attributes, label, samples, opts)
}

// sample returns the sample for a document with numbers of continuous attributes as float64
func (ms *mongoStore) sample(doc bson.M) (dataset.Sample, error) {
	values := make(map[string]interface{}, len(ms.attributes)+1)
	for _, a := range ms.fields() {
		v, ok := doc[a.Name()]
		if !ok || v == nil {
			continue
		}
		if attribute.IsDiscrete(a) {
			values[a.Name()] = v
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("reading %s of document %v: %v", a.Name(), doc["_id"], err)
		}
		values[a.Name()] = f
	}
	return dataset.NewSample(values), nil
}

func toFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T value", v)
}

func (ms *mongoStore) fields() []attribute.Attribute {
	if ms.label == "" {
		return ms.attributes
	}
	return append(append([]attribute.Attribute{}, ms.attributes...), attribute.NewDiscrete(ms.label, nil))
}

func checkName(name string) error {
	if name == "_id" {
		return fmt.Errorf("invalid attribute name %q: reserved collection field", "_id")
	}
	if name == "" {
		return fmt.Errorf("invalid attribute name %q: empty", name)
	}
	if strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid attribute name %q: contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}

func (ms *mongoStore) ensureIndexes() error {
	for _, a := range ms.fields() {
		if err := checkName(a.Name()); err != nil {
			return err
		}
	}
	for _, a := range ms.fields() {
		index := mgo.Index{
			Key:        []string{a.Name()},
			Background: true,
			Sparse:     true,
		}
		err := ms.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ms *mongoStore) samplesCollection() *mgo.Collection {
	return ms.session.DB("").C(samplesCollectionName)
}
