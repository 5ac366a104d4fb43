package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/mfe/attribute"
	"github.com/pbanos/mfe/dataset"
	"github.com/pbanos/mfe/dataset/csv"
	"github.com/pbanos/mfe/dataset/mongodataset"
	"github.com/pbanos/mfe/dataset/sqldataset"
	"github.com/pbanos/mfe/dataset/sqldataset/pgadapter"
	"github.com/pbanos/mfe/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/mfe/dataset/yaml"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

type source int

const (
	csvSource source = iota
	sqlite3Source
	postgreSQLSource
	mongoDBSource
)

// sourceFor returns the kind of backend a dataset location points to
func sourceFor(location string) source {
	switch {
	case strings.HasPrefix(location, "postgresql://"), strings.HasPrefix(location, "postgres://"):
		return postgreSQLSource
	case strings.HasPrefix(location, "mongodb://"):
		return mongoDBSource
	case strings.HasSuffix(location, ".db"):
		return sqlite3Source
	}
	return csvSource
}

type datasetConfig struct {
	*rootCmdConfig
	input         string
	metadataInput string
	label         string
	noCategorical bool
	noNumeric     bool
	bins          int
}

func (dc *datasetConfig) flags(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().StringVarP(&(dc.input), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB or MongoDB connection URL with "+usage+" (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(dc.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the attributes available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(dc.label), "label", "l", "", "name of the attribute holding the class label (defaults to the label in the metadata, if any)")
}

func (dc *datasetConfig) transformFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&(dc.noCategorical), "no-one-hot", false, "leave discrete attributes out of the numeric view instead of one-hot encoding them")
	cmd.PersistentFlags().BoolVar(&(dc.noNumeric), "no-discretize", false, "leave continuous attributes out of the categorical view instead of discretizing them")
	cmd.PersistentFlags().IntVar(&(dc.bins), "bins", 0, "number of bins to discretize continuous attributes with (defaults to 0: Sturges' rule)")
}

func (dc *datasetConfig) Validate() error {
	if dc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if dc.bins < 0 {
		return fmt.Errorf("bins flag must not be negative")
	}
	return nil
}

func (dc *datasetConfig) options() dataset.Options {
	return dataset.Options{
		TransformCategorical: !dc.noCategorical,
		TransformNumeric:     !dc.noNumeric,
		Bins:                 dc.bins,
	}
}

// Metadata reads the metadata and returns the attributes and label to read the input with
func (dc *datasetConfig) Metadata() ([]attribute.Attribute, string, error) {
	dc.Logf("Reading attributes from metadata at %s...", dc.metadataInput)
	md, err := yaml.ReadFile(dc.metadataInput)
	if err != nil {
		return nil, "", err
	}
	if dc.label == "" || dc.label == md.Label {
		return md.Attributes, md.Label, nil
	}
	var attributes []attribute.Attribute
	for _, a := range md.Attributes {
		if a.Name() != dc.label {
			attributes = append(attributes, a)
		}
	}
	if len(attributes) == len(md.Attributes) {
		return nil, "", fmt.Errorf("label %s is not a declared feature", dc.label)
	}
	if md.Label != "" {
		return nil, "", fmt.Errorf("label %s conflicts with label %s in the metadata", dc.label, md.Label)
	}
	return attributes, dc.label, nil
}

// Dataset reads the input into a dataset
func (dc *datasetConfig) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	attributes, label, err := dc.Metadata()
	if err != nil {
		return nil, err
	}
	switch sourceFor(dc.input) {
	case postgreSQLSource:
		dc.Logf("Creating PostgreSQL adapter for url %s to read dataset...", dc.input)
		adapter, err := pgadapter.New(dc.input)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.Read(ctx, adapter, attributes, label, dc.options())
	case sqlite3Source:
		dc.Logf("Creating SQLite3 adapter for file %s to read dataset...", dc.input)
		adapter, err := sqlite3adapter.New(dc.input)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.Read(ctx, adapter, attributes, label, dc.options())
	case mongoDBSource:
		dc.Logf("Connecting to MongoDB at %s to read dataset...", dc.input)
		session, err := mgo.Dial(dc.input)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		store, err := mongodataset.Open(ctx, session, attributes, label)
		if err != nil {
			return nil, err
		}
		return store.Dataset(ctx, dc.options())
	}
	if dc.input == "" {
		dc.Logf("Reading dataset from STDIN...")
	} else {
		dc.Logf("Opening %s to read dataset...", dc.input)
	}
	return csv.ReadFile(dc.input, attributes, label, dc.options())
}
