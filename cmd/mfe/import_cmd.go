package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/mfe/attribute"
	"github.com/pbanos/mfe/dataset"
	"github.com/pbanos/mfe/dataset/csv"
	"github.com/pbanos/mfe/dataset/mongodataset"
	"github.com/pbanos/mfe/dataset/sqldataset"
	"github.com/pbanos/mfe/dataset/sqldataset/pgadapter"
	"github.com/pbanos/mfe/dataset/sqldataset/sqlite3adapter"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

type importCmdConfig struct {
	datasetConfig
	output string
}

func importCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &importCmdConfig{datasetConfig: datasetConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV dataset into a database",
		Long:  `Import the samples of a CSV dataset into an SQLite3, PostgreSQL or MongoDB database from which meta-features can later be extracted.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			attributes, label, err := config.Metadata()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			samples, errs := config.InputStream(ctx, attributes, label)
			count, err := config.Write(ctx, attributes, label, samples)
			if err != nil {
				cancel()
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			if err = <-errs; err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Imported %d samples", count)
		},
	}
	config.flags(cmd, "the dataset to import")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to an SQLite3 (.db) file, or a PostgreSQL DB or MongoDB connection URL to import the dataset into (required)")
	return cmd
}

func (icc *importCmdConfig) Validate() error {
	if err := icc.datasetConfig.Validate(); err != nil {
		return err
	}
	if icc.output == "" {
		return fmt.Errorf("required output flag was not set")
	}
	if sourceFor(icc.output) == csvSource {
		return fmt.Errorf("output %s is not a database", icc.output)
	}
	if icc.input != "" && sourceFor(icc.input) != csvSource {
		return fmt.Errorf("input %s is not a CSV file", icc.input)
	}
	return nil
}

// InputStream sends the samples of the CSV input through a channel
func (icc *importCmdConfig) InputStream(ctx context.Context, attributes []attribute.Attribute, label string) (<-chan dataset.Sample, <-chan error) {
	sampleStream := make(chan dataset.Sample)
	errStream := make(chan error, 1)
	go func() {
		defer close(errStream)
		defer close(sampleStream)
		f := os.Stdin
		if icc.input != "" {
			var err error
			f, err = os.Open(icc.input)
			if err != nil {
				errStream <- fmt.Errorf("reading input dataset from %s: %v", icc.input, err)
				return
			}
		}
		defer f.Close()
		err := csv.ReadBySample(f, attributes, label, func(i int, s dataset.Sample) (bool, error) {
			select {
			case <-ctx.Done():
				return false, nil
			case sampleStream <- s:
			}
			return true, nil
		})
		if err != nil {
			errStream <- err
		}
	}()
	return sampleStream, errStream
}

// Write stores the samples on the output database and returns how many were stored
func (icc *importCmdConfig) Write(ctx context.Context, attributes []attribute.Attribute, label string, samples <-chan dataset.Sample) (int, error) {
	var all []dataset.Sample
	for s := range samples {
		all = append(all, s)
	}
	switch sourceFor(icc.output) {
	case mongoDBSource:
		icc.Logf("Connecting to MongoDB at %s to import dataset...", icc.output)
		session, err := mgo.Dial(icc.output)
		if err != nil {
			return 0, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		store, err := mongodataset.Open(ctx, session, attributes, label)
		if err != nil {
			return 0, err
		}
		return store.Write(ctx, all)
	case postgreSQLSource:
		icc.Logf("Creating PostgreSQL adapter for url %s to import dataset...", icc.output)
		adapter, err := pgadapter.New(icc.output)
		if err != nil {
			return 0, err
		}
		defer adapter.Close()
		return sqldataset.Write(ctx, adapter, attributes, label, all)
	}
	icc.Logf("Creating SQLite3 adapter for file %s to import dataset...", icc.output)
	adapter, err := sqlite3adapter.New(icc.output)
	if err != nil {
		return 0, err
	}
	defer adapter.Close()
	return sqldataset.Write(ctx, adapter, attributes, label, all)
}
