package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/mfe"
	"github.com/pbanos/mfe/redisstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"
)

type extractCmdConfig struct {
	datasetConfig
	configInput   string
	groups        []string
	features      []string
	summary       []string
	raw           bool
	randomState   int64
	output        string
	redisAddr     string
	redisPrefix   string
	name          string
	metricsOutput string
}

func extractCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &extractCmdConfig{datasetConfig: datasetConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract meta-features from a dataset",
		Long:  `Extract the selected meta-features from a dataset and print them, one per line, with their group-qualified name and value separated by a tab.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			cfg, err := config.Config(cmd)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ctx := context.Background()
			d, err := config.Dataset(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			reg := prometheus.NewRegistry()
			extractor, err := mfe.New(*cfg, mfe.WithLogger(config.rootCmdConfig), mfe.WithMetrics(mfe.NewMetrics(reg)))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			result, err := extractor.Extract(ctx, d)
			if err != nil {
				fmt.Fprintf(os.Stderr, "extracting meta-features: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Done")
			err = config.Output(result)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			if config.redisAddr != "" {
				id, err := config.Store(ctx, result)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(7)
				}
				fmt.Fprintf(os.Stderr, "Result stored with id %s\n", id)
			}
			if config.metricsOutput != "" {
				config.Logf("Writing metrics to %s...", config.metricsOutput)
				err = prometheus.WriteToTextfile(config.metricsOutput, reg)
				if err != nil {
					fmt.Fprintf(os.Stderr, "writing metrics: %v\n", err)
					os.Exit(8)
				}
			}
		},
	}
	config.flags(cmd, "the dataset to extract meta-features from")
	config.transformFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.configInput), "config", "c", "", "path to a YML file with the extraction configuration")
	cmd.PersistentFlags().StringSliceVarP(&(config.groups), "groups", "g", nil, "groups of meta-features to extract (defaults to all)")
	cmd.PersistentFlags().StringSliceVarP(&(config.features), "features", "f", nil, "meta-features to extract, qualified with their group or not (defaults to all in the selected groups)")
	cmd.PersistentFlags().StringSliceVarP(&(config.summary), "summary", "s", nil, fmt.Sprintf("summary functions for vector-valued meta-features, among %s (defaults to mean,sd)", strings.Join(mfe.Summaries(), ", ")))
	cmd.PersistentFlags().BoolVar(&(config.raw), "raw", false, "output vector-valued meta-features without summarizing them")
	cmd.PersistentFlags().Int64VarP(&(config.randomState), "random-state", "r", 0, "seed for randomized meta-features (defaults to a random seed reported with the result)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the meta-features will be written (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis", "", "address of a redis server to store the result on")
	cmd.PersistentFlags().StringVar(&(config.redisPrefix), "redis-prefix", "mfe", "prefix for the keys of results stored on redis")
	cmd.PersistentFlags().StringVar(&(config.name), "name", "", "name to store the result with (defaults to the input)")
	cmd.PersistentFlags().StringVar(&(config.metricsOutput), "metrics-output", "", "path to a file to which the extraction metrics will be written in the Prometheus text format")
	return cmd
}

func (ecc *extractCmdConfig) Validate() error {
	if err := ecc.datasetConfig.Validate(); err != nil {
		return err
	}
	if ecc.raw && len(ecc.summary) > 0 {
		return fmt.Errorf("cannot set both raw and summary flags at the same time")
	}
	return nil
}

// Config returns the extraction configuration from the config file, if any, and the flags
func (ecc *extractCmdConfig) Config(cmd *cobra.Command) (*mfe.Config, error) {
	cfg := mfe.DefaultConfig()
	if ecc.configInput != "" {
		ecc.Logf("Reading extraction configuration from %s...", ecc.configInput)
		f, err := os.Open(ecc.configInput)
		if err != nil {
			return nil, fmt.Errorf("opening configuration: %v", err)
		}
		defer f.Close()
		c, err := mfe.ReadConfig(f)
		if err != nil {
			return nil, err
		}
		cfg = *c
	}
	if len(ecc.groups) > 0 {
		cfg.Groups = ecc.groups
	}
	if len(ecc.features) > 0 {
		cfg.Features = ecc.features
	}
	if len(ecc.summary) > 0 {
		cfg.Summary = ecc.summary
	}
	if ecc.raw {
		cfg.Summary = nil
	}
	if cmd.Flags().Changed("random-state") {
		rs := ecc.randomState
		cfg.RandomState = &rs
	}
	return &cfg, nil
}

func (ecc *extractCmdConfig) Output(result *mfe.Result) error {
	var w io.Writer = os.Stdout
	if ecc.output != "" {
		f, err := os.Create(ecc.output)
		if err != nil {
			return fmt.Errorf("creating output: %v", err)
		}
		defer f.Close()
		w = f
	}
	return writeResult(w, os.Stderr, result)
}

func (ecc *extractCmdConfig) Store(ctx context.Context, result *mfe.Result) (string, error) {
	ecc.Logf("Storing result on redis at %s...", ecc.redisAddr)
	store := redisstore.New(redis.NewClient(&redis.Options{Addr: ecc.redisAddr}), ecc.redisPrefix, nil)
	defer store.Close(ctx)
	name := ecc.name
	if name == "" {
		name = ecc.input
	}
	id, err := store.Save(ctx, name, result)
	if err != nil {
		return "", fmt.Errorf("storing result: %v", err)
	}
	return id, nil
}
