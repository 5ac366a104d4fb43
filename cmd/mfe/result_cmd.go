package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/mfe/redisstore"
	"github.com/spf13/cobra"
	"gopkg.in/redis.v5"
)

type resultCmdConfig struct {
	*rootCmdConfig
	redisAddr   string
	redisPrefix string
}

func resultCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &resultCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "result ID",
		Short: "Print a stored extraction result",
		Long:  `Print an extraction result stored on redis by the extract command.`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			store := redisstore.New(redis.NewClient(&redis.Options{Addr: config.redisAddr}), config.redisPrefix, nil)
			defer store.Close(ctx)
			config.Logf("Loading result %s from redis at %s...", args[0], config.redisAddr)
			record, err := store.Load(ctx, args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if record == nil {
				fmt.Fprintf(os.Stderr, "result %s not found\n", args[0])
				os.Exit(2)
			}
			config.Logf("Result %s of %s", record.ID, record.Name)
			if err = writeResult(os.Stdout, os.Stderr, record.Result); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis", "localhost:6379", "address of the redis server the result is stored on")
	cmd.PersistentFlags().StringVar(&(config.redisPrefix), "redis-prefix", "mfe", "prefix for the keys of results stored on redis")
	return cmd
}
