package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/mfe"
	"github.com/spf13/cobra"
)

func groupsCmd(rootConfig *rootCmdConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "groups [GROUP]...",
		Short: "List the groups of meta-features",
		Long:  `List the available groups of meta-features, or the given ones, with the features and precomputations they provide.`,
		Run: func(cmd *cobra.Command, args []string) {
			registry := mfe.DefaultRegistry()
			for _, r := range registry.Rejected() {
				rootConfig.Logf("%v", r)
			}
			if err := listGroups(os.Stdout, registry, args); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
}

func listGroups(w io.Writer, registry *mfe.Registry, groups []string) error {
	if len(groups) == 0 {
		groups = registry.Groups()
	}
	for _, g := range groups {
		if _, ok := registry.Group(g); !ok {
			return fmt.Errorf("%v: %s", mfe.ErrUnknownGroup, g)
		}
		fmt.Fprintf(w, "%s\n", g)
		fmt.Fprintf(w, "\tfeatures: %s\n", strings.Join(registry.Features(g), ", "))
		if ps := registry.Precomputations(g); len(ps) > 0 {
			fmt.Fprintf(w, "\tprecomputations: %s\n", strings.Join(ps, ", "))
		}
	}
	return nil
}
