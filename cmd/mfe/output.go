package main

import (
	"fmt"
	"io"

	"github.com/pbanos/mfe"
)

// writeResult writes the entries of a result to w and its failures to failures
func writeResult(w, failures io.Writer, result *mfe.Result) error {
	for _, e := range result.Entries {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return fmt.Errorf("writing %s: %v", e.QualifiedName(), err)
		}
	}
	for _, f := range result.Failures {
		fmt.Fprintf(failures, "failed %v\n", f)
	}
	fmt.Fprintf(failures, "random state %d\n", result.RandomState)
	return nil
}
