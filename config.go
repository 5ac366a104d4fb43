package mfe

import (
	"fmt"
	"io"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// All selects every registered group or feature
const All = "all"

// GlobalScope is the Params key for overrides applying to every routine
const GlobalScope = "*"

/*
Config holds the configuration of an extraction.

Groups holds the names of the groups to extract; an empty list or one
including "all" selects every group. Features holds the names of the
features to extract, qualified with their group or not; an empty list or one
including "all" selects every feature of the selected groups. When specific
features are given, unqualified names are looked up in the selected groups
and the entries of the result follow their order.

RandomState seeds every randomized routine. When nil, a seed is drawn for
every extraction and reported in its result.

Params holds parameter overrides by feature name (qualified or not), or
GlobalScope for overrides that apply to every feature and precomputation.

Summary holds the names of the summary functions vector-valued features are
reduced with. When empty, vectors are kept raw.
*/
type Config struct {
	Groups      []string                          `yaml:"groups"`
	Features    []string                          `yaml:"features"`
	RandomState *int64                            `yaml:"random_state"`
	Params      map[string]map[string]interface{} `yaml:"params"`
	Summary     []string                          `yaml:"summary"`
}

/*
DefaultConfig returns a Config selecting every feature of every group,
summarized with their mean and standard deviation
*/
func DefaultConfig() Config {
	return Config{Summary: []string{"mean", "sd"}}
}

/*
ReadConfig takes an io.Reader with a YAML document and returns the Config
it describes or an error if it cannot be read or parsed.
*/
func ReadConfig(r io.Reader) (*Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %v", err)
	}
	c := &Config{}
	err = yaml.Unmarshal(b, c)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %v", err)
	}
	return c, nil
}

func selectsAll(names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if n == All {
			return true
		}
	}
	return false
}
