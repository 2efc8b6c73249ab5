package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coregx/sere"
)

// ScanConfig is the YAML configuration of the scan command:
//
//	pattern: "login ; true[*] ; error"
//	target: extended
//	ignore_case: true
//	predicates:
//	  login: ["session opened"]
//	  error: ["ERROR", "FATAL"]
type ScanConfig struct {
	Pattern    string              `yaml:"pattern"`
	Target     string              `yaml:"target"`
	IgnoreCase bool                `yaml:"ignore_case"`
	Predicates map[string][]string `yaml:"predicates"`
	Limits     ScanLimits          `yaml:"limits"`
}

// ScanLimits overrides compiler limits; zero keeps the default.
type ScanLimits struct {
	MaxAtomics   int `yaml:"max_atomics"`
	MaxNFAStates int `yaml:"max_nfa_states"`
	MaxDFAStates int `yaml:"max_dfa_states"`
}

// LoadScanConfig reads and validates a scan configuration. Unknown keys are
// rejected.
func LoadScanConfig(path string) (*ScanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg ScanConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Target == "" {
		cfg.Target = "extended"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the fields that do not depend on the compiled pattern.
func (c *ScanConfig) Validate() error {
	if c.Pattern == "" {
		return errors.New("pattern is required")
	}
	if len(c.Predicates) == 0 {
		return errors.New("predicates is required")
	}
	if c.Limits.MaxAtomics < 0 || c.Limits.MaxNFAStates < 0 || c.Limits.MaxDFAStates < 0 {
		return errors.New("limits must not be negative")
	}
	return nil
}

// apply copies the non-zero limits into config.
func (l ScanLimits) apply(config *sere.Config) {
	if l.MaxAtomics > 0 {
		config.MaxAtomics = l.MaxAtomics
	}
	if l.MaxNFAStates > 0 {
		config.MaxNFAStates = l.MaxNFAStates
	}
	if l.MaxDFAStates > 0 {
		config.MaxDFAStates = l.MaxDFAStates
	}
}
