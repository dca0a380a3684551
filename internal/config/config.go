// Package config loads the linter configuration: diagnostic priority levels
// and the knobs of the plugin layout (marker base types, directories, display
// limits).
//
// The historical file is linter.config.json; oxmerge.toml and oxmerge.yaml
// carry the same fields in snake_case.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalid marks a configuration that decoded but makes no sense.
var ErrInvalid = errors.New("invalid config")

// PriorityLevel is an ordered bucket of diagnostic ids.
type PriorityLevel struct {
	Level int      `json:"Level" toml:"level" yaml:"level"`
	Name  string   `json:"Name" toml:"name" yaml:"name"`
	Rules []string `json:"Rules" toml:"rules" yaml:"rules"`
}

type Config struct {
	PriorityLevels []PriorityLevel `json:"PriorityLevels" toml:"priority_levels" yaml:"priority_levels"`
	// MarkerBases are substrings that identify the plugin base class.
	MarkerBases []string `json:"MarkerBases,omitempty" toml:"marker_bases" yaml:"marker_bases"`
	// MarkerDir is the path segment that roots the plugin tree.
	MarkerDir string `json:"MarkerDir,omitempty" toml:"marker_dir" yaml:"marker_dir"`
	// OutputDir receives merged files, relative to the project directory.
	OutputDir    string `json:"OutputDir,omitempty" toml:"output_dir" yaml:"output_dir"`
	DisplayLimit int    `json:"DisplayLimit,omitempty" toml:"display_limit" yaml:"display_limit"`
	ContextLines int    `json:"ContextLines,omitempty" toml:"context_lines" yaml:"context_lines"`
}

const (
	DefaultMarkerDir    = "plugins"
	DefaultOutputDir    = "build"
	DefaultDisplayLimit = 15
	DefaultContextLines = 2
)

// DefaultMarkerBases are the two uMod plugin base classes.
var DefaultMarkerBases = []string{"RustPlugin", "CovalencePlugin"}

// Default returns a config without priority levels: every diagnostic lands
// in the fallback bucket.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.MarkerBases) == 0 {
		c.MarkerBases = slices.Clone(DefaultMarkerBases)
	}
	if strings.TrimSpace(c.MarkerDir) == "" {
		c.MarkerDir = DefaultMarkerDir
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.DisplayLimit == 0 {
		c.DisplayLimit = DefaultDisplayLimit
	}
	if c.ContextLines == 0 {
		c.ContextLines = DefaultContextLines
	}
}

// Validate reports every problem at once, each wrapped with ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[int]string, len(c.PriorityLevels))
	for _, lvl := range c.PriorityLevels {
		if prev, ok := seen[lvl.Level]; ok {
			errs = append(errs, fmt.Errorf("%w: priority level %d declared twice (%q and %q)", ErrInvalid, lvl.Level, prev, lvl.Name))
			continue
		}
		seen[lvl.Level] = lvl.Name
	}
	for _, m := range c.MarkerBases {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("%w: empty marker base", ErrInvalid))
			break
		}
	}
	if c.DisplayLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: display_limit must not be negative", ErrInvalid))
	}
	if c.ContextLines < 0 {
		errs = append(errs, fmt.Errorf("%w: context_lines must not be negative", ErrInvalid))
	}
	if strings.ContainsAny(c.MarkerDir, `/\`) {
		errs = append(errs, fmt.Errorf("%w: marker_dir must be a single path segment", ErrInvalid))
	}
	return errors.Join(errs...)
}

// SortedLevels returns the priority levels ordered by Level; equal levels
// keep file order.
func (c *Config) SortedLevels() []PriorityLevel {
	levels := slices.Clone(c.PriorityLevels)
	slices.SortStableFunc(levels, func(a, b PriorityLevel) int {
		return cmp.Compare(a.Level, b.Level)
	})
	return levels
}
