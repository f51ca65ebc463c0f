// Package toolchain loads the optional tea.hcl workspace file, which
// configures the compiler/archiver executables and per-profile flags.
//
// Expressions in the file may reference the `os` and `arch` variables of the
// build target, e.g.
//
//	profile "release" {
//	  cflags = os == "windows" ? ["-O2"] : ["-O2", "-fPIC"]
//	}
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/tea/internal/feature"
)

// FileName is the optional toolchain file at the workspace root.
const FileName = "tea.hcl"

// Tools configures the backend executables and workspace-wide link flags.
type Tools struct {
	CC      string   `hcl:"cc,optional"`
	AR      string   `hcl:"ar,optional"`
	LDFlags []string `hcl:"ldflags,optional"`
}

// Profile is one named build profile.
type Profile struct {
	Name   string   `hcl:"name,label"`
	CFlags []string `hcl:"cflags,optional"`
}

// Config is the decoded tea.hcl.
type Config struct {
	Tools    *Tools    `hcl:"toolchain,block"`
	Profiles []Profile `hcl:"profile,block"`
}

// defaultCFlags mirror the built-in debug and release profiles; a tea.hcl
// profile block of the same name replaces them entirely.
var defaultCFlags = map[string][]string{
	"debug":   {"-g"},
	"release": {"-O2"},
}

// defaultLDFlags is the historical default link set.
var defaultLDFlags = []string{"-lm"}

// Load decodes dir/tea.hcl for the given platform. A missing file yields the
// built-in defaults; a malformed file is an error.
func Load(dir string, platform feature.Platform) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}

	evalCtx := EvalContext(platform)
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", path, diags)
	}
	return &cfg, nil
}

// EvalContext exposes the build target to tea.hcl expressions.
func EvalContext(platform feature.Platform) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"os":   cty.StringVal(platform.OS),
			"arch": cty.StringVal(platform.Arch),
		},
	}
}

// CC returns the configured compiler executable, empty when unset.
func (c *Config) CC() string {
	if c.Tools == nil {
		return ""
	}
	return c.Tools.CC
}

// AR returns the configured archiver executable, empty when unset.
func (c *Config) AR() string {
	if c.Tools == nil {
		return ""
	}
	return c.Tools.AR
}

// LDFlags returns the link flags for every binary leaf.
func (c *Config) LDFlags() []string {
	if c.Tools != nil && c.Tools.LDFlags != nil {
		return c.Tools.LDFlags
	}
	return defaultLDFlags
}

// CFlags returns the compiler flags of the named profile, falling back to the
// built-in defaults for unknown names.
func (c *Config) CFlags(profile string) []string {
	for _, p := range c.Profiles {
		if p.Name == profile {
			return p.CFlags
		}
	}
	return defaultCFlags[profile]
}
