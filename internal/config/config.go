package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete svnpush configuration.
type Config struct {
	Git         GitConfig         `yaml:"git"`
	SVN         SVNConfig         `yaml:"svn"`
	Subprojects map[string]string `yaml:"subprojects"`
}

// GitConfig configures the source git history.
type GitConfig struct {
	// Dir is the path of the local git checkout changesets are read from.
	Dir string `yaml:"dir"`
	// Upstream is the ref marking the last already-ported revision; the
	// revisions in Upstream..HEAD are pushed.
	Upstream string `yaml:"upstream"`
}

// SVNConfig configures the target Subversion side.
type SVNConfig struct {
	// Workdir is the root of the svn checkout containing every subproject
	// subtree. It is an exclusively-owned mutable resource for the
	// duration of a run.
	Workdir string `yaml:"workdir"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// expandEnv expands environment variables in all string fields.
func (c *Config) expandEnv() {
	c.Git.Dir = os.ExpandEnv(c.Git.Dir)
	c.Git.Upstream = os.ExpandEnv(c.Git.Upstream)
	c.SVN.Workdir = os.ExpandEnv(c.SVN.Workdir)
	for name, rel := range c.Subprojects {
		c.Subprojects[name] = os.ExpandEnv(rel)
	}
}

// applyDefaults fills in zero-value fields. The upstream ref is defaulted
// here, before the core runs, never inside its control flow.
func (c *Config) applyDefaults() {
	if c.Git.Dir == "" {
		c.Git.Dir = "."
	}
	if c.Git.Upstream == "" {
		c.Git.Upstream = "origin/main"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SVN.Workdir == "" {
		return fmt.Errorf("svn.workdir is required")
	}
	if !filepath.IsAbs(c.SVN.Workdir) {
		return fmt.Errorf("svn.workdir must be an absolute path: %s", c.SVN.Workdir)
	}

	if len(c.Subprojects) == 0 {
		return fmt.Errorf("subprojects table is required")
	}
	for name, rel := range c.Subprojects {
		if name == "" {
			return fmt.Errorf("subprojects: empty subproject name")
		}
		if rel == "" {
			return fmt.Errorf("subprojects.%s: target path is required", name)
		}
		if filepath.IsAbs(rel) {
			return fmt.Errorf("subprojects.%s: target path must be relative to svn.workdir: %s", name, rel)
		}
	}

	return nil
}

// TargetDir returns the absolute working-copy directory for a subproject's
// relative target path.
func (c *Config) TargetDir(rel string) string {
	return filepath.Join(c.SVN.Workdir, rel)
}
