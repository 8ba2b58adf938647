package isp

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// TaskConfig is the resolved, static build record. It is computed once per
// Config and never mutated afterwards.
type TaskConfig struct {
	OutputDir    string        `yaml:"outputDir"`
	FileMappings []FileMapping `yaml:"fileMappings"`
}

var errNoFileMappings = errors.New("no file mappings configured")

// GetTaskConfig returns a copy of the cached TaskConfig, resolving it on the
// first call.
func (c *Config) GetTaskConfig() (TaskConfig, error) {
	c.InitOnce()
	tc, err := c.taskConfig.Get()
	if err != nil {
		return TaskConfig{}, err
	}
	return TaskConfig{
		OutputDir:    tc.OutputDir,
		FileMappings: slices.Clone(tc.FileMappings),
	}, nil
}

func (c *Config) getInitialTaskConfig() (TaskConfig, error) {
	if err := validateFileMappings(c.FileMappings); err != nil {
		return TaskConfig{}, fmt.Errorf("error validating file mappings: %w", err)
	}
	return TaskConfig{
		OutputDir:    ResolveOutputDir(c.ProdOutputDir, c.DevOutputDir),
		FileMappings: slices.Clone(c.FileMappings),
	}, nil
}

func validateFileMappings(mappings []FileMapping) error {
	if len(mappings) == 0 {
		return errNoFileMappings
	}
	seen := make(map[string]bool, len(mappings))
	for i, m := range mappings {
		if m.Source == "" {
			return fmt.Errorf("mapping %d: empty source", i)
		}
		if m.Dest == "" {
			return fmt.Errorf("mapping %d: empty dest", i)
		}
		cleanDest := filepath.Clean(m.Dest)
		if filepath.IsAbs(cleanDest) || cleanDest == ".." || strings.HasPrefix(cleanDest, ".."+string(filepath.Separator)) {
			return fmt.Errorf("mapping %d: dest %q escapes the output directory", i, m.Dest)
		}
		if seen[cleanDest] {
			return fmt.Errorf("mapping %d: duplicate dest %q", i, m.Dest)
		}
		seen[cleanDest] = true
	}
	return nil
}

// OutputPaths returns the destination files in declaration order, joined onto
// the resolved output directory.
func (c *Config) OutputPaths() ([]string, error) {
	tc, err := c.GetTaskConfig()
	if err != nil {
		return nil, err
	}
	outDir := c.getCleanOutputDir(tc.OutputDir)
	paths := make([]string, 0, len(tc.FileMappings))
	for _, m := range tc.FileMappings {
		paths = append(paths, filepath.Join(outDir, m.Dest))
	}
	return paths, nil
}

func (c *Config) getSourcePath(m FileMapping) string {
	if filepath.IsAbs(m.Source) {
		return filepath.Clean(m.Source)
	}
	return filepath.Join(c.getCleanRootDir(), m.Source)
}
