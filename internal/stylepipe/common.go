package isp

import (
	"path/filepath"
	"time"
)

const (
	defaultProdOutputDir = "dist"
	defaultDevOutputDir  = "../sampler/target/classes/atlantafx/sampler/theme-test"
	defaultWatchPattern  = "src/**/*.scss"
	defaultDebounce      = 30 * time.Millisecond
	defaultTaskName      = "default"
	sassTaskName         = "sass"
	cssminTaskName       = "cssmin"
	dirPerm              = 0755
	filePerm             = 0644
)

func DefaultFileMappings() []FileMapping {
	return []FileMapping{
		{Source: "src/primer-light.scss", Dest: "primer-light.css"},
		{Source: "src/primer-dark.scss", Dest: "primer-dark.css"},
	}
}

func (c *Config) getCleanRootDir() string {
	return filepath.Clean(c.RootDir)
}

// Output dirs are relative to RootDir unless absolute.
func (c *Config) getCleanOutputDir(outputDir string) string {
	if filepath.IsAbs(outputDir) {
		return filepath.Clean(outputDir)
	}
	return filepath.Join(c.getCleanRootDir(), outputDir)
}
