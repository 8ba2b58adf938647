package isp

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sjc5/kit/pkg/typed"
)

var matchResults = typed.SyncMap[string, bool]{}

func (c *Config) getIsMatch(pattern string, path string) bool {
	combined := pattern + "\x00" + path

	if hit, isCached := matchResults.Load(combined); isCached {
		return hit
	}

	matches, err := doublestar.Match(filepath.ToSlash(pattern), filepath.ToSlash(path))
	if err != nil {
		c.Logger.Errorf("error: failed to match file: %v", err)
		return false
	}

	actualValue, _ := matchResults.LoadOrStore(combined, matches)
	return actualValue
}

func (c *Config) getIsMatchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if c.getIsMatch(pattern, path) {
			return true
		}
	}
	return false
}
