package isp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
)

const cssMediaType = "text/css"

func newCSSMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(cssMediaType, css.Minify)
	return m
}

// MinifyCSS runs the same minifier the cssmin task uses.
func MinifyCSS(content string) (string, error) {
	return newCSSMinifier().String(cssMediaType, content)
}

// runCSSMin rewrites each compiled file in place. It never adds files, so the
// output directory holds exactly one file per mapping.
func (c *Config) runCSSMin(ctx context.Context) error {
	tc, err := c.GetTaskConfig()
	if err != nil {
		return err
	}
	outDir := c.getCleanOutputDir(tc.OutputDir)
	m := newCSSMinifier()

	for _, fm := range tc.FileMappings {
		if err := ctx.Err(); err != nil {
			return err
		}
		dest := filepath.Join(outDir, fm.Dest)
		content, err := os.ReadFile(dest)
		if err != nil {
			return fmt.Errorf("error reading compiled CSS: %w", err)
		}
		minified, err := m.Bytes(cssMediaType, content)
		if err != nil {
			return fmt.Errorf("error minifying %s: %w", dest, err)
		}
		if err := os.WriteFile(dest, minified, filePerm); err != nil {
			return fmt.Errorf("error writing %s: %w", dest, err)
		}
		c.Logger.Infof("minified %s (%d -> %d bytes)", dest, len(content), len(minified))
	}
	return nil
}
