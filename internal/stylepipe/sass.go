package isp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type Compiler interface {
	Compile(ctx context.Context, srcPath string) ([]byte, error)
}

// DartSass shells out to the dart-sass CLI. Executable falls back to
// $SASS_BINARY, then "sass" on PATH.
type DartSass struct {
	Executable string
	LoadPaths  []string
}

func (d *DartSass) args(srcPath string) []string {
	args := []string{"--no-source-map", "--style=expanded", "--load-path=" + filepath.Dir(srcPath)}
	for _, p := range d.LoadPaths {
		args = append(args, "--load-path="+p)
	}
	return append(args, srcPath)
}

func (d *DartSass) Compile(ctx context.Context, srcPath string) ([]byte, error) {
	bin := d.Executable
	if bin == "" {
		bin = getSassBinary()
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, d.args(srcPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("error running %s on %s: %w: %s", bin, srcPath, err, msg)
		}
		return nil, fmt.Errorf("error running %s on %s: %w", bin, srcPath, err)
	}
	return stdout.Bytes(), nil
}

func (c *Config) runSass(ctx context.Context) error {
	tc, err := c.GetTaskConfig()
	if err != nil {
		return err
	}
	outDir := c.getCleanOutputDir(tc.OutputDir)

	for _, m := range tc.FileMappings {
		src := c.getSourcePath(m)
		dest := filepath.Join(outDir, m.Dest)

		compiled, err := c.Compiler.Compile(ctx, src)
		if err != nil {
			return fmt.Errorf("error compiling %s: %w", src, err)
		}
		if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
		if err := os.WriteFile(dest, compiled, filePerm); err != nil {
			return fmt.Errorf("error writing %s: %w", dest, err)
		}
		c.Logger.Infof("compiled %s -> %s", m.Source, dest)
	}
	return nil
}
