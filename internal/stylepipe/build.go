package isp

import (
	"context"
	"fmt"
	"time"
)

// Build runs the default task: sass, then cssmin.
func (c *Config) Build(ctx context.Context) error {
	return c.Run(ctx, defaultTaskName)
}

func (c *Config) Run(ctx context.Context, taskName string) error {
	c.InitOnce()

	tc, err := c.GetTaskConfig()
	if err != nil {
		return fmt.Errorf("error resolving task config: %w", err)
	}
	c.Logger.Infof("building %d stylesheet(s) into %s", len(tc.FileMappings), c.getCleanOutputDir(tc.OutputDir))

	a := time.Now()
	if err := c.tasks.Run(ctx, taskName); err != nil {
		return err
	}
	c.Logger.Infof("build took: %v", time.Since(a))
	return nil
}

// Tasks exposes the registry so callers can add their own steps or aliases.
func (c *Config) Tasks() *Registry {
	c.InitOnce()
	return c.tasks
}
