package isp

import (
	"github.com/sjc5/kit/pkg/colorlog"
	"github.com/sjc5/kit/pkg/safecache"
	"golang.org/x/sync/semaphore"
)

// InitOnce fills in zero-value defaults and wires the caches and the task
// registry. Safe to call more than once; only the first call does anything.
func (c *Config) InitOnce() {
	c.initOnce.Do(func() {
		if c.Logger == nil {
			c.Logger = &colorlog.Log{}
		}
		if c.ProdOutputDir == "" {
			c.ProdOutputDir = defaultProdOutputDir
		}
		if c.DevOutputDir == "" {
			c.DevOutputDir = defaultDevOutputDir
		}
		if c.FileMappings == nil {
			c.FileMappings = DefaultFileMappings()
		}
		if c.Compiler == nil {
			c.Compiler = &DartSass{}
		}

		c.taskConfig = safecache.New(c.getInitialTaskConfig, nil)
		c.buildSem = semaphore.NewWeighted(1)

		c.tasks = NewRegistry(c.Logger)
		c.tasks.Register(Task{Name: sassTaskName, Run: c.runSass})
		c.tasks.Register(Task{Name: cssminTaskName, Run: c.runCSSMin})
		c.tasks.RegisterTask(defaultTaskName, sassTaskName, cssminTaskName)
	})
}
