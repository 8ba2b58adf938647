package isp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

var naiveIgnoreDirPatterns = []string{
	"**/.git",
	"**/node_modules",
	"**/target",
}

type resolvedWatchConfig struct {
	patterns       []string
	ignorePatterns []string
	ignoreDirs     []string
	outputDir      string
}

func (c *Config) getResolvedWatchConfig() (*resolvedWatchConfig, error) {
	tc, err := c.GetTaskConfig()
	if err != nil {
		return nil, err
	}
	cleanRootDir := c.getCleanRootDir()
	wc := c.WatchConfig
	if wc == nil {
		wc = &WatchConfig{}
	}

	r := &resolvedWatchConfig{outputDir: c.getCleanOutputDir(tc.OutputDir)}

	patterns := wc.Patterns
	if len(patterns) == 0 {
		patterns = []string{defaultWatchPattern}
	}
	for _, p := range patterns {
		r.patterns = append(r.patterns, filepath.Join(cleanRootDir, p))
	}
	for _, p := range wc.IgnorePatterns {
		r.ignorePatterns = append(r.ignorePatterns, filepath.Join(cleanRootDir, p))
	}
	for _, p := range naiveIgnoreDirPatterns {
		r.ignoreDirs = append(r.ignoreDirs, filepath.Join(cleanRootDir, p))
	}
	return r, nil
}

func (c *Config) getDebounce() time.Duration {
	if c.WatchConfig == nil || c.WatchConfig.Debounce <= 0 {
		return defaultDebounce
	}
	return c.WatchConfig.Debounce
}

// Watch builds once, then rebuilds whenever a watched source changes. Build
// errors are logged and do not stop the watch. Returns when ctx is done.
func (c *Config) Watch(ctx context.Context) error {
	c.InitOnce()

	rwc, err := c.getResolvedWatchConfig()
	if err != nil {
		return fmt.Errorf("error resolving watch config: %w", err)
	}

	c.rebuild(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error: failed to create watcher: %w", err)
	}
	defer watcher.Close()
	c.watcher = watcher

	if err := c.addDirs(c.getCleanRootDir(), rwc); err != nil {
		return fmt.Errorf("error: failed to add directories to watcher: %w", err)
	}

	c.Logger.Infof("watching %s for changes", strings.Join(rwc.patterns, ", "))

	debouncer := newDebouncer(c.getDebounce(), func(events []fsnotify.Event) {
		c.processBatchedEvents(ctx, events, rwc)
	})
	defer debouncer.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			debouncer.addEvent(evt)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Errorf("watcher error: %v", err)
		}
	}
}

func (c *Config) addDirs(path string, rwc *resolvedWatchConfig) error {
	return filepath.Walk(path, func(walkedPath string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if info.IsDir() {
			if c.getIsIgnoredDir(walkedPath, rwc) {
				return filepath.SkipDir
			}
			if err := c.watcher.Add(walkedPath); err != nil {
				return fmt.Errorf("error adding directory to watcher: %w", err)
			}
		}
		return nil
	})
}

func (c *Config) getIsIgnoredDir(path string, rwc *resolvedWatchConfig) bool {
	if getIsWithin(rwc.outputDir, path) {
		return true
	}
	return c.getIsMatchAny(rwc.ignoreDirs, path) || c.getIsMatchAny(rwc.ignorePatterns, path)
}

func getIsWithin(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// getShouldRebuild reports whether evt touches a watched source file.
func (c *Config) getShouldRebuild(evt fsnotify.Event, rwc *resolvedWatchConfig) bool {
	isSolelyCHMOD := !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename)
	if isSolelyCHMOD {
		return false
	}
	if getIsWithin(rwc.outputDir, evt.Name) {
		return false
	}
	if c.getIsMatchAny(rwc.ignorePatterns, evt.Name) {
		return false
	}
	return c.getIsMatchAny(rwc.patterns, evt.Name)
}

func (c *Config) processBatchedEvents(ctx context.Context, events []fsnotify.Event, rwc *resolvedWatchConfig) {
	shouldRebuild := false

	for _, evt := range events {
		fileInfo, _ := os.Stat(evt.Name) // removed files have no info, process them anyway
		if fileInfo != nil && fileInfo.IsDir() {
			if evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename) {
				if err := c.addDirs(evt.Name, rwc); err != nil {
					c.Logger.Errorf("error: failed to add directory to watcher: %v", err)
				}
			}
			continue
		}
		if c.getShouldRebuild(evt, rwc) {
			c.Logger.Infof("change detected: %s", evt.Name)
			shouldRebuild = true
		}
	}

	if shouldRebuild {
		c.rebuild(ctx)
	}
}

// rebuild runs at most one build at a time. A request that arrives while a
// build is running is folded into a single follow-up build.
func (c *Config) rebuild(ctx context.Context) {
	for {
		if !c.buildSem.TryAcquire(1) {
			c.buildPending.set()
			if !c.buildSem.TryAcquire(1) {
				return
			}
		}
		c.buildPending.take()

		if err := c.Build(ctx); err != nil {
			c.Logger.Errorf("error: build failed: %v", err)
		}
		c.buildSem.Release(1)

		if ctx.Err() != nil || !c.buildPending.take() {
			return
		}
	}
}
