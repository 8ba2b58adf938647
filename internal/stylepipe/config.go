package isp

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sjc5/kit/pkg/colorlog"
	"github.com/sjc5/kit/pkg/safecache"
	"golang.org/x/sync/semaphore"
)

type Logger colorlog.Logger

type Config struct {
	/*
		RootDir is the stylesheet project root. Source paths in FileMappings
		and watch patterns are set relative to it, and so is ProdOutputDir /
		DevOutputDir. It should be set relative to wherever you run your build
		command from. We do run filepath.Clean on the RootDir, so if you leave
		it blank, it will default to ".".
	*/
	RootDir string

	// Output directory used unless NODE_ENV is "dev". Defaults to "dist".
	ProdOutputDir string

	// Output directory used when NODE_ENV is "dev". Defaults to the sampler
	// app's theme-test classpath dir, so the running sampler picks up changes.
	DevOutputDir string

	// Defaults to the two primer themes. Order is preserved through both steps.
	FileMappings []FileMapping

	// Defaults to the dart-sass executable.
	Compiler Compiler

	WatchConfig *WatchConfig

	Logger Logger

	initOnce   sync.Once
	taskConfig *safecache.Cache[TaskConfig]
	tasks      *Registry

	// Watch
	watcher      *fsnotify.Watcher
	buildSem     *semaphore.Weighted
	buildPending pendingFlag
}

type FileMapping struct {
	Source string `yaml:"source"` // relative to Config.RootDir
	Dest   string `yaml:"dest"`   // relative to the resolved output directory
}

type WatchConfig struct {
	Patterns       []string      // Glob patterns (set relative to Config.RootDir), default "src/**/*.scss"
	IgnorePatterns []string      // Glob patterns (set relative to Config.RootDir)
	Debounce       time.Duration // default 30ms
}

type pendingFlag struct {
	mu sync.Mutex
	v  bool
}

func (p *pendingFlag) set() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v = true
}

// take reports whether the flag was set, and clears it.
func (p *pendingFlag) take() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := p.v
	p.v = false
	return v
}
