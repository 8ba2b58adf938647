package stylepipe

import (
	"context"

	isp "github.com/sjc5/stylepipe/internal/stylepipe"
)

type Config = isp.Config
type FileMapping = isp.FileMapping
type TaskConfig = isp.TaskConfig
type WatchConfig = isp.WatchConfig
type Compiler = isp.Compiler
type DartSass = isp.DartSass
type Logger = isp.Logger
type Task = isp.Task
type TaskFunc = isp.TaskFunc
type Registry = isp.Registry

type StylePipe struct {
	Config *isp.Config
}

// Build compiles every mapped stylesheet, then minifies the results in place.
func (s StylePipe) Build(ctx context.Context) error {
	return s.Config.Build(ctx)
}

// Run runs a single registered task or alias, e.g. "sass" or "default".
func (s StylePipe) Run(ctx context.Context, taskName string) error {
	return s.Config.Run(ctx, taskName)
}

func (s StylePipe) Watch(ctx context.Context) error {
	return s.Config.Watch(ctx)
}

func (s StylePipe) GetTaskConfig() (TaskConfig, error) {
	return s.Config.GetTaskConfig()
}

func (s StylePipe) OutputPaths() ([]string, error) {
	return s.Config.OutputPaths()
}

func (s StylePipe) Tasks() *Registry {
	return s.Config.Tasks()
}

func New(config *isp.Config) *StylePipe {
	config.InitOnce()
	return &StylePipe{
		Config: config,
	}
}

var DefaultFileMappings = isp.DefaultFileMappings
var GetIsDev = isp.GetIsDev
var ResolveOutputDir = isp.ResolveOutputDir
var MinifyCSS = isp.MinifyCSS
