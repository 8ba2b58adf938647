package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sjc5/kit/pkg/colorlog"
	"github.com/sjc5/stylepipe"
	"gopkg.in/yaml.v3"
)

var envFiles = []string{".env", ".env.local"}

var CLI struct {
	Root  string `short:"r" help:"Stylesheet project root" default:"."`
	Quiet bool   `short:"q" help:"Only log errors"`

	Build struct {
		Task string `short:"t" help:"Task or alias to run" default:"default"`
	} `cmd:"" default:"withargs" help:"Compile SASS sources to CSS and minify the results"`

	Watch struct{} `cmd:"" help:"Build, then rebuild whenever a source stylesheet changes"`

	Config struct{} `cmd:"" help:"Print the resolved task configuration"`
}

// quietLogger drops info-level output.
type quietLogger struct {
	stylepipe.Logger
}

func (quietLogger) Infof(format string, args ...interface{}) {}

// loadEnvFiles never overrides variables already set in the process.
func loadEnvFiles() error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error loading %s: %w", f, err)
		}
	}
	return nil
}

func newStylePipe() *stylepipe.StylePipe {
	var logger stylepipe.Logger = &colorlog.Log{}
	if CLI.Quiet {
		logger = quietLogger{logger}
	}
	return stylepipe.New(&stylepipe.Config{
		RootDir: CLI.Root,
		Logger:  logger,
	})
}

func printTaskConfig(w io.Writer, sp *stylepipe.StylePipe) error {
	tc, err := sp.GetTaskConfig()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tc); err != nil {
		return fmt.Errorf("error encoding task config: %w", err)
	}
	return enc.Close()
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("stylepipe"),
		kong.Description("Compiles theme stylesheets from SASS and minifies the CSS."),
	)

	if err := loadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sp := newStylePipe()

	var err error
	switch kctx.Command() {
	case "build":
		err = sp.Run(ctx, CLI.Build.Task)
	case "watch":
		err = sp.Watch(ctx)
	case "config":
		err = printTaskConfig(os.Stdout, sp)
	default:
		err = fmt.Errorf("unknown command %q", kctx.Command())
	}

	if err != nil {
		sp.Config.Logger.Errorf("error: %v", err)
		stop()
		os.Exit(1)
	}
}
