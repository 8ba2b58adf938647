package isp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestGetShouldRebuild(t *testing.T) {
	env := setupTestEnv(t)
	defer teardownTestEnv(t)
	env.config.WatchConfig = &WatchConfig{IgnorePatterns: []string{"src/vendor/**"}}
	env.config.InitOnce()

	rwc, err := env.config.getResolvedWatchConfig()
	if err != nil {
		t.Fatalf("getResolvedWatchConfig() error = %v", err)
	}

	src := func(p string) string { return filepath.Join(testRootDir, p) }

	tests := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{"WriteTopLevel", fsnotify.Event{Name: src("src/primer-light.scss"), Op: fsnotify.Write}, true},
		{"CreateNested", fsnotify.Event{Name: src("src/components/_button.scss"), Op: fsnotify.Create}, true},
		{"Remove", fsnotify.Event{Name: src("src/primer-dark.scss"), Op: fsnotify.Remove}, true},
		{"ChmodOnly", fsnotify.Event{Name: src("src/primer-light.scss"), Op: fsnotify.Chmod}, false},
		{"NonSCSS", fsnotify.Event{Name: src("src/readme.md"), Op: fsnotify.Write}, false},
		{"OutsideSrc", fsnotify.Event{Name: src("other/x.scss"), Op: fsnotify.Write}, false},
		{"Ignored", fsnotify.Event{Name: src("src/vendor/x.scss"), Op: fsnotify.Write}, false},
		{"OutputDir", fsnotify.Event{Name: src("dist/primer-light.css"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := env.config.getShouldRebuild(tt.evt, rwc); got != tt.want {
				t.Errorf("getShouldRebuild(%v) = %v, want %v", tt.evt, got, tt.want)
			}
		})
	}
}

func TestGetIsWithin(t *testing.T) {
	tests := []struct {
		parent, path string
		want         bool
	}{
		{"dist", "dist", true},
		{"dist", "dist/a.css", true},
		{"dist", "distx/a.css", false},
		{"dist", "src/a.scss", false},
		{"a/dist", ".", false},
	}
	for _, tt := range tests {
		if got := getIsWithin(tt.parent, tt.path); got != tt.want {
			t.Errorf("getIsWithin(%q, %q) = %v, want %v", tt.parent, tt.path, got, tt.want)
		}
	}
}

func TestGetIsIgnoredDir(t *testing.T) {
	env := setupTestEnv(t)
	defer teardownTestEnv(t)
	env.config.InitOnce()

	rwc, err := env.config.getResolvedWatchConfig()
	if err != nil {
		t.Fatalf("getResolvedWatchConfig() error = %v", err)
	}

	if !env.config.getIsIgnoredDir(filepath.Join(testRootDir, "node_modules"), rwc) {
		t.Errorf("node_modules not ignored")
	}
	if !env.config.getIsIgnoredDir(filepath.Join(testRootDir, "dist"), rwc) {
		t.Errorf("output dir not ignored")
	}
	if env.config.getIsIgnoredDir(filepath.Join(testRootDir, "src"), rwc) {
		t.Errorf("src dir ignored")
	}
}

func TestDebouncerBatchesEvents(t *testing.T) {
	batches := make(chan []fsnotify.Event, 4)
	d := newDebouncer(20*time.Millisecond, func(events []fsnotify.Event) {
		batches <- events
	})
	defer d.stop()

	d.addEvent(fsnotify.Event{Name: "a", Op: fsnotify.Write})
	d.addEvent(fsnotify.Event{Name: "b", Op: fsnotify.Write})
	d.addEvent(fsnotify.Event{Name: "c", Op: fsnotify.Create})

	select {
	case batch := <-batches:
		if len(batch) != 3 {
			t.Errorf("batch size = %d, want 3", len(batch))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debouncer never flushed")
	}

	select {
	case batch := <-batches:
		t.Errorf("unexpected extra batch: %v", batch)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestRebuildWhileBusySetsPending(t *testing.T) {
	env := setupTestEnv(t)
	defer teardownTestEnv(t)
	env.config.InitOnce()

	if !env.config.buildSem.TryAcquire(1) {
		t.Fatalf("failed to acquire build semaphore")
	}

	env.config.rebuild(context.Background())
	if len(env.compiler.getCalls()) != 0 {
		t.Errorf("rebuild ran while another build held the semaphore")
	}
	if !env.config.buildPending.take() {
		t.Errorf("rebuild did not leave a pending flag")
	}

	env.config.buildSem.Release(1)
	env.config.rebuild(context.Background())
	if got := len(env.compiler.getCalls()); got != 2 {
		t.Errorf("compiler calls = %d, want 2 after one rebuild", got)
	}
}

func TestProcessBatchedEvents(t *testing.T) {
	env := setupTestEnv(t)
	defer teardownTestEnv(t)
	env.config.InitOnce()

	rwc, err := env.config.getResolvedWatchConfig()
	if err != nil {
		t.Fatalf("getResolvedWatchConfig() error = %v", err)
	}

	irrelevant := []fsnotify.Event{{Name: filepath.Join(testRootDir, "notes.txt"), Op: fsnotify.Write}}
	env.config.processBatchedEvents(context.Background(), irrelevant, rwc)
	if got := len(env.compiler.getCalls()); got != 0 {
		t.Errorf("compiler calls = %d after irrelevant change, want 0", got)
	}

	relevant := []fsnotify.Event{
		{Name: filepath.Join(testRootDir, "src", "primer-light.scss"), Op: fsnotify.Write},
		{Name: filepath.Join(testRootDir, "src", "primer-dark.scss"), Op: fsnotify.Write},
	}
	env.config.processBatchedEvents(context.Background(), relevant, rwc)
	if got := len(env.compiler.getCalls()); got != 2 {
		t.Errorf("compiler calls = %d, want 2 (one build for the whole batch)", got)
	}
}

func TestWatchReturnsOnCancel(t *testing.T) {
	env := setupTestEnv(t)
	defer teardownTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.config.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Watch() did not return after cancel")
	}
	if got := len(env.compiler.getCalls()); got < 2 {
		t.Errorf("compiler calls = %d, want the initial build", got)
	}
}
