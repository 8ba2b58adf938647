package isp

import (
	"context"
	"fmt"
	"time"
)

type TaskFunc func(ctx context.Context) error

type Task struct {
	Name string
	Run  TaskFunc
}

type stepError struct {
	task string
	err  error
}

func (e stepError) Error() string {
	return fmt.Sprintf("error during task %s: %v", e.task, e.err)
}

func (e stepError) Unwrap() error {
	return e.err
}

// Registry holds named tasks and aliases that expand to an ordered list of
// task names, the way a Gruntfile's registerTask does.
type Registry struct {
	logger  Logger
	tasks   map[string]Task
	aliases map[string][]string
}

func NewRegistry(logger Logger) *Registry {
	return &Registry{
		logger:  logger,
		tasks:   map[string]Task{},
		aliases: map[string][]string{},
	}
}

func (r *Registry) Register(task Task) {
	r.tasks[task.Name] = task
}

func (r *Registry) RegisterTask(name string, steps ...string) {
	r.aliases[name] = append([]string(nil), steps...)
}

// Steps expands name into the concrete tasks it runs, in order.
func (r *Registry) Steps(name string) ([]Task, error) {
	return r.expand(name, map[string]bool{})
}

func (r *Registry) expand(name string, visiting map[string]bool) ([]Task, error) {
	if task, ok := r.tasks[name]; ok {
		return []Task{task}, nil
	}
	steps, ok := r.aliases[name]
	if !ok {
		return nil, fmt.Errorf("task %q not found", name)
	}
	if visiting[name] {
		return nil, fmt.Errorf("task %q refers to itself", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	var out []Task
	for _, step := range steps {
		expanded, err := r.expand(step, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// Run executes the named task's steps one after another and stops at the
// first error.
func (r *Registry) Run(ctx context.Context, name string) error {
	steps, err := r.Steps(name)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return stepError{task: step.Name, err: err}
		}
		a := time.Now()
		if err := step.Run(ctx); err != nil {
			return stepError{task: step.Name, err: err}
		}
		r.logger.Infof("task %s took: %v", step.Name, time.Since(a))
	}
	return nil
}
