package job

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
)

// executor runs a task from its raw payload.
type executor interface {
	Execute(ctx context.Context, payload json.RawMessage) error
}

type executorFunc func(ctx context.Context, payload json.RawMessage) error

func (f executorFunc) Execute(ctx context.Context, payload json.RawMessage) error {
	return f(ctx, payload)
}

type taskRegistry struct {
	executors map[string]executor
	mu        sync.RWMutex
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{executors: make(map[string]executor)}
}

func (r *taskRegistry) register(name string, e executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[name] = e
}

func (r *taskRegistry) get(name string) (executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executors[name]
	return e, ok
}

func (r *taskRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.executors))
}

// typedExecutor decodes the payload into P before calling the task.
func typedExecutor[P any](handle func(context.Context, P) error) executor {
	return executorFunc(func(ctx context.Context, raw json.RawMessage) error {
		var payload P
		if len(raw) > 0 {
			if err := payloadJSON.Unmarshal(raw, &payload); err != nil {
				return errors.Join(ErrInvalidPayload, err)
			}
		}
		return handle(ctx, payload)
	})
}

// scheduledExecutor ignores the (empty) payload of periodic jobs.
func scheduledExecutor(handle func(context.Context) error) executor {
	return executorFunc(func(ctx context.Context, _ json.RawMessage) error {
		return handle(ctx)
	})
}
