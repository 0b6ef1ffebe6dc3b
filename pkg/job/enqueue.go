package job

import (
	"encoding/json"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riverqueue/river"
)

var payloadJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type enqueueConfig struct {
	scheduledAt *time.Time
	queue       string
	uniqueKey   string
	tags        []string
	maxAttempts int
	uniqueFor   time.Duration
	priority    int
}

// EnqueueOption configures a single enqueue call.
type EnqueueOption func(*enqueueConfig)

// InQueue routes the job to a named queue.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledAt delays the job until t.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *enqueueConfig) { c.scheduledAt = &t }
}

// ScheduledIn delays the job by d.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		t := time.Now().Add(d)
		c.scheduledAt = &t
	}
}

// MaxAttempts caps retries. River's default is 25.
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor skips the insert when a job with the same task name (and
// UniqueKey, if given) was inserted within the current period of length d.
func UniqueFor(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) { c.uniqueFor = d }
}

// UniqueKey narrows UniqueFor to jobs sharing key.
func UniqueKey(key string) EnqueueOption {
	return func(c *enqueueConfig) { c.uniqueKey = key }
}

// Priority orders jobs; 1 is highest, 4 lowest.
func Priority(p int) EnqueueOption {
	return func(c *enqueueConfig) { c.priority = p }
}

// Tags attaches searchable labels to the job.
func Tags(tags ...string) EnqueueOption {
	return func(c *enqueueConfig) { c.tags = append(c.tags, tags...) }
}

// taskArgs is the River payload shared by every task.
type taskArgs struct {
	TaskName  string          `json:"task_name" river:"unique"`
	UniqueKey string          `json:"unique_key,omitempty" river:"unique"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return "task" }

func buildJobArgs(name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	args := &taskArgs{TaskName: name}
	if payload != nil {
		raw, err := payloadJSON.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("job: marshal payload: %w", err)
		}
		args.Payload = raw
	}

	cfg := &enqueueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	io := &river.InsertOpts{
		Queue:       cfg.queue,
		MaxAttempts: cfg.maxAttempts,
		Priority:    cfg.priority,
		Tags:        cfg.tags,
	}
	if cfg.scheduledAt != nil {
		io.ScheduledAt = *cfg.scheduledAt
	}
	if cfg.uniqueFor > 0 {
		args.UniqueKey = cfg.uniqueKey
		io.UniqueOpts = river.UniqueOpts{ByArgs: true, ByPeriod: cfg.uniqueFor}
	}
	return args, io, nil
}
