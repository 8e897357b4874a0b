package workflow

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/logger"
	"github.com/kbukum/startup-analyzer/resilience"
)

// ErrEmptyReply is the cause recorded when a stage returns no usable text.
var ErrEmptyReply = stderrors.New("workflow: completion returned an empty reply")

// Result is the raw reply of one successful task.
type Result struct {
	Task     string        `json:"task"`
	Stage    string        `json:"stage"`
	Raw      string        `json:"raw"`
	Duration time.Duration `json:"duration"`
}

// EventKind distinguishes observer notifications.
type EventKind int

const (
	EventStageStarted EventKind = iota
	EventStageFinished
	EventStageFailed
)

// Event reports progress of a run to observers.
type Event struct {
	Kind     EventKind
	Task     string
	Stage    string
	Position int // 1-based
	Total    int
	Duration time.Duration
	Err      error
}

// Observer receives progress events. It is called synchronously from Run.
type Observer func(Event)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) { r.log = log.WithComponent("workflow") }
}

// WithRetry retries a failing completion call before the stage is declared
// failed. Empty replies are not retried.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(r *Runner) { r.retry = &cfg }
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// Runner executes tasks sequentially.
type Runner struct {
	log       *logger.Logger
	retry     *resilience.RetryConfig
	observers []Observer
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.GetGlobalLogger().WithComponent("workflow")
	}
	return r
}

// Run executes tasks in order, one at a time. It returns one Result per
// completed task. On the first failure it stops and returns the results so
// far together with an errors.StageFailure; later tasks are never invoked.
func (r *Runner) Run(ctx context.Context, tasks []Task) ([]Result, error) {
	log := r.log.WithContext(ctx)
	results := make([]Result, 0, len(tasks))

	for i, task := range tasks {
		position := i + 1
		stage := task.Stage()
		ev := Event{Task: task.Name(), Stage: stage.Name(), Position: position, Total: len(tasks)}

		if err := ctx.Err(); err != nil {
			return results, r.fail(log, ev, err)
		}

		ev.Kind = EventStageStarted
		r.notify(ev)
		fields := logger.Fields(
			logger.FieldTask, task.Name(),
			logger.FieldStage, stage.Name(),
			"position", position,
		)
		log.Info("stage started", fields)
		if stage.Verbose() {
			log.Info("stage prompt", logger.Fields(
				logger.FieldTask, task.Name(),
				"system_chars", len(stage.SystemPrompt()),
				"prompt_chars", len(task.Prompt()),
			))
		}

		start := time.Now()
		raw, err := r.complete(ctx, task)
		ev.Duration = time.Since(start)
		if err != nil {
			return results, r.fail(log, ev, err)
		}

		results = append(results, Result{
			Task:     task.Name(),
			Stage:    stage.Name(),
			Raw:      raw,
			Duration: ev.Duration,
		})

		ev.Kind = EventStageFinished
		r.notify(ev)
		done := logger.DurationFields("stage", ev.Duration)
		done[logger.FieldTask] = task.Name()
		done[logger.FieldStage] = stage.Name()
		done["reply_chars"] = len(raw)
		log.Info("stage finished", done)
	}

	return results, nil
}

func (r *Runner) complete(ctx context.Context, task Task) (string, error) {
	prompt := Prompt{System: task.Stage().SystemPrompt(), User: task.Prompt()}
	call := func() (string, error) {
		raw, err := task.Stage().completer.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(raw) == "" {
			return "", ErrEmptyReply
		}
		return raw, nil
	}

	if r.retry == nil {
		return call()
	}

	cfg := *r.retry
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = resilience.DefaultRetryIf
	}
	cfg.RetryIf = func(err error) bool {
		return !stderrors.Is(err, ErrEmptyReply) && retryIf(err)
	}
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		r.log.WithContext(ctx).Warn("retrying stage", logger.Fields(
			logger.FieldTask, task.Name(),
			"attempt", attempt,
			"backoff_ms", backoff.Milliseconds(),
			logger.FieldError, err.Error(),
		))
	}
	return resilience.Retry(ctx, cfg, call)
}

func (r *Runner) fail(log *logger.Logger, ev Event, cause error) error {
	ev.Kind = EventStageFailed
	ev.Err = cause
	r.notify(ev)

	fields := logger.ErrorFields("stage", cause)
	fields[logger.FieldTask] = ev.Task
	fields[logger.FieldStage] = ev.Stage
	fields["position"] = ev.Position
	log.Error("stage failed", fields)

	return errors.StageFailure(ev.Task, ev.Stage, ev.Position, cause)
}

func (r *Runner) notify(ev Event) {
	for _, o := range r.observers {
		o(ev)
	}
}
