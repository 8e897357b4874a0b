package workflow

import (
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/startup-analyzer/errors"
	"github.com/kbukum/startup-analyzer/resilience"
)

// recorder is a fake completer that replays scripted replies and records calls.
type recorder struct {
	calls   []Prompt
	replies []string
	errs    []error
	active  atomic.Int32
	overlap atomic.Bool
}

func (r *recorder) Complete(_ context.Context, p Prompt) (string, error) {
	if r.active.Add(1) > 1 {
		r.overlap.Store(true)
	}
	defer r.active.Add(-1)

	i := len(r.calls)
	r.calls = append(r.calls, p)
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(r.replies) {
		return r.replies[i], nil
	}
	return "reply", nil
}

func mustStage(t *testing.T, name string, c Completer) Stage {
	t.Helper()
	s, err := NewStage(StageConfig{
		Name:      name,
		Role:      name + " role",
		Goal:      name + " goal",
		Backstory: name + " backstory",
		Completer: c,
	})
	if err != nil {
		t.Fatalf("NewStage(%s): %v", name, err)
	}
	return s
}

func mustTasks(t *testing.T, c Completer, names ...string) []Task {
	t.Helper()
	tasks := make([]Task, 0, len(names))
	for _, n := range names {
		task, err := NewTask(n, "prompt for "+n, mustStage(t, n+"-stage", c))
		if err != nil {
			t.Fatalf("NewTask(%s): %v", n, err)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func TestNewStage_Validation(t *testing.T) {
	c := CompleterFunc(func(context.Context, Prompt) (string, error) { return "x", nil })

	tests := []struct {
		name string
		cfg  StageConfig
	}{
		{"blank role", StageConfig{Name: "s", Role: " ", Goal: "g", Backstory: "b", Completer: c}},
		{"missing goal", StageConfig{Name: "s", Role: "r", Backstory: "b", Completer: c}},
		{"missing backstory", StageConfig{Name: "s", Role: "r", Goal: "g", Completer: c}},
		{"missing completer", StageConfig{Name: "s", Role: "r", Goal: "g", Backstory: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStage(tt.cfg)
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestStage_SystemPrompt(t *testing.T) {
	s := mustStage(t, "analyst", &recorder{})
	sp := s.SystemPrompt()
	for _, want := range []string{"analyst role", "analyst goal", "analyst backstory"} {
		if !strings.Contains(sp, want) {
			t.Errorf("system prompt missing %q: %s", want, sp)
		}
	}
}

func TestNewTask_RequiresPrompt(t *testing.T) {
	s := mustStage(t, "s", &recorder{})
	if _, err := NewTask("t", "   ", s); err == nil {
		t.Fatal("expected error for blank prompt")
	}
	if _, err := NewTask("t", "p", Stage{}); err == nil {
		t.Fatal("expected error for zero stage")
	}
}

func TestRun_SequentialInOrder(t *testing.T) {
	rec := &recorder{replies: []string{"one", "two", "three"}}
	tasks := mustTasks(t, rec, "process", "analyze", "insight")

	results, err := NewRunner().Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"one", "two", "three"} {
		if results[i].Raw != want {
			t.Errorf("result %d = %q, want %q", i, results[i].Raw, want)
		}
		if results[i].Task != tasks[i].Name() || results[i].Stage != tasks[i].Stage().Name() {
			t.Errorf("result %d attributed to %s/%s", i, results[i].Task, results[i].Stage)
		}
	}
	if rec.overlap.Load() {
		t.Error("completions overlapped")
	}
	for i, call := range rec.calls {
		if call.User != tasks[i].Prompt() {
			t.Errorf("call %d got prompt %q", i, call.User)
		}
		if call.System != tasks[i].Stage().SystemPrompt() {
			t.Errorf("call %d got wrong persona", i)
		}
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	upstream := stderrors.New("503 from provider")
	rec := &recorder{errs: []error{nil, upstream}}
	tasks := mustTasks(t, rec, "process", "analyze", "insight")

	results, err := NewRunner().Run(context.Background(), tasks)
	if len(results) != 1 {
		t.Fatalf("expected 1 partial result, got %d", len(results))
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected the third task never to be invoked, got %d calls", len(rec.calls))
	}

	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeStageFailed {
		t.Fatalf("expected STAGE_FAILED, got %v", err)
	}
	if appErr.Details["task"] != "analyze" || appErr.Details["position"] != 2 {
		t.Errorf("unexpected details %v", appErr.Details)
	}
	if !stderrors.Is(err, upstream) {
		t.Error("expected cause to be preserved")
	}
}

func TestRun_EmptyReplyIsFailure(t *testing.T) {
	rec := &recorder{replies: []string{" \n\t"}}
	tasks := mustTasks(t, rec, "process", "analyze")

	results, err := NewRunner().Run(context.Background(), tasks)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
	if !stderrors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestRun_CancelledContextStopsBeforeNextStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	c := CompleterFunc(func(context.Context, Prompt) (string, error) {
		calls++
		cancel()
		return "done", nil
	})
	tasks := mustTasks(t, c, "process", "analyze")

	results, err := NewRunner().Run(ctx, tasks)
	if calls != 1 || len(results) != 1 {
		t.Fatalf("expected exactly one completed stage, got calls=%d results=%d", calls, len(results))
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled cause, got %v", err)
	}
}

func TestRun_EmptyTaskList(t *testing.T) {
	results, err := NewRunner().Run(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Fatalf("expected no results and no error, got %v, %v", results, err)
	}
}

func TestRun_WithRetry(t *testing.T) {
	transient := stderrors.New("rate limited")
	rec := &recorder{errs: []error{transient, nil}, replies: []string{"", "ok"}}
	tasks := mustTasks(t, rec, "process")

	runner := NewRunner(WithRetry(resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}))
	results, err := runner.Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Raw != "ok" || len(rec.calls) != 2 {
		t.Fatalf("expected success on second attempt, got %q after %d calls", results[0].Raw, len(rec.calls))
	}
}

func TestRun_WithRetry_DoesNotRetryEmptyReply(t *testing.T) {
	rec := &recorder{replies: []string{"", "late"}}
	tasks := mustTasks(t, rec, "process")

	runner := NewRunner(WithRetry(resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}))
	if _, err := runner.Run(context.Background(), tasks); !stderrors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("expected 1 call, got %d", len(rec.calls))
	}
}

func TestRun_Observer(t *testing.T) {
	var kinds []EventKind
	rec := &recorder{errs: []error{nil, stderrors.New("boom")}}
	tasks := mustTasks(t, rec, "process", "analyze")

	runner := NewRunner(WithObserver(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		if ev.Total != 2 {
			t.Errorf("expected total 2, got %d", ev.Total)
		}
	}))
	_, _ = runner.Run(context.Background(), tasks)

	want := []EventKind{EventStageStarted, EventStageFinished, EventStageStarted, EventStageFailed}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}
