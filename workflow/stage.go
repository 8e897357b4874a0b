package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/startup-analyzer/validation"
)

// Prompt is the input of a single completion call.
type Prompt struct {
	// System carries the stage persona.
	System string
	// User carries the task prompt.
	User string
}

// Completer sends one prompt to a text-completion endpoint and returns the reply.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, p Prompt) (string, error)

// Complete calls f(ctx, p).
func (f CompleterFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}

// StageConfig describes a stage before validation.
type StageConfig struct {
	Name      string    `json:"name" validate:"notblank"`
	Role      string    `json:"role" validate:"notblank"`
	Goal      string    `json:"goal" validate:"notblank"`
	Backstory string    `json:"backstory" validate:"notblank"`
	Completer Completer `json:"completer" validate:"required"`
	// Verbose logs prompt and reply sizes for this stage at info level.
	Verbose bool `json:"verbose"`
}

// Stage is a validated, immutable pipeline stage.
type Stage struct {
	name      string
	role      string
	goal      string
	backstory string
	completer Completer
	verbose   bool
}

// NewStage validates cfg and returns the stage.
func NewStage(cfg StageConfig) (Stage, error) {
	if err := validation.Validate(cfg); err != nil {
		return Stage{}, fmt.Errorf("workflow: stage %q: %w", cfg.Name, err)
	}
	return Stage{
		name:      cfg.Name,
		role:      strings.TrimSpace(cfg.Role),
		goal:      strings.TrimSpace(cfg.Goal),
		backstory: strings.TrimSpace(cfg.Backstory),
		completer: cfg.Completer,
		verbose:   cfg.Verbose,
	}, nil
}

func (s Stage) Name() string      { return s.name }
func (s Stage) Role() string      { return s.role }
func (s Stage) Goal() string      { return s.goal }
func (s Stage) Backstory() string { return s.backstory }
func (s Stage) Verbose() bool     { return s.verbose }

// SystemPrompt renders the persona sent as the system message of every call.
func (s Stage) SystemPrompt() string {
	return fmt.Sprintf("You are %s. %s\nYour personal goal is: %s", s.role, s.backstory, s.goal)
}

// Task is a resolved prompt bound to the stage that answers it.
type Task struct {
	name   string
	prompt string
	stage  Stage
}

// NewTask returns a task. The prompt must be fully resolved and non-blank.
func NewTask(name, prompt string, stage Stage) (Task, error) {
	v := validation.New().Required("name", name).Required("prompt", prompt)
	v.Custom(stage.completer != nil, "stage", "is required")
	if appErr := v.Validate(); appErr != nil {
		return Task{}, fmt.Errorf("workflow: task %q: %w", name, appErr)
	}
	return Task{name: name, prompt: prompt, stage: stage}, nil
}

func (t Task) Name() string   { return t.name }
func (t Task) Prompt() string { return t.prompt }
func (t Task) Stage() Stage   { return t.stage }
