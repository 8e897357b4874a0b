// Package workflow runs a fixed, ordered list of LLM tasks one after another.
//
// A Stage is a persona (role, goal, backstory) bound to a Completer. A Task
// is a fully resolved prompt bound to a Stage. Runner.Run executes the tasks
// strictly in order and stops at the first failure:
//
//	runner := workflow.NewRunner(workflow.WithLogger(log))
//	results, err := runner.Run(ctx, tasks)
//	if appErr, ok := errors.AsAppError(err); ok {
//	    // appErr.Code == errors.ErrCodeStageFailed
//	}
package workflow
