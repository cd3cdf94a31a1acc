// Package analysis implements the self-correcting orchestrator at the heart
// of the pipeline. It composes a Generator with a schema contract: generate,
// validate, and on the first validation failure re-prompt once with the
// validator's diagnostics appended. It never returns a result that has not
// passed validation; there is no partial success path.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redlinehq/redline/internal/domain"
	"github.com/redlinehq/redline/internal/llm"
	"github.com/redlinehq/redline/internal/prompt"
	"github.com/redlinehq/redline/internal/schema"
)

// State identifies a position in the orchestration state machine.
type State string

const (
	StateRequested            State = "requested"
	StateAwaitingGeneration   State = "awaiting_generation"
	StateValidating           State = "validating"
	StateSucceeded            State = "succeeded"
	StateRetryingWithFeedback State = "retrying_with_feedback"
	StateFailed               State = "failed"
)

// maxValidationAttempts bounds the outer validation loop: the original
// generation plus exactly one corrective re-prompt. More retries burn latency
// and cost for diminishing returns on a zero-temperature generator; zero
// would make the pipeline brittle against near-miss output a single nudge
// reliably fixes.
const maxValidationAttempts = 2

// ValidationFailedError is the terminal error when the corrected response
// still violates the contract. It carries the final diagnostics for
// operator-level debugging; callers present a generic failure to end users.
type ValidationFailedError struct {
	Task       string
	Attempts   int
	Violations []schema.Violation
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("task %q failed validation after %d attempts: %d violation(s): %s",
		e.Task, e.Attempts, len(e.Violations), joinViolations(e.Violations))
}

func joinViolations(vs []schema.Violation) string {
	out := ""
	for i, v := range vs {
		if i > 0 {
			out += "; "
		}
		out += v.Path + ": " + v.Message
	}
	return out
}

// Orchestrator runs the validated generation pipeline for one contract type.
// It is stateless across requests; every counter and prompt lives in the
// scope of a single Run call.
type Orchestrator[T any] struct {
	gen      llm.Generator
	contract schema.Contract[T]
	logger   *slog.Logger
}

// New creates an orchestrator for the given generator strategy and contract.
// The generator may be the live client or the deterministic stand-in; the
// orchestrator never branches on which.
func New[T any](gen llm.Generator, contract schema.Contract[T]) *Orchestrator[T] {
	return &Orchestrator[T]{
		gen:      gen,
		contract: contract,
		logger:   slog.Default().With("component", "orchestrator", "task", contract.Name),
	}
}

// Run drives the state machine to completion for one prompt pair.
// Transitions: Requested → AwaitingGeneration → Validating, then either
// Succeeded, RetryingWithFeedback (once, back to AwaitingGeneration with the
// diagnostics appended to the data block), or Failed. The context is checked
// between states so an abandoned request stops without leaking retry loops.
func (o *Orchestrator[T]) Run(ctx context.Context, pair domain.PromptPair) (*T, error) {
	o.logger.Debug("state transition", "state", StateRequested)

	current := pair
	for attempt := 1; attempt <= maxValidationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request abandoned: %w", err)
		}

		o.logger.Debug("state transition", "state", StateAwaitingGeneration, "attempt", attempt)
		raw, err := o.gen.Generate(ctx, o.contract.Name, current)
		if err != nil {
			o.logger.Debug("state transition", "state", StateFailed, "attempt", attempt)
			return nil, fmt.Errorf("generation failed: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("request abandoned: %w", err)
		}

		o.logger.Debug("state transition", "state", StateValidating, "attempt", attempt)
		outcome := o.contract.Validate(raw)
		if outcome.Valid() {
			o.logger.Debug("state transition", "state", StateSucceeded, "attempt", attempt)
			return outcome.Result, nil
		}

		if attempt < maxValidationAttempts {
			o.logger.Info("response failed validation, retrying with feedback",
				"attempt", attempt,
				"violations", len(outcome.Violations))
			o.logger.Debug("state transition", "state", StateRetryingWithFeedback)
			current = pair.WithCorrection(prompt.CorrectionNote(outcome.Feedback()))
			continue
		}

		o.logger.Debug("state transition", "state", StateFailed, "attempt", attempt)
		return nil, &ValidationFailedError{
			Task:       o.contract.Name,
			Attempts:   attempt,
			Violations: outcome.Violations,
		}
	}

	// Unreachable: the loop always returns.
	return nil, fmt.Errorf("task %q: validation loop exited unexpectedly", o.contract.Name)
}
