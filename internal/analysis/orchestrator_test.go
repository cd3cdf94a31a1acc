package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/analysis"
	"github.com/redlinehq/redline/internal/domain"
	"github.com/redlinehq/redline/internal/schema"
)

// scriptedGenerator returns canned responses in order and records every
// prompt it receives, so tests can assert on the corrective re-prompt.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     []domain.PromptPair
	tasks     []string
}

func (g *scriptedGenerator) Generate(_ context.Context, task string, pair domain.PromptPair) (string, error) {
	g.calls = append(g.calls, pair)
	g.tasks = append(g.tasks, task)
	if g.err != nil {
		return "", g.err
	}
	idx := len(g.calls) - 1
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	return g.responses[idx], nil
}

const validComparison = `{
  "overallScore": 82,
  "totalClauses": 1,
  "deviations": [
    {
      "clauseTitle": "Term",
      "standardText": "five years",
      "documentText": "three years",
      "kind": "weaker",
      "severity": "major",
      "explanation": "Shorter confidentiality term than the standard.",
      "location": "Section 4"
    }
  ]
}`

const invalidComparison = `{
  "overallScore": 150,
  "totalClauses": 1,
  "deviations": [
    {
      "clauseTitle": "Term",
      "standardText": "five years",
      "documentText": "three years",
      "kind": "weaker",
      "severity": "major",
      "explanation": "Shorter confidentiality term than the standard.",
      "location": "Section 4"
    }
  ]
}`

func TestRun_ValidFirstAttempt(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validComparison}}
	orch := analysis.New(gen, schema.Comparison())

	report, err := orch.Run(context.Background(), domain.NewPromptPair("instructions", "data"))

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 82, report.OverallScore)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, schema.TaskComparison, gen.tasks[0])
}

func TestRun_CorrectsAfterSingleFailure(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{invalidComparison, validComparison}}
	orch := analysis.New(gen, schema.Comparison())

	original := domain.NewPromptPair("instructions", "the original document text")
	report, err := orch.Run(context.Background(), original)

	require.NoError(t, err)
	assert.Equal(t, 82, report.OverallScore)
	require.Len(t, gen.calls, 2)

	// The first call carries the unmodified pair.
	assert.Equal(t, original, gen.calls[0])

	// The corrective prompt keeps the original data block and appends the
	// validator diagnostics; instructions are untouched.
	corrected := gen.calls[1]
	assert.Equal(t, original.Instructions, corrected.Instructions)
	assert.Contains(t, corrected.Data, "the original document text")
	assert.Contains(t, corrected.Data, "Your previous response had validation errors")
	assert.Contains(t, corrected.Data, "overallScore: must be at most 100")
}

func TestRun_FailsAfterSecondInvalidResponse(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{invalidComparison, invalidComparison}}
	orch := analysis.New(gen, schema.Comparison())

	report, err := orch.Run(context.Background(), domain.NewPromptPair("instructions", "data"))

	require.Error(t, err)
	assert.Nil(t, report)

	// Exactly two generator calls: the original plus one corrective
	// re-prompt. There is no further loop.
	assert.Len(t, gen.calls, 2)

	var vErr *analysis.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, schema.TaskComparison, vErr.Task)
	assert.Equal(t, 2, vErr.Attempts)
	require.NotEmpty(t, vErr.Violations)
	assert.Equal(t, "overallScore", vErr.Violations[0].Path)
	assert.Contains(t, vErr.Error(), "failed validation after 2 attempts")
}

func TestRun_GenerationErrorPropagates(t *testing.T) {
	boom := errors.New("provider exploded")
	gen := &scriptedGenerator{err: boom}
	orch := analysis.New(gen, schema.Comparison())

	report, err := orch.Run(context.Background(), domain.NewPromptPair("instructions", "data"))

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)
	// A generation failure is terminal; no corrective re-prompt follows.
	assert.Len(t, gen.calls, 1)
}

func TestRun_CanceledContext(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{validComparison}}
	orch := analysis.New(gen, schema.Comparison())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := orch.Run(ctx, domain.NewPromptPair("instructions", "data"))

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.calls)
}
