package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlinehq/redline/internal/domain"
	"github.com/redlinehq/redline/internal/llm"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
	"github.com/redlinehq/redline/internal/schema"
)

func TestStandIn_ComparisonPayloadSatisfiesContract(t *testing.T) {
	gen := llm.NewStandIn()

	raw, err := gen.Generate(context.Background(), schema.TaskComparison, domain.PromptPair{})
	require.NoError(t, err)

	outcome := schema.Comparison().Validate(raw)
	require.True(t, outcome.Valid(), "violations: %s", outcome.Feedback())
	assert.Equal(t, 78, outcome.Result.OverallScore)
	assert.Equal(t, 2, outcome.Result.TotalClauses)
	assert.Len(t, outcome.Result.Deviations, 2)
}

func TestStandIn_RiskPayloadSatisfiesContract(t *testing.T) {
	gen := llm.NewStandIn()

	raw, err := gen.Generate(context.Background(), schema.TaskRisk, domain.PromptPair{})
	require.NoError(t, err)

	outcome := schema.Risk().Validate(raw)
	require.True(t, outcome.Valid(), "violations: %s", outcome.Feedback())
	assert.Equal(t, "NDA", outcome.Result.DocumentType)
	assert.Len(t, outcome.Result.Findings, 2)
}

func TestStandIn_Deterministic(t *testing.T) {
	gen := llm.NewStandIn()

	first, err := gen.Generate(context.Background(), schema.TaskComparison, domain.PromptPair{})
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), schema.TaskComparison, domain.PromptPair{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStandIn_UnknownTask(t *testing.T) {
	gen := llm.NewStandIn()

	raw, err := gen.Generate(context.Background(), "summarization", domain.PromptPair{})

	assert.Empty(t, raw)
	assert.ErrorIs(t, err, llmerrors.ErrUnknownTask)
}

func TestStandIn_CanceledContext(t *testing.T) {
	gen := llm.NewStandIn()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, schema.TaskComparison, domain.PromptPair{})
	assert.ErrorIs(t, err, context.Canceled)
}
