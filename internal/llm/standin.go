package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redlinehq/redline/internal/domain"
	llmerrors "github.com/redlinehq/redline/internal/llm/errors"
	"github.com/redlinehq/redline/internal/schema"
)

// StandIn is the deterministic Generator used when no provider credential is
// configured. It returns a fixed, schema-valid payload per task so the rest
// of the pipeline runs identically in both modes, without network access.
type StandIn struct {
	samples map[string]string
	logger  *slog.Logger
}

// NewStandIn creates a stand-in generator with canned payloads for the
// built-in task contracts. Unknown tasks fail loudly rather than returning a
// default payload that would validate against the wrong contract.
func NewStandIn() *StandIn {
	return &StandIn{
		samples: map[string]string{
			schema.TaskComparison: comparisonSample,
			schema.TaskRisk:       riskSample,
		},
		logger: slog.Default().With("component", "standin"),
	}
}

// Generate implements Generator with a fixed payload, ignoring the prompt.
func (s *StandIn) Generate(ctx context.Context, task string, _ domain.PromptPair) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sample, ok := s.samples[task]
	if !ok {
		return "", fmt.Errorf("%w: %s", llmerrors.ErrUnknownTask, task)
	}

	s.logger.Debug("returning stand-in payload", "task", task)
	return sample, nil
}

const comparisonSample = `{
  "overallScore": 78,
  "totalClauses": 2,
  "deviations": [
    {
      "clauseTitle": "Limitation of Liability",
      "standardText": "Neither party's aggregate liability shall exceed the fees paid in the twelve months preceding the claim.",
      "documentText": "Supplier's liability shall be unlimited for all claims arising under this Agreement.",
      "kind": "weaker",
      "severity": "critical",
      "explanation": "The document removes the liability cap required by the standard, exposing the counterparty to unbounded claims.",
      "suggestedText": "Each party's aggregate liability shall not exceed the fees paid in the twelve months preceding the claim.",
      "location": "Section 9.2"
    },
    {
      "clauseTitle": "Governing Law",
      "standardText": "This Agreement is governed by the laws of the State of New York.",
      "documentText": "This Agreement is governed by the laws of the State of New York.",
      "kind": "match",
      "severity": "info",
      "explanation": "The governing law clause matches the standard wording.",
      "location": "Section 14.1"
    }
  ]
}`

const riskSample = `{
  "overallScore": 64,
  "totalFindings": 2,
  "documentType": "NDA",
  "findings": [
    {
      "title": "Perpetual confidentiality obligation",
      "category": "confidentiality",
      "severity": "major",
      "excerpt": "The confidentiality obligations under this Agreement shall survive indefinitely.",
      "explanation": "An unbounded survival period is unusual for commercial NDAs and may be unenforceable in some jurisdictions.",
      "suggestedText": "The confidentiality obligations shall survive for five (5) years following termination.",
      "location": "Section 4"
    },
    {
      "title": "One-sided indemnity",
      "category": "indemnification",
      "severity": "minor",
      "excerpt": "Recipient shall indemnify Discloser against all losses arising from any breach.",
      "explanation": "Indemnification runs only in favor of the disclosing party with no reciprocal obligation.",
      "location": "Section 7"
    }
  ]
}`
