// Package prompt renders the instruction and data blocks for each analysis
// task. Composition is a pure transformation: no I/O, no randomness, and no
// error paths. The instruction blocks spell out the decision vocabularies and
// the output contract in exactly the terms the schema package later enforces,
// so prompt and validation can never drift apart.
package prompt

import (
	"fmt"
	"strings"

	"github.com/redlinehq/redline/internal/domain"
)

// Comparison composes the prompt pair for comparing a document against a
// standard-clause playbook. A playbook with zero clauses renders an explicit
// no-clauses condition rather than an empty section.
func Comparison(documentText string, playbook domain.Playbook) domain.PromptPair {
	var b strings.Builder

	b.WriteString("You are a legal analyst comparing a contract against a standard-clause playbook.\n\n")
	b.WriteString("For each standard clause, classify the document's treatment of it as one of: ")
	b.WriteString(joinKinds())
	b.WriteString(".\n")
	b.WriteString("Rate each deviation's severity as one of: ")
	b.WriteString(joinSeverities())
	b.WriteString(".\n\n")
	b.WriteString("Respond with a single JSON object and nothing else, with this exact structure:\n")
	b.WriteString(comparisonContract)
	b.WriteString("\nEvery deviation entry must use only the classifications listed above. ")
	b.WriteString("overallScore is an integer from 0 to 100 rating conformance to the standard. ")
	b.WriteString("totalClauses must equal the number of standard clauses evaluated.\n")

	var d strings.Builder
	d.WriteString("Standard clauses")
	d.WriteString(fmt.Sprintf(" (playbook: %s):\n", playbook.Name))
	if len(playbook.Clauses) == 0 {
		d.WriteString("No standard clauses are defined for this playbook. ")
		d.WriteString("Return totalClauses of 0 and an empty deviations list.\n")
	} else {
		for i, clause := range playbook.Clauses {
			d.WriteString(fmt.Sprintf("%d. %s (importance: %s)\n", i+1, clause.Title, clause.Importance))
			d.WriteString(fmt.Sprintf("   Expected wording: %s\n", clause.ExpectedText))
		}
	}
	d.WriteString("\nDocument to analyze:\n")
	d.WriteString(documentText)

	return domain.NewPromptPair(b.String(), d.String())
}

// Risk composes the prompt pair for a general risk analysis. The jurisdiction
// label is optional and only narrows the legal context when present.
func Risk(documentText, jurisdiction string) domain.PromptPair {
	var b strings.Builder

	b.WriteString("You are a legal analyst identifying risks in a contract document.\n\n")
	b.WriteString("Classify each finding's category as one of: ")
	b.WriteString(joinCategories())
	b.WriteString(".\n")
	b.WriteString("Rate each finding's severity as one of: ")
	b.WriteString(joinSeverities())
	b.WriteString(".\n\n")
	b.WriteString("Respond with a single JSON object and nothing else, with this exact structure:\n")
	b.WriteString(riskContract)
	b.WriteString("\nEvery finding must use only the classifications listed above. ")
	b.WriteString("overallScore is an integer from 0 to 100 where higher means safer. ")
	b.WriteString("totalFindings must equal the number of findings listed.\n")
	if jurisdiction != "" {
		b.WriteString(fmt.Sprintf("Assess enforceability under the law of: %s.\n", jurisdiction))
	}

	var d strings.Builder
	d.WriteString("Document to analyze:\n")
	d.WriteString(documentText)

	return domain.NewPromptPair(b.String(), d.String())
}

// CorrectionNote renders the corrective instruction appended to the data
// block when a response failed validation.
func CorrectionNote(diagnostics string) string {
	return fmt.Sprintf(
		"Your previous response had validation errors: %s. "+
			"Fix these issues and return valid output matching the required contract.",
		diagnostics,
	)
}

const comparisonContract = `{
  "overallScore": <integer 0-100>,
  "totalClauses": <integer>,
  "deviations": [
    {
      "clauseTitle": "<standard clause title>",
      "standardText": "<expected wording from the playbook>",
      "documentText": "<closest matching excerpt, empty if missing>",
      "kind": "<classification>",
      "severity": "<severity>",
      "explanation": "<legal impact of the deviation>",
      "suggestedText": "<replacement wording, optional>",
      "location": "<where the clause appears in the document>"
    }
  ]
}
`

const riskContract = `{
  "overallScore": <integer 0-100>,
  "totalFindings": <integer>,
  "documentType": "<kind of document, e.g. NDA>",
  "findings": [
    {
      "title": "<short name for the finding>",
      "category": "<category>",
      "severity": "<severity>",
      "excerpt": "<offending document text>",
      "explanation": "<why this is risky>",
      "suggestedText": "<alternative wording, optional>",
      "location": "<where the excerpt appears in the document>"
    }
  ]
}
`

func joinSeverities() string {
	values := domain.Severities()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}

func joinKinds() string {
	values := domain.DeviationKinds()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}

func joinCategories() string {
	values := domain.RiskCategories()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}
