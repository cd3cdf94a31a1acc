// Package domain defines the core types for contract analysis: the closed-set
// vocabularies shared between prompt composition and result validation, the two
// report shapes returned by the generation pipeline, and the prompt pair value
// type. Types here are plain values with no I/O; validation constraints live on
// the types themselves so every consumer checks results the same way.
package domain

// Severity classifies how urgent a finding or deviation is.
// The set is closed; prompt instructions and validation both derive from it.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// Severities returns all valid severity values in display order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityMajor, SeverityMinor, SeverityInfo}
}

// IsValid reports whether s is a member of the closed severity set.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor, SeverityInfo:
		return true
	default:
		return false
	}
}

// DeviationKind classifies how a document clause relates to its standard
// counterpart in a comparison analysis.
type DeviationKind string

const (
	DeviationMatch     DeviationKind = "match"
	DeviationMissing   DeviationKind = "missing"
	DeviationWeaker    DeviationKind = "weaker"
	DeviationStronger  DeviationKind = "stronger"
	DeviationDifferent DeviationKind = "different"
)

// DeviationKinds returns all valid deviation classifications.
func DeviationKinds() []DeviationKind {
	return []DeviationKind{
		DeviationMatch, DeviationMissing, DeviationWeaker,
		DeviationStronger, DeviationDifferent,
	}
}

// IsValid reports whether k is a member of the closed deviation set.
func (k DeviationKind) IsValid() bool {
	switch k {
	case DeviationMatch, DeviationMissing, DeviationWeaker, DeviationStronger, DeviationDifferent:
		return true
	default:
		return false
	}
}

// RiskCategory classifies a general risk finding.
type RiskCategory string

const (
	RiskLiability       RiskCategory = "liability"
	RiskIndemnification RiskCategory = "indemnification"
	RiskTermination     RiskCategory = "termination"
	RiskPayment         RiskCategory = "payment"
	RiskConfidentiality RiskCategory = "confidentiality"
	RiskIP              RiskCategory = "ip"
	RiskCompliance      RiskCategory = "compliance"
	RiskOther           RiskCategory = "other"
)

// RiskCategories returns all valid risk categories.
func RiskCategories() []RiskCategory {
	return []RiskCategory{
		RiskLiability, RiskIndemnification, RiskTermination, RiskPayment,
		RiskConfidentiality, RiskIP, RiskCompliance, RiskOther,
	}
}

// IsValid reports whether c is a member of the closed category set.
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskLiability, RiskIndemnification, RiskTermination, RiskPayment,
		RiskConfidentiality, RiskIP, RiskCompliance, RiskOther:
		return true
	default:
		return false
	}
}

// DeviationItem describes how a single document clause deviates from its
// standard counterpart.
type DeviationItem struct {
	// ClauseTitle names the standard clause being compared.
	ClauseTitle string `json:"clauseTitle" validate:"required"`

	// StandardText is the expected clause wording from the playbook.
	StandardText string `json:"standardText"`

	// DocumentText is the closest matching excerpt from the document,
	// empty when the clause is missing entirely.
	DocumentText string `json:"documentText"`

	// Kind classifies the deviation; must be a member of DeviationKinds.
	Kind DeviationKind `json:"kind" validate:"required,deviation_kind"`

	// Severity rates the urgency of the deviation.
	Severity Severity `json:"severity" validate:"required,severity"`

	// Explanation describes the legal impact of the deviation.
	Explanation string `json:"explanation" validate:"required"`

	// SuggestedText proposes replacement wording, when applicable.
	SuggestedText string `json:"suggestedText,omitempty"`

	// Location hints where in the document the clause was found.
	Location string `json:"location"`
}

// ComparisonReport is the structured result of comparing a document against a
// standard-clause playbook.
type ComparisonReport struct {
	// OverallScore rates conformance to the standard from 0 to 100.
	OverallScore int `json:"overallScore" validate:"min=0,max=100"`

	// TotalClauses is the number of standard clauses evaluated.
	TotalClauses int `json:"totalClauses" validate:"min=0"`

	// Deviations lists per-clause results in playbook order.
	Deviations []DeviationItem `json:"deviations" validate:"dive"`
}

// Validate checks the report against its contract constraints.
// All violations are reported, not just the first.
func (r *ComparisonReport) Validate() error { return validate.Struct(r) }

// RiskFinding describes a single risk identified in a document.
type RiskFinding struct {
	// Title is a short name for the finding.
	Title string `json:"title" validate:"required"`

	// Category classifies the risk; must be a member of RiskCategories.
	Category RiskCategory `json:"category" validate:"required,risk_category"`

	// Severity rates the urgency of the finding.
	Severity Severity `json:"severity" validate:"required,severity"`

	// Excerpt quotes the offending document text.
	Excerpt string `json:"excerpt"`

	// Explanation describes why the excerpt is risky.
	Explanation string `json:"explanation" validate:"required"`

	// SuggestedText proposes an alternative wording, when applicable.
	SuggestedText string `json:"suggestedText,omitempty"`

	// Location hints where in the document the excerpt was found.
	Location string `json:"location"`
}

// RiskReport is the structured result of a general risk analysis.
type RiskReport struct {
	// OverallScore rates the document's overall risk posture from 0 to 100,
	// higher meaning safer.
	OverallScore int `json:"overallScore" validate:"min=0,max=100"`

	// TotalFindings is the number of findings identified.
	TotalFindings int `json:"totalFindings" validate:"min=0"`

	// DocumentType labels the kind of document analyzed (e.g. "NDA").
	DocumentType string `json:"documentType" validate:"required"`

	// Findings lists identified risks in document order.
	Findings []RiskFinding `json:"findings" validate:"dive"`
}

// Validate checks the report against its contract constraints.
func (r *RiskReport) Validate() error { return validate.Struct(r) }
