package domain

// ClauseStandard describes one clause of a standard-clause playbook: the
// wording the organization expects and how much a deviation from it matters.
type ClauseStandard struct {
	Title        string   `json:"title" yaml:"title" validate:"required"`
	ExpectedText string   `json:"expectedText" yaml:"expected_text" validate:"required"`
	Importance   Severity `json:"importance" yaml:"importance" validate:"required,severity"`
}

// Playbook is an ordered set of standard clauses a document is compared
// against. An empty clause list is valid; the composer renders an explicit
// no-clauses condition for it.
type Playbook struct {
	Name    string           `json:"name" yaml:"name" validate:"required"`
	Clauses []ClauseStandard `json:"clauses" yaml:"clauses" validate:"dive"`
}

// Validate checks the playbook's structural constraints.
func (p *Playbook) Validate() error { return validate.Struct(p) }
