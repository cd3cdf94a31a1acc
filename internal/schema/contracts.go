package schema

import (
	"github.com/redlinehq/redline/internal/domain"
)

// Task names for the built-in contracts. Generators receive these alongside
// the prompt pair; the stand-in keys its canned payloads by them.
const (
	TaskComparison = "comparison"
	TaskRisk       = "risk"
)

// Comparison returns the contract for playbook comparison results.
func Comparison() Contract[domain.ComparisonReport] {
	return NewContract(TaskComparison, (*domain.ComparisonReport).Validate)
}

// Risk returns the contract for general risk-finding results.
func Risk() Contract[domain.RiskReport] {
	return NewContract(TaskRisk, (*domain.RiskReport).Validate)
}
