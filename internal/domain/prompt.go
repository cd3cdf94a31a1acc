package domain

// PromptPair carries the instruction and data blocks sent to the generation
// service. Pairs are values and never mutated in place; a corrected pair is a
// new value derived from the original.
type PromptPair struct {
	// Instructions is the system-level instruction block describing the
	// task, the decision vocabularies, and the required output contract.
	Instructions string `json:"instructions"`

	// Data is the user-level block carrying the document under analysis
	// and, after a corrective retry, the appended validation feedback.
	Data string `json:"data"`
}

// NewPromptPair constructs a prompt pair from its two blocks.
func NewPromptPair(instructions, data string) PromptPair {
	return PromptPair{Instructions: instructions, Data: data}
}

// WithCorrection derives a new pair whose data block carries the validation
// feedback from a failed attempt. The receiver is left untouched.
func (p PromptPair) WithCorrection(feedback string) PromptPair {
	return PromptPair{
		Instructions: p.Instructions,
		Data:         p.Data + "\n\n" + feedback,
	}
}
