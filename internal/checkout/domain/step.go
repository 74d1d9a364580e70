package domain

type Step string

const (
	StepInformation  Step = "information"
	StepShipping     Step = "shipping"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

var stepOrder = map[Step]int{
	StepInformation:  0,
	StepShipping:     1,
	StepPayment:      2,
	StepConfirmation: 3,
}

func (s Step) IsValid() bool {
	_, ok := stepOrder[s]
	return ok
}

func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}

// CanReturnTo reports whether an explicit user navigation from one step back
// to another is allowed: only to a strictly earlier step, and never out of
// the terminal confirmation step.
func CanReturnTo(from, to Step) bool {
	if from.IsTerminal() {
		return false
	}
	fromIdx, ok := stepOrder[from]
	if !ok {
		return false
	}
	toIdx, ok := stepOrder[to]
	if !ok {
		return false
	}
	return toIdx < fromIdx
}
