package domain

// TurnStatus reports where a dialog operation left the stack.
type TurnStatus string

const (
	// TurnEmpty means the stack had nothing to run.
	TurnEmpty TurnStatus = "empty"
	// TurnWaiting means the active dialog suspended and waits for the next turn's input.
	TurnWaiting TurnStatus = "waiting"
	// TurnComplete means the last dialog on the stack ended.
	TurnComplete TurnStatus = "complete"
	// TurnCancelled means the stack was cleared by a cancellation.
	TurnCancelled TurnStatus = "cancelled"
)

// Valid reports whether the status is one of the known statuses.
func (s TurnStatus) Valid() bool {
	switch s {
	case TurnEmpty, TurnWaiting, TurnComplete, TurnCancelled:
		return true
	}
	return false
}

// TurnResult is the outcome of a dialog operation.
type TurnResult struct {
	Status TurnStatus `json:"status"`
	Result any        `json:"result,omitempty"`
}

// EndReason explains why a frame left the stack.
type EndReason string

const (
	EndReasonEnded     EndReason = "ended"
	EndReasonReplaced  EndReason = "replaced"
	EndReasonCancelled EndReason = "cancelled"
)
