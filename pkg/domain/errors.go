package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDialog is returned when a dialog id is not registered.
	ErrUnknownDialog = errors.New("unknown dialog")

	// ErrEmptyStack is returned when an operation needs an active frame and there is none.
	ErrEmptyStack = errors.New("dialog stack is empty")

	// ErrStepContract is returned when a step does not honour the waterfall contract.
	ErrStepContract = errors.New("step contract violation")

	// ErrDuplicateDialog is returned when a dialog id is registered twice.
	ErrDuplicateDialog = errors.New("duplicate dialog id")

	// ErrConversationNotFound is returned when a conversation stack cannot be found in the store.
	ErrConversationNotFound = errors.New("conversation not found")
)

// UnknownDialogError names the dialog that could not be resolved.
type UnknownDialogError struct {
	DialogID string
}

func (e *UnknownDialogError) Error() string {
	return fmt.Sprintf("dialog '%s' is not registered", e.DialogID)
}

// Unwrap allows errors.Is(err, ErrUnknownDialog).
func (e *UnknownDialogError) Unwrap() error {
	return ErrUnknownDialog
}

// StepContractViolation describes a step that returned an unusable result.
type StepContractViolation struct {
	DialogID  string
	StepIndex int
	Reason    string
}

func (e *StepContractViolation) Error() string {
	return fmt.Sprintf("dialog '%s' step %d: %s", e.DialogID, e.StepIndex, e.Reason)
}

// Unwrap allows errors.Is(err, ErrStepContract).
func (e *StepContractViolation) Unwrap() error {
	return ErrStepContract
}
