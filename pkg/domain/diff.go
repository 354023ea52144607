package domain

// StackDiff represents the changes between two stacks of the same conversation.
// It is designed to be logged or serialized after a turn.
type StackDiff struct {
	ConversationID string `json:"conversation_id"`

	// Popped lists the dialog ids removed from the top, top first.
	Popped []string `json:"popped,omitempty"`

	// Pushed lists the dialog ids added on top, bottom first.
	Pushed []string `json:"pushed,omitempty"`

	// Advanced maps a surviving dialog id to its new step index.
	Advanced map[string]int `json:"advanced,omitempty"`
}

// Diff calculates the difference between oldStack and newStack.
// If oldStack is nil, every frame of newStack is reported as pushed.
func Diff(oldStack, newStack *Stack) *StackDiff {
	if newStack == nil {
		return nil
	}

	diff := &StackDiff{
		ConversationID: newStack.ConversationID,
	}

	// Longest common prefix by dialog id.
	common := 0
	for common < oldStack.Depth() && common < newStack.Depth() {
		if oldStack.Frames[common].DialogID != newStack.Frames[common].DialogID {
			break
		}
		common++
	}

	for i := oldStack.Depth() - 1; i >= common; i-- {
		diff.Popped = append(diff.Popped, oldStack.Frames[i].DialogID)
	}
	for i := common; i < newStack.Depth(); i++ {
		diff.Pushed = append(diff.Pushed, newStack.Frames[i].DialogID)
	}

	for i := 0; i < common; i++ {
		if oldStack.Frames[i].StepIndex != newStack.Frames[i].StepIndex {
			if diff.Advanced == nil {
				diff.Advanced = make(map[string]int)
			}
			diff.Advanced[newStack.Frames[i].DialogID] = newStack.Frames[i].StepIndex
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes. A nil diff is empty.
func (d *StackDiff) IsEmpty() bool {
	return d == nil || (len(d.Popped) == 0 && len(d.Pushed) == 0 && len(d.Advanced) == 0)
}
