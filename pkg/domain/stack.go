package domain

// DialogFrame is the record of one active dialog instance on the stack.
type DialogFrame struct {
	// DialogID identifies the registered dialog that owns this frame.
	DialogID string `json:"dialog_id"`

	// State is private to the dialog instance.
	State map[string]any `json:"state,omitempty"`

	// StepIndex is the position of a waterfall dialog. Other dialogs leave it at 0.
	StepIndex int `json:"step_index"`
}

// NewFrame creates a fresh frame positioned at the first step.
func NewFrame(dialogID string) DialogFrame {
	return DialogFrame{
		DialogID: dialogID,
		State:    make(map[string]any),
	}
}

// Clone returns a deep copy of the frame.
func (f DialogFrame) Clone() DialogFrame {
	f.State = cloneValue(f.State).(map[string]any)
	return f
}

// Stack holds the dialog frames of a single conversation.
// The last element is the active frame.
type Stack struct {
	ConversationID string        `json:"conversation_id"`
	Frames         []DialogFrame `json:"frames"`
}

// NewStack creates an empty stack for a conversation.
func NewStack(conversationID string) *Stack {
	return &Stack{
		ConversationID: conversationID,
		Frames:         []DialogFrame{},
	}
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Active returns the top frame, or nil when the stack is empty.
// The returned pointer stays valid until the next push or pop.
func (s *Stack) Active() *DialogFrame {
	if s.Depth() == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push places a new frame on top of the stack and returns it.
func (s *Stack) Push(frame DialogFrame) *DialogFrame {
	if frame.State == nil {
		frame.State = make(map[string]any)
	}
	s.Frames = append(s.Frames, frame)
	return s.Active()
}

// Pop removes the top frame. It reports false when the stack is empty.
func (s *Stack) Pop() (DialogFrame, bool) {
	if s.Depth() == 0 {
		return DialogFrame{}, false
	}
	top := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return top, true
}

// IDs lists the dialog ids from bottom to top.
func (s *Stack) IDs() []string {
	ids := make([]string, 0, s.Depth())
	if s == nil {
		return ids
	}
	for _, f := range s.Frames {
		ids = append(ids, f.DialogID)
	}
	return ids
}

// Clone returns a deep copy so the original survives a failed turn.
func (s *Stack) Clone() *Stack {
	if s == nil {
		return nil
	}
	next := &Stack{
		ConversationID: s.ConversationID,
		Frames:         make([]DialogFrame, len(s.Frames)),
	}
	for i, f := range s.Frames {
		next.Frames[i] = f.Clone()
	}
	return next
}

// cloneValue copies maps and slices recursively. Other values are shared.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return make(map[string]any)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []DialogFrame:
		out := make([]DialogFrame, len(t))
		for i, f := range t {
			out[i] = f.Clone()
		}
		return out
	case *Stack:
		return t.Clone()
	case []QueryResult:
		out := make([]QueryResult, len(t))
		copy(out, t)
		return out
	case map[string]int:
		out := make(map[string]int, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	default:
		return v
	}
}
