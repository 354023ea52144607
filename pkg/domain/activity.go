package domain

import "time"

// ActivityType classifies an Activity.
type ActivityType string

const (
	// ActivityMessage carries user or bot text.
	ActivityMessage ActivityType = "message"
	// ActivityTrace carries diagnostic information that hosts may hide from users.
	ActivityTrace ActivityType = "trace"
	// ActivityConversationUpdate announces members joining or leaving.
	ActivityConversationUpdate ActivityType = "conversationUpdate"
	// ActivityEvent is a named, non-message notification.
	ActivityEvent ActivityType = "event"
)

// Card action types.
const (
	ActionIMBack  = "imBack"
	ActionOpenURL = "openUrl"
)

// CardAction is a button attached to a message.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// Account identifies a participant of the conversation.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Activity is a unit of communication between the user and the bot.
type Activity struct {
	ID             string       `json:"id,omitempty"`
	Type           ActivityType `json:"type"`
	Text           string       `json:"text,omitempty"`
	From           Account      `json:"from"`
	Recipient      Account      `json:"recipient"`
	ConversationID string       `json:"conversation_id"`

	// MembersAdded is set on conversation updates.
	MembersAdded []Account `json:"members_added,omitempty"`

	// Trace fields.
	Name      string `json:"name,omitempty"`
	Label     string `json:"label,omitempty"`
	Value     any    `json:"value,omitempty"`
	ValueType string `json:"value_type,omitempty"`

	SuggestedActions []CardAction `json:"suggested_actions,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
}

// NewMessage creates a message activity with the given text.
func NewMessage(text string) Activity {
	return Activity{
		Type: ActivityMessage,
		Text: text,
	}
}

// NewSuggestedActions creates a message with buttons.
func NewSuggestedActions(actions []CardAction, text string) Activity {
	msg := NewMessage(text)
	msg.SuggestedActions = actions
	return msg
}

// NewTrace creates a trace activity.
func NewTrace(name string, value any, valueType, label string) Activity {
	return Activity{
		Type:      ActivityTrace,
		Name:      name,
		Value:     value,
		ValueType: valueType,
		Label:     label,
	}
}
