package domain

// Prompt is a follow-up question attached to an answer.
type Prompt struct {
	DisplayOrder int    `json:"display_order" yaml:"display_order" mapstructure:"display_order"`
	QnAID        int    `json:"qna_id" yaml:"qna_id" mapstructure:"qna_id"`
	DisplayText  string `json:"display_text" yaml:"display_text" mapstructure:"display_text"`
}

// AnswerContext holds the multi-turn prompts of an answer.
type AnswerContext struct {
	Prompts []Prompt `json:"prompts,omitempty" yaml:"prompts,omitempty" mapstructure:"prompts"`
}

// QueryResult is one candidate answer returned by a knowledge lookup.
type QueryResult struct {
	ID        int               `json:"id" yaml:"id" mapstructure:"id"`
	Answer    string            `json:"answer" yaml:"answer" mapstructure:"answer"`
	Score     float64           `json:"score" yaml:"score" mapstructure:"score"`
	Questions []string          `json:"questions,omitempty" yaml:"questions,omitempty" mapstructure:"questions"`
	Source    string            `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" mapstructure:"metadata"`
	Context   *AnswerContext    `json:"context,omitempty" yaml:"context,omitempty" mapstructure:"context"`
}

// HasPrompts reports whether the answer offers follow-up prompts.
func (r QueryResult) HasPrompts() bool {
	return r.Context != nil && len(r.Context.Prompts) > 0
}

// StrictFilter restricts answers to those whose metadata matches.
type StrictFilter struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}

// Join operators for strict filters.
const (
	JoinAnd = "AND"
	JoinOr  = "OR"
)

// RequestContext carries the previous turn of a multi-turn exchange.
type RequestContext struct {
	PreviousQnAID     int    `json:"previous_qna_id" mapstructure:"previous_qna_id"`
	PreviousUserQuery string `json:"previous_user_query" mapstructure:"previous_user_query"`
}

// QueryOptions tunes a knowledge lookup.
type QueryOptions struct {
	Top                       int             `json:"top" mapstructure:"top"`
	ScoreThreshold            float64         `json:"score_threshold" mapstructure:"score_threshold"`
	StrictFilters             []StrictFilter  `json:"strict_filters,omitempty" mapstructure:"strict_filters"`
	StrictFiltersJoinOperator string          `json:"strict_filters_join_operator,omitempty" mapstructure:"strict_filters_join_operator"`
	Context                   *RequestContext `json:"context,omitempty" mapstructure:"context"`
	QnAID                     int             `json:"qna_id,omitempty" mapstructure:"qna_id"`
}

// FeedbackRecord tells the knowledge service which suggestion the user picked.
type FeedbackRecord struct {
	UserID       string `json:"user_id"`
	UserQuestion string `json:"user_question"`
	QnAID        int    `json:"qna_id"`
}
