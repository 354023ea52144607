package bot

import "github.com/aretw0/waterfall/pkg/domain"

// Sentinel answers recognized by Classify. Matching is exact.
const (
	ComplaintSentinel = "#ComplaintDialog"
	SourceSentinel    = "Here is the source."
)

// SourceURL is attached to the augmented source answer.
const SourceURL = "https://github.com/microsoft/botbuilder-samples"

// Action is the branch chosen by Classify.
type Action string

const (
	// ActionDelegate keeps the default behaviour.
	ActionDelegate Action = "delegate"
	// ActionReplaceDialog replaces the active dialog with the dialog id in the payload.
	ActionReplaceDialog Action = "replaceDialog"
	// ActionEndWithSource sends the activity in the payload and ends the dialog
	// with the original result.
	ActionEndWithSource Action = "endDialog"
)

// Decision is the outcome of Classify. Payload is a dialog id (string) for
// ActionReplaceDialog, a domain.Activity for ActionEndWithSource, and nil otherwise.
type Decision struct {
	Action  Action
	Payload any
}

// Classify inspects candidate answers for the sample's sentinel values.
// The complaint sentinel takes precedence over the source sentinel.
func Classify(candidates []domain.QueryResult) Decision {
	if hasAnswer(candidates, ComplaintSentinel) {
		return Decision{Action: ActionReplaceDialog, Payload: ComplaintDialogID}
	}
	if hasAnswer(candidates, SourceSentinel) {
		return Decision{Action: ActionEndWithSource, Payload: SourceMessage()}
	}
	return Decision{Action: ActionDelegate}
}

// SourceMessage is the source answer with a link to the samples repository.
func SourceMessage() domain.Activity {
	return domain.NewSuggestedActions([]domain.CardAction{{
		Type:  domain.ActionOpenURL,
		Title: "Source",
		Value: SourceURL,
	}}, SourceSentinel)
}

func hasAnswer(candidates []domain.QueryResult, answer string) bool {
	for _, c := range candidates {
		if c.Answer == answer {
			return true
		}
	}
	return false
}
