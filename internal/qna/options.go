package qna

import (
	"fmt"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Defaults used when a field of Options is left at its zero value.
const (
	DefaultThreshold               = 0.3
	DefaultTop                     = 3
	DefaultNoAnswer                = "No QnAMaker answers found."
	DefaultActiveLearningCardTitle = "Did you mean:"
	DefaultCardNoMatchText         = "None of the above."
	DefaultCardNoMatchResponse     = "Thanks for the feedback."
)

// Options configure a single run of the QnA dialog. They may be given as
// Options, *Options or a map decoded with mapstructure.
type Options struct {
	Threshold                 float64               `mapstructure:"threshold" yaml:"threshold"`
	Top                       int                   `mapstructure:"top" yaml:"top"`
	StrictFilters             []domain.StrictFilter `mapstructure:"strict_filters" yaml:"strict_filters"`
	StrictFiltersJoinOperator string                `mapstructure:"strict_filters_join_operator" yaml:"strict_filters_join_operator"`

	// Context and QnAID are set when the dialog restarts to follow a prompt.
	Context *domain.RequestContext `mapstructure:"context" yaml:"-"`
	QnAID   int                    `mapstructure:"qna_id" yaml:"-"`

	NoAnswer                string `mapstructure:"no_answer" yaml:"no_answer"`
	ActiveLearningCardTitle string `mapstructure:"active_learning_card_title" yaml:"active_learning_card_title"`
	CardNoMatchText         string `mapstructure:"card_no_match_text" yaml:"card_no_match_text"`
	CardNoMatchResponse     string `mapstructure:"card_no_match_response" yaml:"card_no_match_response"`
	DisableActiveLearning   bool   `mapstructure:"disable_active_learning" yaml:"disable_active_learning"`
}

// DecodeOptions converts begin options into Options.
func DecodeOptions(raw any) (Options, error) {
	switch v := raw.(type) {
	case nil:
		return Options{}, nil
	case Options:
		return v, nil
	case *Options:
		if v == nil {
			return Options{}, nil
		}
		return *v, nil
	case map[string]any:
		var opts Options
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &opts,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return Options{}, err
		}
		if err := dec.Decode(v); err != nil {
			return Options{}, fmt.Errorf("decode qna options: %w", err)
		}
		return opts, nil
	default:
		return Options{}, fmt.Errorf("unsupported qna options type %T", raw)
	}
}

// merge fills the zero fields of o from base, then from the package defaults.
func (o Options) merge(base Options) Options {
	if o.Threshold == 0 {
		o.Threshold = base.Threshold
	}
	if o.Top == 0 {
		o.Top = base.Top
	}
	if o.StrictFilters == nil {
		o.StrictFilters = base.StrictFilters
	}
	if o.StrictFiltersJoinOperator == "" {
		o.StrictFiltersJoinOperator = base.StrictFiltersJoinOperator
	}
	if o.NoAnswer == "" {
		o.NoAnswer = base.NoAnswer
	}
	if o.ActiveLearningCardTitle == "" {
		o.ActiveLearningCardTitle = base.ActiveLearningCardTitle
	}
	if o.CardNoMatchText == "" {
		o.CardNoMatchText = base.CardNoMatchText
	}
	if o.CardNoMatchResponse == "" {
		o.CardNoMatchResponse = base.CardNoMatchResponse
	}
	o.DisableActiveLearning = o.DisableActiveLearning || base.DisableActiveLearning
	return o.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Top == 0 {
		o.Top = DefaultTop
	}
	if o.StrictFiltersJoinOperator == "" {
		o.StrictFiltersJoinOperator = domain.JoinAnd
	}
	if o.NoAnswer == "" {
		o.NoAnswer = DefaultNoAnswer
	}
	if o.ActiveLearningCardTitle == "" {
		o.ActiveLearningCardTitle = DefaultActiveLearningCardTitle
	}
	if o.CardNoMatchText == "" {
		o.CardNoMatchText = DefaultCardNoMatchText
	}
	if o.CardNoMatchResponse == "" {
		o.CardNoMatchResponse = DefaultCardNoMatchResponse
	}
	return o
}

// query builds the knowledge base request.
func (o Options) query() domain.QueryOptions {
	return domain.QueryOptions{
		Top:                       o.Top,
		ScoreThreshold:            o.Threshold,
		StrictFilters:             o.StrictFilters,
		StrictFiltersJoinOperator: o.StrictFiltersJoinOperator,
		Context:                   o.Context,
		QnAID:                     o.QnAID,
	}
}
