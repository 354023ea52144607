// Package runtime implements the dialog stack engine and the waterfall step sequencer.
//
// A DialogContext owns one conversation's stack for the duration of a turn. Dialogs
// are looked up by id in a DialogSet, pushed with Begin, resumed with Continue, and
// popped with End, Replace or CancelAll. A Waterfall is a Dialog made of ordered steps;
// each step receives a StepContext and returns a TurnResult that either suspends the
// turn (EndOfTurn) or moves control elsewhere.
package runtime
