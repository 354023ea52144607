// Package qna provides a dialog that answers questions from a knowledge base.
//
// The dialog is a four step waterfall: query the knowledge base, optionally
// confirm a low-confidence match with the user (active learning), offer
// multi-turn follow-up prompts, and display the answer. The last two steps run
// through a Strategy so callers can replace them without re-implementing the rest.
package qna
