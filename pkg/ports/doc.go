/*
Package ports defines the driven ports (interfaces) of the waterfall engine.

These interfaces decouple the dialog state machine from the host runtime, allowing
the engine to run behind a console, a chat channel or a test harness.

# Key Interfaces

  - ActivitySender: delivers messages and trace activities to the user.
  - KnowledgeBase: answers a question with an ordered list of candidates.
  - Trainer: optional feedback sink for active learning.
  - StackStore: keeps the dialog stack of each conversation between turns.
*/
package ports
