/*
Package domain contains the core domain models of the waterfall dialog engine.

It defines the entities of the dialog state machine: the stack of active dialog
frames, the result of a turn, the activities exchanged with the user and the
candidate answers returned by a knowledge lookup. The package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - DialogFrame: the record of one active dialog (id, private state, step position).
  - Stack: the ordered frames of a conversation; the last frame is the active one.
  - TurnResult: what a dialog operation reports back (waiting, complete, cancelled).
  - Activity: a message, trace or conversation event exchanged with the host.
  - QueryResult: a candidate answer produced by a knowledge lookup.
*/
package domain
