/*
Package session serializes the turns of each conversation and persists its dialog stack.

A Manager holds one mutex per active conversation, created on demand and reclaimed
by reference counting once no turn is waiting on it. Turns of different conversations
never contend beyond the brief map guard.
*/
package session
