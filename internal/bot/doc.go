// Package bot assembles the sample QnA bot: the answer classification hook,
// the strategy that acts on it, the root dialog with its complaint flow, and
// the turn handler that ties a conversation's stack to the engine.
package bot
