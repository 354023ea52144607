package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStackStoreContract runs a suite of tests to verify that a StackStore implementation
// adheres to the defined interface contract.
func RunStackStoreContract(t *testing.T, store StackStore) {
	ctx := context.Background()
	conversationID := "contract-test-conversation-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		stack := domain.NewStack(conversationID)
		frame := stack.Push(domain.NewFrame("RootDialog"))
		frame.State["foo"] = "bar"
		stack.Push(domain.DialogFrame{DialogID: "ComplaintDialog", StepIndex: 1})

		err := store.Save(ctx, conversationID, stack)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []string{"RootDialog", "ComplaintDialog"}, loaded.IDs())
		assert.Equal(t, 1, loaded.Active().StepIndex)
		assert.Equal(t, "bar", loaded.Frames[0].State["foo"])
	})

	t.Run("Isolation", func(t *testing.T) {
		stack := domain.NewStack(conversationID)
		stack.Push(domain.NewFrame("RootDialog"))
		require.NoError(t, store.Save(ctx, conversationID, stack))

		// Mutating the caller's copy must not leak into the store.
		stack.Active().State["leak"] = true
		stack.Push(domain.NewFrame("Other"))

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Depth())
		assert.NotContains(t, loaded.Active().State, "leak")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+conversationID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, conversationID, domain.NewStack(conversationID))
		require.NoError(t, err)

		err = store.Delete(ctx, conversationID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, conversationID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound, "Load after Delete should return ErrConversationNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := conversationID + "-1"
		id2 := conversationID + "-2"
		_ = store.Save(ctx, id1, domain.NewStack(id1))
		_ = store.Save(ctx, id2, domain.NewStack(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		conversations, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, conversations, id1)
		assert.Contains(t, conversations, id2)
	})
}
