package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunActContract runs a suite of tests verifying that an Act adheres to the
// lifecycle contract. newAct must return a fresh, never activated act.
func RunActContract(t *testing.T, newAct func(t *testing.T) Act) {
	t.Run("Cancel is idempotent", func(t *testing.T) {
		act := newAct(t)
		require.NoError(t, act.Activate())

		require.NoError(t, act.Cancel())
		doneOnce, err := act.Done()
		require.NoError(t, err)

		require.NoError(t, act.Cancel())
		doneTwice, err := act.Done()
		require.NoError(t, err)

		assert.True(t, doneOnce, "act should be done after cancel")
		assert.Equal(t, doneOnce, doneTwice)
	})

	t.Run("Cancel before activate succeeds", func(t *testing.T) {
		act := newAct(t)
		assert.NoError(t, act.Cancel())
	})

	t.Run("Activate is idempotent", func(t *testing.T) {
		once := newAct(t)
		require.NoError(t, once.Activate())
		require.NoError(t, once.Update())
		doneOnce, err := once.Done()
		require.NoError(t, err)

		twice := newAct(t)
		require.NoError(t, twice.Activate())
		require.NoError(t, twice.Activate())
		require.NoError(t, twice.Update())
		doneTwice, err := twice.Done()
		require.NoError(t, err)

		assert.Equal(t, doneOnce, doneTwice)
	})

	t.Run("Update after cancel keeps it done", func(t *testing.T) {
		act := newAct(t)
		require.NoError(t, act.Activate())
		require.NoError(t, act.Cancel())
		require.NoError(t, act.Update())

		done, err := act.Done()
		require.NoError(t, err)
		assert.True(t, done)
	})
}
