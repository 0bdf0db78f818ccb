package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/minsky/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunProgramStoreContract runs a suite of tests to verify that a ProgramStore implementation
// adheres to the defined interface contract.
func RunProgramStoreContract(t *testing.T, store ProgramStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")
	adder := domain.NewProgram(2, domain.NewRule(0, 0, 1, -1))

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, adder)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, adder.NumTapes(), loaded.NumTapes())
		assert.Equal(t, adder.Rules(), loaded.Rules())
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		replacement := domain.NewProgram(1, domain.NewRule(0, 1, -1), domain.NewRule(1, 0, 0))
		require.NoError(t, store.Save(ctx, name, replacement))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, replacement.Rules(), loaded.Rules())
	})

	t.Run("Empty Program", func(t *testing.T) {
		empty := name + "-empty"
		require.NoError(t, store.Save(ctx, empty, domain.NewProgram(3)))
		defer func() { _ = store.Delete(ctx, empty) }()

		loaded, err := store.Load(ctx, empty)
		require.NoError(t, err)
		assert.Equal(t, 3, loaded.NumTapes())
		assert.Equal(t, 0, loaded.NumRules())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		err := store.Save(ctx, "../escape", adder)
		assert.ErrorIs(t, err, domain.ErrInvalidProgramName)

		_, err = store.Load(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidProgramName)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, adder))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProgramNotFound, "Load after Delete should return ErrProgramNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete of a missing program should not fail")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id2, adder))
		require.NoError(t, store.Save(ctx, id1, adder))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsIncreasing(t, names)
	})
}
