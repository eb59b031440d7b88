package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_SaveCopiesAccumulator(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	acc := "4"
	state := &domain.State{Entry: "2", Accumulator: &acc, Operator: domain.OpAdd}
	require.NoError(t, store.Save(ctx, "s", state))
	acc = "40"

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "4", *loaded.Accumulator)
}

func TestMemoryStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, id := range []string{"b", "c", "a"} {
		require.NoError(t, store.Save(ctx, id, domain.NewState(id)))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
