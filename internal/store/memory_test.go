package store

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryWriteRead(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	require.NoError(t, gw.Write(ctx, "users/u1", record{Name: "alice", Count: 2}))

	var out record
	require.NoError(t, gw.Read(ctx, "users/u1", &out))
	require.Equal(t, "alice", out.Name)
	require.Equal(t, 2, out.Count)

	err := gw.Read(ctx, "users/missing", &out)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMergeIsShallow(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	require.NoError(t, gw.Write(ctx, "users/u1", record{Name: "alice", Count: 2}))
	require.NoError(t, gw.Merge(ctx, "users/u1", map[string]any{"count": 5}))

	var out record
	require.NoError(t, gw.Read(ctx, "users/u1", &out))
	require.Equal(t, "alice", out.Name)
	require.Equal(t, 5, out.Count)
}

func TestMemoryAppendProducesDistinctKeys(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		key, err := gw.Append(ctx, "items", record{Count: i})
		require.NoError(t, err)
		require.False(t, seen[key])
		seen[key] = true
	}

	children, err := gw.List(ctx, "items")
	require.NoError(t, err)
	require.Len(t, children, 10)
}

func TestMemoryAppendKeysAreCreationOrdered(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	// Same-second appends must still sort in creation order.
	keys := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		key, err := gw.Append(ctx, "items", record{Count: i})
		require.NoError(t, err)
		keys = append(keys, key)
	}

	require.True(t, sort.StringsAreSorted(keys))
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1], keys[i])
	}

	children, err := gw.List(ctx, "items")
	require.NoError(t, err)
	require.Equal(t, keys, SortedKeys(children))
}

func TestMemoryListExcludesGrandchildren(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	require.NoError(t, gw.Write(ctx, "notifications/u1/n1", record{Name: "one"}))
	require.NoError(t, gw.Write(ctx, "notifications/u1/n2", record{Name: "two"}))
	require.NoError(t, gw.Write(ctx, "notifications/u2/n3", record{Name: "other"}))

	children, err := gw.List(ctx, "notifications/u1")
	require.NoError(t, err)
	require.Len(t, children, 2)

	parents, err := gw.List(ctx, "notifications")
	require.NoError(t, err)
	require.Empty(t, parents)
}

func TestMemoryDeleteRemovesSubtree(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	require.NoError(t, gw.Write(ctx, "grievances/g1", record{Name: "root"}))
	require.NoError(t, gw.Write(ctx, "grievances/g1/extra", record{Name: "child"}))
	require.NoError(t, gw.Delete(ctx, "grievances/g1"))

	var out record
	require.ErrorIs(t, gw.Read(ctx, "grievances/g1", &out), ErrNotFound)
	require.ErrorIs(t, gw.Read(ctx, "grievances/g1/extra", &out), ErrNotFound)
}

func TestMemoryUpdateAtomic(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	require.NoError(t, gw.Write(ctx, "users/u1", record{Count: 1}))
	err := gw.Update(ctx, "users/u1", func(current json.RawMessage) (any, error) {
		var r record
		require.NoError(t, json.Unmarshal(current, &r))
		r.Count++
		return r, nil
	})
	require.NoError(t, err)

	var out record
	require.NoError(t, gw.Read(ctx, "users/u1", &out))
	require.Equal(t, 2, out.Count)
}

func TestMemorySubscribe(t *testing.T) {
	gw := NewMemory()
	ctx := context.Background()

	var changes []Change
	cancel, err := gw.Subscribe(ctx, "users", func(c Change) {
		changes = append(changes, c)
	})
	require.NoError(t, err)

	require.NoError(t, gw.Write(ctx, "users/u1", record{}))
	require.NoError(t, gw.Merge(ctx, "users/u1", map[string]any{"count": 1}))
	require.NoError(t, gw.Write(ctx, "grievances/g1", record{}))

	require.Len(t, changes, 2)
	require.Equal(t, OpWrite, changes[0].Op)
	require.Equal(t, OpMerge, changes[1].Op)

	cancel()
	require.NoError(t, gw.Write(ctx, "users/u2", record{}))
	require.Len(t, changes, 2)
}
