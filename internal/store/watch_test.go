package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packrat-app/packrat/internal/live"
)

func recv[T any](t *testing.T, ch <-chan live.Snapshot[T]) live.Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "watch channel closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return live.Snapshot[T]{}
	}
}

func TestWatchFolderSummary(t *testing.T) {
	st, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, kitchenID, _, _ := buildTree(t, st)

	ch := st.WatchFolderSummary(ctx, kitchenID)

	snap := recv(t, ch)
	require.NoError(t, snap.Err)
	assert.EqualValues(t, 1, snap.Value.SubFolderCount)
	assert.EqualValues(t, 0, snap.Value.ItemCount)

	addItem(t, st, kitchenID, "Spoon")

	snap = recv(t, ch)
	require.NoError(t, snap.Err)
	assert.EqualValues(t, 1, snap.Value.ItemCount)

	cancel()
	for range ch {
	}
}

func TestWatchSearchReactsToTagChanges(t *testing.T) {
	st, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, kitchenID, _, _ := buildTree(t, st)
	item := addItem(t, st, kitchenID, "Rice")

	ch := st.WatchSearch(ctx, "food")

	snap := recv(t, ch)
	require.NoError(t, snap.Err)
	assert.Empty(t, snap.Value)

	food, err := st.CreateTag(context.Background(), "Food", nil)
	require.NoError(t, err)
	snap = recv(t, ch)
	require.NoError(t, snap.Err)
	assert.Empty(t, snap.Value)

	require.NoError(t, st.SetTagsForItem(context.Background(), item.ID, []string{food.ID}))
	snap = recv(t, ch)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Value, 1)
	assert.Equal(t, item.ID, snap.Value[0].ItemID)
}

func TestWatchBreadcrumbsFollowsRenames(t *testing.T) {
	st, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	locID, _, pantryID, _ := buildTree(t, st)

	ch := st.WatchBreadcrumbs(ctx, locID, &pantryID)

	snap := recv(t, ch)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Value, 3)
	assert.Equal(t, "Pantry", snap.Value[2].Name)

	pantry, err := st.GetFolder(context.Background(), pantryID)
	require.NoError(t, err)
	pantry.Name = "Larder"
	require.NoError(t, st.UpdateFolder(context.Background(), pantry))

	snap = recv(t, ch)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Value, 3)
	assert.Equal(t, "Larder", snap.Value[2].Name)
}
