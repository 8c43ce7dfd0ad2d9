package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	src, _ := newTestStore(t)
	ctx := context.Background()

	_, kitchenID, pantryID, _ := buildTree(t, src)
	item := addItem(t, src, pantryID, "Rice")
	food, err := src.CreateTag(ctx, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, src.SetTagsForItem(ctx, item.ID, []string{food.ID}))
	list, err := src.CreateList(ctx, "Camping")
	require.NoError(t, err)
	_, err = src.AddListItem(ctx, list.ID, "Tent")
	require.NoError(t, err)
	addItem(t, src, kitchenID, "Spoon")

	snap, err := src.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Locations, 1)
	require.Len(t, snap.Folders, 3)
	require.Len(t, snap.Items, 2)
	require.Len(t, snap.Tags, 1)
	require.Len(t, snap.ItemTags, 1)
	require.Len(t, snap.PackingLists, 1)
	require.Len(t, snap.PackingListItems, 1)

	dst, _ := newTestStore(t)
	// Pre-existing rows must not survive the restore.
	_, err = dst.CreateLocation(ctx, "Stale", "", "")
	require.NoError(t, err)

	require.NoError(t, dst.Restore(ctx, snap))

	restored, err := dst.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, restored)

	tags, err := dst.TagsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Food", tags[0].Name)
}

func TestRestoreRollsBackOnBadSnapshot(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	_, _, pantryID, _ := buildTree(t, st)
	addItem(t, st, pantryID, "Rice")

	before, err := st.Snapshot(ctx)
	require.NoError(t, err)

	// An item pointing at a folder the snapshot does not contain trips the
	// deferred foreign-key check at commit.
	corrupted := *before
	corrupted.Items = append(corrupted.Items[:0:0], corrupted.Items...)
	corrupted.Items[0].FolderID = "no-such-folder"

	require.Error(t, st.Restore(ctx, &corrupted))

	after, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
