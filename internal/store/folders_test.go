package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packrat-app/packrat/internal/store"
	"github.com/packrat-app/packrat/pkg/types"
)

// buildTree creates Home > Kitchen > Pantry plus a root-level Garage and
// returns the ids.
func buildTree(t *testing.T, st *store.Store) (locID, kitchenID, pantryID, garageID string) {
	t.Helper()
	ctx := context.Background()

	loc, err := st.CreateLocation(ctx, "Home", "", "")
	require.NoError(t, err)
	kitchen, err := st.CreateFolder(ctx, loc.ID, nil, "Kitchen", "", "")
	require.NoError(t, err)
	pantry, err := st.CreateFolder(ctx, loc.ID, &kitchen.ID, "Pantry", "", "")
	require.NoError(t, err)
	garage, err := st.CreateFolder(ctx, loc.ID, nil, "Garage", "", "")
	require.NoError(t, err)
	return loc.ID, kitchen.ID, pantry.ID, garage.ID
}

func addItem(t *testing.T, st *store.Store, folderID, name string) *types.Item {
	t.Helper()
	item, err := st.CreateItem(context.Background(), &types.Item{
		FolderID:        folderID,
		Name:            name,
		CurrentQuantity: 1,
	})
	require.NoError(t, err)
	return item
}

func TestFolderNesting(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, kitchenID, pantryID, _ := buildTree(t, st)

	pantry, err := st.GetFolder(ctx, pantryID)
	require.NoError(t, err)
	require.NotNil(t, pantry.ParentID)
	assert.Equal(t, kitchenID, *pantry.ParentID)
	assert.Equal(t, locID, pantry.LocationID)
}

func TestFolderParentValidation(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, kitchenID, pantryID, _ := buildTree(t, st)

	other, err := st.CreateLocation(ctx, "Office", "", "")
	require.NoError(t, err)

	// Parent in another location.
	_, err = st.CreateFolder(ctx, other.ID, &kitchenID, "Desk", "", "")
	assert.ErrorIs(t, err, types.ErrInvalidParent)

	// Dangling parent reference.
	missing := "no-such-folder"
	_, err = st.CreateFolder(ctx, locID, &missing, "Shelf", "", "")
	assert.ErrorIs(t, err, types.ErrInvalidParent)

	// A folder cannot be its own parent.
	kitchen, err := st.GetFolder(ctx, kitchenID)
	require.NoError(t, err)
	kitchen.ParentID = &kitchenID
	assert.ErrorIs(t, st.UpdateFolder(ctx, kitchen), types.ErrInvalidParent)

	// Re-parenting onto a descendant would close a cycle.
	kitchen.ParentID = &pantryID
	assert.ErrorIs(t, st.UpdateFolder(ctx, kitchen), types.ErrInvalidParent)

	// The location assignment is immutable.
	kitchen, err = st.GetFolder(ctx, kitchenID)
	require.NoError(t, err)
	kitchen.LocationID = other.ID
	kitchen.ParentID = nil
	assert.ErrorIs(t, st.UpdateFolder(ctx, kitchen), types.ErrInvalidParent)
}

func TestFolderReparentWithinLocation(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	_, _, pantryID, garageID := buildTree(t, st)

	pantry, err := st.GetFolder(ctx, pantryID)
	require.NoError(t, err)
	pantry.ParentID = &garageID
	require.NoError(t, st.UpdateFolder(ctx, pantry))

	got, err := st.GetFolder(ctx, pantryID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, garageID, *got.ParentID)
}

func TestDeleteFolderCascades(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, kitchenID, pantryID, _ := buildTree(t, st)

	spoon := addItem(t, st, kitchenID, "Spoon")
	rice := addItem(t, st, pantryID, "Rice")

	require.NoError(t, st.DeleteFolder(ctx, kitchenID))

	_, err := st.GetFolder(ctx, kitchenID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = st.GetFolder(ctx, pantryID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = st.GetItem(ctx, spoon.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = st.GetItem(ctx, rice.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	// Only the Garage survives.
	sum, err := st.SummarizeLocation(ctx, locID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.FolderCount)
	assert.EqualValues(t, 0, sum.ItemCount)
}

func TestDeleteLocationCascades(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, kitchenID, pantryID, garageID := buildTree(t, st)
	item := addItem(t, st, pantryID, "Rice")

	require.NoError(t, st.DeleteLocation(ctx, locID))

	for _, id := range []string{kitchenID, pantryID, garageID} {
		_, err := st.GetFolder(ctx, id)
		assert.ErrorIs(t, err, types.ErrNotFound)
	}
	_, err := st.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSummaries(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, kitchenID, pantryID, _ := buildTree(t, st)

	addItem(t, st, kitchenID, "Spoon")
	addItem(t, st, pantryID, "Rice")
	addItem(t, st, pantryID, "Olive Oil")

	// Location counts cover the whole subtree.
	locSum, err := st.SummarizeLocation(ctx, locID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, locSum.FolderCount)
	assert.EqualValues(t, 3, locSum.ItemCount)

	// Folder counts cover direct children only.
	kitchenSum, err := st.SummarizeFolder(ctx, kitchenID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, kitchenSum.SubFolderCount)
	assert.EqualValues(t, 1, kitchenSum.ItemCount)

	pantrySum, err := st.SummarizeFolder(ctx, pantryID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pantrySum.SubFolderCount)
	assert.EqualValues(t, 2, pantrySum.ItemCount)

	_, err = st.SummarizeLocation(ctx, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = st.SummarizeFolder(ctx, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBreadcrumbs(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, _, pantryID, _ := buildTree(t, st)

	trail, err := st.Breadcrumbs(ctx, locID, &pantryID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.True(t, trail[0].IsLocation)
	assert.Equal(t, "Home", trail[0].Name)
	assert.Equal(t, "Kitchen", trail[1].Name)
	assert.Equal(t, "Pantry", trail[2].Name)

	// Location only.
	trail, err = st.Breadcrumbs(ctx, locID, nil)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "Home", trail[0].Name)

	// Folder under a different location.
	other, err := st.CreateLocation(ctx, "Office", "", "")
	require.NoError(t, err)
	_, err = st.Breadcrumbs(ctx, other.ID, &pantryID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListChildren(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	locID, kitchenID, _, _ := buildTree(t, st)
	addItem(t, st, kitchenID, "Spoon")

	// Root level: folders only, no items attach to a location.
	folders, items, err := st.ListChildren(ctx, locID, nil)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Garage", folders[0].Name)
	assert.Equal(t, "Kitchen", folders[1].Name)
	assert.Empty(t, items)

	// Inside Kitchen: one sub-folder, one item.
	folders, items, err = st.ListChildren(ctx, locID, &kitchenID)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Pantry", folders[0].Name)
	require.Len(t, items, 1)
	assert.Equal(t, "Spoon", items[0].Name)
}
