// End-to-end lifecycle test: builds a realistic inventory, exercises search,
// restock, and backup together, and verifies the cascades between them.
package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packrat-app/packrat/internal/backup"
	"github.com/packrat-app/packrat/internal/imagestore/local"
	"github.com/packrat-app/packrat/internal/store"
	"github.com/packrat-app/packrat/pkg/types"
)

type env struct {
	store  *store.Store
	images *local.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	images, err := local.New(filepath.Join(dir, "images"))
	require.NoError(t, err)
	st, err := store.Open(filepath.Join(dir, "db"), images)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return &env{store: st, images: images}
}

func TestInventoryLifecycle(t *testing.T) {
	e := newEnv(t)
	st := e.store
	ctx := context.Background()

	// Build: Home > Kitchen > Pantry, Home > Garage.
	home, err := st.CreateLocation(ctx, "Home", "house", "")
	require.NoError(t, err)
	kitchen, err := st.CreateFolder(ctx, home.ID, nil, "Kitchen", "", "")
	require.NoError(t, err)
	pantry, err := st.CreateFolder(ctx, home.ID, &kitchen.ID, "Pantry", "", "")
	require.NoError(t, err)
	garage, err := st.CreateFolder(ctx, home.ID, nil, "Garage", "", "")
	require.NoError(t, err)

	imgBytes := []byte("blender portrait")
	rel, err := e.images.Save(ctx, ".jpg", bytes.NewReader(imgBytes))
	require.NoError(t, err)

	blender, err := st.CreateItem(ctx, &types.Item{
		FolderID: kitchen.ID, Name: "Blender", ImagePath: rel,
		CurrentQuantity: 1, MinQuantity: 1,
	})
	require.NoError(t, err)
	oliveOil, err := st.CreateItem(ctx, &types.Item{
		FolderID: pantry.ID, Name: "Olive Oil", Note: "extra virgin",
		CurrentQuantity: 0, MinQuantity: 2,
	})
	require.NoError(t, err)
	_, err = st.CreateItem(ctx, &types.Item{
		FolderID: garage.ID, Name: "Drill", CurrentQuantity: 1,
	})
	require.NoError(t, err)

	food, err := st.CreateTag(ctx, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, st.SetTagsForItem(ctx, oliveOil.ID, []string{food.ID}))

	// Aggregates see the whole subtree.
	sum, err := st.SummarizeLocation(ctx, home.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sum.FolderCount)
	assert.EqualValues(t, 3, sum.ItemCount)

	// Search finds the oil via its tag and reports its place.
	hits, err := st.Search(ctx, "food")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, oliveOil.ID, hits[0].ItemID)
	assert.Equal(t, "Pantry", hits[0].FolderName)
	assert.Equal(t, "Home", hits[0].LocationName)

	// Restock picks up the oil, nothing else.
	restock, err := st.GenerateRestockList(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, restock)
	entries, err := st.ListEntries(ctx, restock.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Olive Oil", entries[0].Name)
	require.NotNil(t, entries[0].QuantityNeeded)
	assert.EqualValues(t, 2, *entries[0].QuantityNeeded)

	// Back up, then keep mutating the source.
	var archive bytes.Buffer
	require.NoError(t, backup.Export(ctx, st, e.images, &archive))

	// Deleting Kitchen cascades to Pantry and both items, and reclaims the
	// blender's image file.
	require.NoError(t, st.DeleteFolder(ctx, kitchen.ID))
	_, err = st.GetItem(ctx, blender.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = st.GetItem(ctx, oliveOil.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.False(t, e.images.Exists(rel))

	sum, err = st.SummarizeLocation(ctx, home.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.FolderCount)
	assert.EqualValues(t, 1, sum.ItemCount)

	// Importing the archive brings the pre-delete world back, image included.
	require.NoError(t, backup.Import(ctx, st, e.images,
		bytes.NewReader(archive.Bytes()), int64(archive.Len())))

	got, err := st.GetItem(ctx, blender.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blender", got.Name)
	assert.True(t, e.images.Exists(rel))

	trail, err := st.Breadcrumbs(ctx, home.ID, &pantry.ID)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, "Home", trail[0].Name)
	assert.Equal(t, "Kitchen", trail[1].Name)
	assert.Equal(t, "Pantry", trail[2].Name)

	tags, err := st.TagsForItem(ctx, oliveOil.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Food", tags[0].Name)
}
