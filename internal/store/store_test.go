package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packrat-app/packrat/internal/imagestore/local"
	"github.com/packrat-app/packrat/internal/store"
	"github.com/packrat-app/packrat/pkg/types"
)

// newTestStore opens a fresh engine in a temp directory with a real local
// image store attached.
func newTestStore(t *testing.T) (*store.Store, *local.Store) {
	t.Helper()
	dir := t.TempDir()
	images, err := local.New(filepath.Join(dir, "images"))
	require.NoError(t, err)
	st, err := store.Open(filepath.Join(dir, "db"), images)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, images
}

func TestLocationCRUD(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	loc, err := st.CreateLocation(ctx, "Home", "house", "")
	require.NoError(t, err)
	require.NotEmpty(t, loc.ID)
	assert.Equal(t, "Home", loc.Name)
	assert.False(t, loc.CreatedAt.IsZero())

	got, err := st.GetLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, loc.ID, got.ID)
	assert.Equal(t, loc.Name, got.Name)

	got.Name = "Apartment"
	require.NoError(t, st.UpdateLocation(ctx, got))
	got, err = st.GetLocation(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apartment", got.Name)

	require.NoError(t, st.DeleteLocation(ctx, loc.ID))
	_, err = st.GetLocation(ctx, loc.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLocationValidation(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateLocation(ctx, "", "", "")
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = st.GetLocation(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)

	err = st.UpdateLocation(ctx, &types.Location{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	err = st.DeleteLocation(ctx, "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListLocationsOrderedByName(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Workshop", "Attic", "Garage"} {
		_, err := st.CreateLocation(ctx, name, "", "")
		require.NoError(t, err)
	}

	locs, err := st.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 3)
	assert.Equal(t, "Attic", locs[0].Name)
	assert.Equal(t, "Garage", locs[1].Name)
	assert.Equal(t, "Workshop", locs[2].Name)
}

func TestCloseIsIdempotent(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Close())
	require.NoError(t, st.Close())

	_, err := st.ListLocations(ctx)
	assert.ErrorIs(t, err, types.ErrClosed)
	_, err = st.CreateLocation(ctx, "Home", "", "")
	assert.ErrorIs(t, err, types.ErrClosed)
}

func TestOpenIsReentrantOnSameDir(t *testing.T) {
	dir := t.TempDir()
	images, err := local.New(filepath.Join(dir, "images"))
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(dir, "db"), images)
	require.NoError(t, err)
	loc, err := st.CreateLocation(context.Background(), "Home", "", "")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// Reopening applies no-op migrations and sees the prior rows.
	st, err = store.Open(filepath.Join(dir, "db"), images)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.GetLocation(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Name)
}
