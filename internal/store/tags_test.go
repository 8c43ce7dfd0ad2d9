package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packrat-app/packrat/pkg/types"
)

func TestTagCRUD(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	food, err := st.CreateTag(ctx, "Food", nil)
	require.NoError(t, err)
	spice, err := st.CreateTag(ctx, "Spice", &food.ID)
	require.NoError(t, err)

	got, err := st.GetTag(ctx, spice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, food.ID, *got.ParentID)

	tags, err := st.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Food", tags[0].Name)
	assert.Equal(t, "Spice", tags[1].Name)
}

func TestTagParent(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	food, err := st.CreateTag(ctx, "Food", nil)
	require.NoError(t, err)
	spice, err := st.CreateTag(ctx, "Spice", nil)
	require.NoError(t, err)

	require.NoError(t, st.SetTagParent(ctx, spice.ID, &food.ID))
	got, err := st.GetTag(ctx, spice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, food.ID, *got.ParentID)

	// Detach.
	require.NoError(t, st.SetTagParent(ctx, spice.ID, nil))
	got, err = st.GetTag(ctx, spice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	assert.ErrorIs(t, st.SetTagParent(ctx, spice.ID, &spice.ID), types.ErrInvalidParent)

	missing := "no-such-tag"
	_, err = st.CreateTag(ctx, "Orphan", &missing)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteTagDetachesChildrenAndLinks(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	_, kitchenID, _, _ := buildTree(t, st)
	item := addItem(t, st, kitchenID, "Rice")

	food, err := st.CreateTag(ctx, "Food", nil)
	require.NoError(t, err)
	grain, err := st.CreateTag(ctx, "Grain", &food.ID)
	require.NoError(t, err)
	require.NoError(t, st.SetTagsForItem(ctx, item.ID, []string{food.ID, grain.ID}))

	require.NoError(t, st.DeleteTag(ctx, food.ID))

	// The child survives, detached; the deleted tag's links are gone.
	got, err := st.GetTag(ctx, grain.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	tags, err := st.TagsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Grain", tags[0].Name)
}

func TestSetTagsForItemReplacesAtomically(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	_, kitchenID, _, _ := buildTree(t, st)
	item := addItem(t, st, kitchenID, "Rice")

	food, err := st.CreateTag(ctx, "Food", nil)
	require.NoError(t, err)
	grain, err := st.CreateTag(ctx, "Grain", nil)
	require.NoError(t, err)
	pantryTag, err := st.CreateTag(ctx, "Pantry Staple", nil)
	require.NoError(t, err)

	// Duplicate ids collapse to one link.
	require.NoError(t, st.SetTagsForItem(ctx, item.ID, []string{food.ID, food.ID, grain.ID}))
	tags, err := st.TagsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// A full replace, not a merge.
	require.NoError(t, st.SetTagsForItem(ctx, item.ID, []string{pantryTag.ID}))
	tags, err = st.TagsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Pantry Staple", tags[0].Name)

	// An unknown tag id fails the whole call and leaves the set untouched.
	err = st.SetTagsForItem(ctx, item.ID, []string{food.ID, "no-such-tag"})
	assert.ErrorIs(t, err, types.ErrNotFound)
	tags, err = st.TagsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Pantry Staple", tags[0].Name)

	// Clearing with an empty set.
	require.NoError(t, st.SetTagsForItem(ctx, item.ID, nil))
	tags, err = st.TagsForItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
