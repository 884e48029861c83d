package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestCreateRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, Recipe{
		Title:       "감자볶음",
		Description: "basic stir fry",
		Tags:        []string{"한식", "쉬움"},
		Graph:       json.RawMessage(`{"blocks":[{"id":"b1","type":"start"}]}`),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "감자볶음", got.Title)
	assert.Equal(t, []string{"한식", "쉬움"}, got.Tags)
	assert.JSONEq(t, `{"blocks":[{"id":"b1","type":"start"}]}`, string(got.Graph))
}

func TestCreateRecipe_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, Recipe{Title: "빈 레시피"})
	require.NoError(t, err)

	got, err := s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
	assert.JSONEq(t, `{"blocks":[]}`, string(got.Graph))
}

func TestCreateRecipe_RequiresTitle(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateRecipe(context.Background(), Recipe{})
	assert.Error(t, err)
}

func TestCreateRecipe_KeepsGivenID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, Recipe{ID: "fixed-id", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", created.ID)

	// Duplicate ids collide on the primary key.
	_, err = s.CreateRecipe(ctx, Recipe{ID: "fixed-id", Title: "t2"})
	assert.Error(t, err)
}

func TestGetRecipe_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRecipe(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecipes_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)
	recipes, err := s.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestListRecipes_MostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRecipe(ctx, Recipe{Title: "first"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := s.CreateRecipe(ctx, Recipe{Title: "second"})
	require.NoError(t, err)

	recipes, err := s.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID)
	assert.Equal(t, first.ID, recipes[1].ID)

	// Updating the older recipe moves it to the front.
	time.Sleep(5 * time.Millisecond)
	first.Title = "first, revised"
	_, err = s.UpdateRecipe(ctx, first)
	require.NoError(t, err)

	recipes, err = s.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, recipes[0].ID)
}

func TestUpdateRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, Recipe{Title: "before"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	created.Title = "after"
	created.Tags = []string{"저녁"}
	created.Graph = json.RawMessage(`{"blocks":[{"id":"b1","type":"start"}]}`)
	updated, err := s.UpdateRecipe(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, []string{"저녁"}, updated.Tags)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.Equal(t, created.CreatedAt.Format(time.RFC3339Nano),
		updated.CreatedAt.Format(time.RFC3339Nano))
}

func TestUpdateRecipe_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateRecipe(context.Background(), Recipe{ID: "missing", Title: "t"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateRecipe(ctx, Recipe{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecipe(ctx, created.ID))

	_, err = s.GetRecipe(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteRecipe(ctx, created.ID), ErrNotFound)
}
