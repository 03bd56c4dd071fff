package gorecipes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRecipe(t *testing.T, repo Repository[*Recipe], title, category string) *Recipe {
	t.Helper()
	r, err := NewRecipe(title, []string{"flour", "sugar"}, "4", []string{"mix", "bake"})
	require.NoError(t, err)
	if category != "" {
		r.Category = category
	}
	created, err := repo.Create(context.Background(), r)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()

	created := storedRecipe(t, repo, "Muffin", "")
	assert.NotEmpty(t, created.ID)

	dup, _ := NewRecipe("Muffin", []string{"flour"}, "2", []string{"bake"})
	_, err := repo.Create(ctx, dup)

	var repoErr *RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRepositoryGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	created := storedRecipe(t, repo, "Muffin", "")

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryQuery(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		storedRecipe(t, repo, title, "")
	}

	page, err := repo.Query(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, Pagination{TotalCount: 5, Page: 1, PerPage: 2, TotalPages: 3}, page.Pagination)

	page, err = repo.Query(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// An out-of-range page is an empty result, not an error.
	page, err = repo.Query(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestRepositoryUpdateMergesPartialPayload(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	created := storedRecipe(t, repo, "Muffin", "")

	updated, err := repo.UpdateOrReplace(ctx, created, map[string]any{"category": "Dessert"}, false)
	require.NoError(t, err)

	// Only the named field changes.
	assert.Equal(t, "Dessert", updated.Category)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Ingredients, updated.Ingredients)
	assert.Equal(t, created.Servings, updated.Servings)
	assert.Equal(t, created.Instructions, updated.Instructions)
}

func TestRepositoryReplaceOverwritesAndKeepsID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	created := storedRecipe(t, repo, "Muffin", "Dessert")

	payload := map[string]any{
		"title":        "Scone",
		"ingredients":  []any{"oats"},
		"servings":     "2",
		"instructions": []any{"bake"},
	}
	updated, err := repo.UpdateOrReplace(ctx, created, payload, true)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Scone", updated.Title)
	assert.Equal(t, []string{"oats"}, updated.Ingredients)
	assert.Equal(t, "2", updated.Servings)
	// Fields absent from the replacement payload are gone.
	assert.Empty(t, updated.Category)
}

func TestRepositoryUpdateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	storedRecipe(t, repo, "Muffin", "")
	other := storedRecipe(t, repo, "Scone", "")

	_, err := repo.UpdateOrReplace(ctx, other, map[string]any{"title": "Muffin"}, false)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	created := storedRecipe(t, repo, "Muffin", "")

	require.NoError(t, repo.Delete(ctx, created))

	// Deleting an already-deleted entity surfaces NotFound.
	assert.ErrorIs(t, repo.Delete(ctx, created), ErrNotFound)
}

func TestRepositorySearchTerm(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRecipeRepository()
	storedRecipe(t, repo, "Blueberry Muffin", "Dessert")
	storedRecipe(t, repo, "Lentil Soup", "Dinner")

	tests := []struct {
		pattern string
		want    int
	}{
		{"muffin", 1},
		{"MUFFIN", 1},
		{"dinner", 1},
		{"n", 2},
		{"sushi", 0},
		// Empty pattern matches broadly, not narrowly.
		{"", 2},
	}

	for _, tt := range tests {
		got, err := repo.SearchTerm(ctx, tt.pattern)
		require.NoError(t, err)
		assert.Len(t, got, tt.want, "pattern=%q", tt.pattern)
	}
}

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewMemUserRepository()

	u, err := NewUser("nelly", "nelly@example.com")
	require.NoError(t, err)
	_, err = repo.Create(ctx, u)
	require.NoError(t, err)

	sameName, _ := NewUser("nelly", "other@example.com")
	_, err = repo.Create(ctx, sameName)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	sameEmail, _ := NewUser("other", "nelly@example.com")
	_, err = repo.Create(ctx, sameEmail)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
