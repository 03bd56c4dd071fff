package gorecipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecipe(t *testing.T) {
	ingredients := []string{"flour", "sugar"}
	instructions := []string{"mix", "bake"}

	tests := []struct {
		name                  string
		title, servings       string
		ingredients, steps    []string
		wantErr               error
	}{
		{name: "missing title", servings: "4", ingredients: ingredients, steps: instructions, wantErr: ErrEmptyTitle},
		{name: "missing ingredients", title: "Muffin", servings: "4", steps: instructions, wantErr: ErrNoIngredients},
		{name: "missing servings", title: "Muffin", ingredients: ingredients, steps: instructions, wantErr: ErrEmptyServings},
		{name: "missing instructions", title: "Muffin", servings: "4", ingredients: ingredients, wantErr: ErrNoInstructions},
		{name: "valid", title: "Muffin", servings: "4", ingredients: ingredients, steps: instructions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecipe(tt.title, tt.ingredients, tt.servings, tt.steps)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr == nil {
				assert.Equal(t, "Muffin", r.Title)
				assert.Equal(t, DefaultCategory, r.Category)
			}
		})
	}
}

func TestValidateRecipePayload(t *testing.T) {
	full := map[string]any{
		"title":        "Muffin",
		"ingredients":  []any{"flour"},
		"servings":     "4",
		"instructions": []any{"bake"},
	}

	tests := []struct {
		name    string
		payload map[string]any
		replace bool
		wantErr error
	}{
		{name: "full replace", payload: full, replace: true},
		{name: "replace missing title", payload: map[string]any{"ingredients": []any{"flour"}, "servings": "4", "instructions": []any{"bake"}}, replace: true, wantErr: ErrEmptyTitle},
		{name: "partial single field", payload: map[string]any{"category": "Dessert"}},
		{name: "partial empty title", payload: map[string]any{"title": " "}, wantErr: ErrEmptyTitle},
		{name: "partial empty ingredients", payload: map[string]any{"ingredients": []any{}}, wantErr: ErrNoIngredients},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, validateRecipePayload(tt.payload, tt.replace))
		})
	}
}
