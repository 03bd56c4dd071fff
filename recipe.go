package gorecipes

import "strings"

const DefaultCategory = "Uncategorized"

type Recipe struct {
	ID           ID       `bson:"_id" json:"id"`
	Title        string   `bson:"title" json:"title"`
	Ingredients  []string `bson:"ingredients" json:"ingredients"`
	Servings     string   `bson:"servings" json:"servings"`
	Instructions []string `bson:"instructions" json:"instructions"`
	Category     string   `bson:"category" json:"category"`
	Admin        ID       `bson:"admin,omitempty" json:"admin,omitempty"`
	ImageURL     string   `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

func (r *Recipe) EntityID() ID      { return r.ID }
func (r *Recipe) SetEntityID(id ID) { r.ID = id }

// NewRecipe validates the required fields and returns an unsaved recipe.
// Category falls back to DefaultCategory when empty.
func NewRecipe(title string, ingredients []string, servings string, instructions []string) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if strings.TrimSpace(servings) == "" {
		return nil, ErrEmptyServings
	}
	if len(instructions) == 0 {
		return nil, ErrNoInstructions
	}

	return &Recipe{
		Title:        title,
		Ingredients:  ingredients,
		Servings:     servings,
		Instructions: instructions,
		Category:     DefaultCategory,
	}, nil
}

// validateRecipePayload checks an update payload before it reaches the store.
// A replace must carry the full required field set; a partial update only has
// to keep the fields it names non-empty.
func validateRecipePayload(payload map[string]any, replace bool) error {
	checks := []struct {
		key string
		err *ValidationError
	}{
		{"title", ErrEmptyTitle},
		{"ingredients", ErrNoIngredients},
		{"servings", ErrEmptyServings},
		{"instructions", ErrNoInstructions},
	}

	for _, c := range checks {
		v, present := payload[c.key]
		if !present {
			if replace {
				return c.err
			}
			continue
		}
		if payloadFieldEmpty(v) {
			return c.err
		}
	}
	return nil
}

func payloadFieldEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}
