// Package gorecipes implements a document-backed recipe catalog: users and
// recipes persisted in MongoDB behind one generic repository, thin services
// on top, outbound webhook notification on recipe creation, and the HTTP
// handlers serving it all.
package gorecipes

import (
	"context"

	"github.com/rs/xid"
)

type ID string

func NextID() ID {
	return ID(xid.New().String())
}

// Entity is anything the generic repository can persist.
type Entity interface {
	EntityID() ID
	SetEntityID(ID)
}

// Page is one page of query results together with its pagination metadata.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Repository is the entity-agnostic store contract. Implementations wrap
// every store failure in a RepositoryError; callers never see driver errors.
type Repository[T Entity] interface {
	Create(ctx context.Context, entity T) (T, error)
	GetByID(ctx context.Context, id ID) (T, error)
	FindOne(ctx context.Context, field, value string) (T, error)
	Query(ctx context.Context, page, perPage int) (Page[T], error)
	// UpdateOrReplace merges the payload into the existing entity, or, when
	// replace is true, overwrites the full mutable field set. Identity fields
	// are preserved either way.
	UpdateOrReplace(ctx context.Context, existing T, payload map[string]any, replace bool) (T, error)
	Delete(ctx context.Context, existing T) error
	// SearchTerm matches the pattern case-insensitively against the
	// repository's configured text fields. An empty pattern matches broadly.
	SearchTerm(ctx context.Context, pattern string) ([]T, error)
}
