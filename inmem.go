package gorecipes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// memRepository is the in-memory counterpart of the Mongo repository, used in
// tests. Documents round-trip through bson so merge/replace semantics match
// the real store.
type memRepository[T Entity] struct {
	mu           sync.RWMutex
	docs         map[ID]bson.M
	order        []ID
	newEntity    func() T
	uniqueFields []string
	searchFields []string
}

func NewMemRepository[T Entity](newEntity func() T, uniqueFields, searchFields []string) Repository[T] {
	return &memRepository[T]{
		docs:         map[ID]bson.M{},
		newEntity:    newEntity,
		uniqueFields: uniqueFields,
		searchFields: searchFields,
	}
}

func NewMemUserRepository() Repository[*User] {
	return NewMemRepository(func() *User { return &User{} },
		[]string{"username", "email"}, []string{"username", "email"})
}

func NewMemRecipeRepository() Repository[*Recipe] {
	return NewMemRepository(func() *Recipe { return &Recipe{} },
		[]string{"title"}, []string{"title", "category"})
}

func toDoc(entity any) (bson.M, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *memRepository[T]) fromDoc(doc bson.M) (T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	entity := r.newEntity()
	if err := bson.Unmarshal(raw, entity); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}

func (r *memRepository[T]) Create(_ context.Context, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entity.EntityID() == "" {
		entity.SetEntityID(NextID())
	}
	doc, err := toDoc(entity)
	if err != nil {
		var zero T
		return zero, &RepositoryError{Message: "failed to create document", Cause: err}
	}
	if err := r.checkUnique(doc, entity.EntityID()); err != nil {
		var zero T
		return zero, &RepositoryError{Message: "failed to create document", Cause: err}
	}

	r.docs[entity.EntityID()] = doc
	r.order = append(r.order, entity.EntityID())
	return entity, nil
}

func (r *memRepository[T]) GetByID(_ context.Context, id ID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		var zero T
		return zero, &RepositoryError{Message: "failed to find document", Cause: ErrNotFound}
	}
	return r.fromDoc(doc)
}

func (r *memRepository[T]) FindOne(_ context.Context, field, value string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if fmt.Sprint(r.docs[id][field]) == value {
			return r.fromDoc(r.docs[id])
		}
	}
	var zero T
	return zero, &RepositoryError{Message: "failed to find document", Cause: ErrNotFound}
}

func (r *memRepository[T]) Query(_ context.Context, page, perPage int) (Page[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	start := (page - 1) * perPage
	if start < 0 {
		start = 0
	}
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := []T{}
	for _, id := range r.order[start:end] {
		entity, err := r.fromDoc(r.docs[id])
		if err != nil {
			return Page[T]{}, &RepositoryError{Message: "failed to decode document", Cause: err}
		}
		data = append(data, entity)
	}
	return Page[T]{Data: data, Pagination: NewPagination(total, page, perPage)}, nil
}

func (r *memRepository[T]) UpdateOrReplace(_ context.Context, existing T, payload map[string]any, replace bool) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := existing.EntityID()
	current, ok := r.docs[id]
	if !ok {
		var zero T
		return zero, &RepositoryError{Message: "failed to update document", Cause: ErrNotFound}
	}

	next := bson.M{}
	if !replace {
		for k, v := range current {
			next[k] = v
		}
	}
	for k, v := range payload {
		if k == "_id" || k == "id" {
			continue
		}
		next[k] = v
	}
	next["_id"] = string(id)

	if err := r.checkUnique(next, id); err != nil {
		var zero T
		return zero, &RepositoryError{Message: "failed to update document", Cause: err}
	}

	r.docs[id] = next
	return r.fromDoc(next)
}

func (r *memRepository[T]) Delete(_ context.Context, existing T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := existing.EntityID()
	if _, ok := r.docs[id]; !ok {
		return &RepositoryError{Message: "failed to delete document", Cause: ErrNotFound}
	}
	delete(r.docs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memRepository[T]) SearchTerm(_ context.Context, pattern string) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pattern = strings.ToLower(pattern)
	matches := []T{}
	for _, id := range r.order {
		doc := r.docs[id]
		for _, f := range r.searchFields {
			v, ok := doc[f]
			if !ok {
				continue
			}
			// An empty pattern matches every document, like an empty $regex.
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), pattern) {
				entity, err := r.fromDoc(doc)
				if err != nil {
					return nil, &RepositoryError{Message: "failed to decode document", Cause: err}
				}
				matches = append(matches, entity)
				break
			}
		}
	}
	return matches, nil
}

func (r *memRepository[T]) checkUnique(doc bson.M, self ID) error {
	for _, f := range r.uniqueFields {
		v, ok := doc[f]
		if !ok {
			continue
		}
		for id, other := range r.docs {
			if id == self {
				continue
			}
			if fmt.Sprint(other[f]) == fmt.Sprint(v) {
				return ErrDuplicateKey
			}
		}
	}
	return nil
}
