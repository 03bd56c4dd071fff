package gorecipes

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository[T Entity] struct {
	collection   *mongo.Collection
	newEntity    func() T
	searchFields []string
}

// NewMongoRepository returns a Repository backed by the given collection.
// searchFields are the document fields SearchTerm matches against.
func NewMongoRepository[T Entity](c *mongo.Collection, newEntity func() T, searchFields ...string) Repository[T] {
	return &mongoRepository[T]{collection: c, newEntity: newEntity, searchFields: searchFields}
}

// NewMongoUserRepository binds the generic repository to the users collection.
func NewMongoUserRepository(c *mongo.Collection) Repository[*User] {
	return NewMongoRepository(c, func() *User { return &User{} }, "username", "email")
}

// NewMongoRecipeRepository binds the generic repository to the recipes
// collection. Search covers title and category, like the original API.
func NewMongoRecipeRepository(c *mongo.Collection) Repository[*Recipe] {
	return NewMongoRepository(c, func() *Recipe { return &Recipe{} }, "title", "category")
}

// EnsureIndexes creates the unique indexes uniqueness enforcement relies on.
func EnsureIndexes(ctx context.Context, users, recipes *mongo.Collection) error {
	unique := options.Index().SetUnique(true)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}
	_, err = recipes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: 1}}, Options: unique,
	})
	return err
}

func (r *mongoRepository[T]) Create(ctx context.Context, entity T) (T, error) {
	if entity.EntityID() == "" {
		entity.SetEntityID(NextID())
	}
	if _, err := r.collection.InsertOne(ctx, entity); err != nil {
		var zero T
		return zero, r.wrap(err, "failed to create document")
	}
	return entity, nil
}

func (r *mongoRepository[T]) GetByID(ctx context.Context, id ID) (T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepository[T]) FindOne(ctx context.Context, field, value string) (T, error) {
	return r.findOne(ctx, bson.M{field: value})
}

func (r *mongoRepository[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	entity := r.newEntity()
	if err := r.collection.FindOne(ctx, filter).Decode(entity); err != nil {
		var zero T
		return zero, r.wrap(err, "failed to find document")
	}
	return entity, nil
}

func (r *mongoRepository[T]) Query(ctx context.Context, page, perPage int) (Page[T], error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Page[T]{}, r.wrap(err, "failed to count documents")
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage)).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return Page[T]{}, r.wrap(err, "failed to query documents")
	}

	data := []T{}
	if err := cursor.All(ctx, &data); err != nil {
		return Page[T]{}, r.wrap(err, "failed to decode documents")
	}

	return Page[T]{Data: data, Pagination: NewPagination(int(total), page, perPage)}, nil
}

func (r *mongoRepository[T]) UpdateOrReplace(ctx context.Context, existing T, payload map[string]any, replace bool) (T, error) {
	id := existing.EntityID()
	doc := bson.M{}
	for k, v := range payload {
		if k == "_id" || k == "id" {
			continue
		}
		doc[k] = v
	}

	var err error
	if replace {
		// ReplaceOne keeps the matched document's _id.
		_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	} else {
		_, err = r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc})
	}
	if err != nil {
		var zero T
		return zero, r.wrap(err, "failed to update document")
	}

	return r.GetByID(ctx, id)
}

func (r *mongoRepository[T]) Delete(ctx context.Context, existing T) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": existing.EntityID()})
	if err != nil {
		return r.wrap(err, "failed to delete document")
	}
	if res.DeletedCount == 0 {
		return r.wrap(ErrNotFound, "failed to delete document")
	}
	return nil
}

func (r *mongoRepository[T]) SearchTerm(ctx context.Context, pattern string) ([]T, error) {
	or := make([]bson.M, 0, len(r.searchFields))
	for _, f := range r.searchFields {
		or = append(or, bson.M{f: primitive.Regex{Pattern: pattern, Options: "i"}})
	}

	cursor, err := r.collection.Find(ctx, bson.M{"$or": or})
	if err != nil {
		return nil, r.wrap(err, "failed to search documents")
	}

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, r.wrap(err, "failed to decode documents")
	}
	return docs, nil
}

// wrap translates driver failures into the uniform repository error, mapping
// the two shapes callers are allowed to branch on.
func (r *mongoRepository[T]) wrap(err error, msg string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		err = ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		err = ErrDuplicateKey
	}
	return &RepositoryError{Message: msg, Cause: err}
}
