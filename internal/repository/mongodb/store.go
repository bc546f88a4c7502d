package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

// Store is a MongoDB implementation of repository.Store.
// Documents are stored with their string id as _id.
type Store[T repository.Document] struct {
	collection *mongo.Collection
}

// NewStore creates a store over the collection named after T.
func NewStore[T repository.Document](db *mongo.Database) *Store[T] {
	var doc T
	return &Store[T]{collection: db.Collection(doc.CollectionName())}
}

var _ repository.PostRepository = (*Store[model.Post])(nil)

func (s *Store[T]) Create(ctx context.Context, doc *T) error {
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store[T]) FindOneBy(ctx context.Context, field, value string) (*T, error) {
	return s.findOne(ctx, bson.M{field: value})
}

func (s *Store[T]) ExistsBy(ctx context.Context, field, value string) (bool, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{field: value}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store[T]) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(pq.Offset))
	if pq.Limit > 0 {
		opts.SetLimit(int64(pq.Limit))
	}

	items, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[T]{Items: items, Total: int(total)}, nil
}

func (s *Store[T]) Replace(ctx context.Context, id string, doc *T) error {
	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (s *Store[T]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var out T
	if err := s.collection.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *Store[T]) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func mapError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}
