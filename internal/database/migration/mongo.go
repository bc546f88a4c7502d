package migration

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"cmsapi/internal/model"
)

type mongoIndex struct {
	Collection string
	Field      string
	Unique     bool
}

var mongoIndexes = []mongoIndex{
	{Collection: model.CollectionPosts, Field: "slug", Unique: true},
	{Collection: model.CollectionPosts, Field: "createdAt"},
	{Collection: model.CollectionCategories, Field: "slug", Unique: true},
	{Collection: model.CollectionTags, Field: "slug", Unique: true},
	{Collection: model.CollectionProfiles, Field: "user", Unique: true},
	{Collection: model.CollectionFiles, Field: "user"},
}

// EnsureMongoIndexes creates the indexes the service relies on. CreateOne is idempotent for identical specs.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	for _, idx := range mongoIndexes {
		im := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.Field, Value: 1}},
			Options: options.Index().SetUnique(idx.Unique),
		}
		name, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, im)
		if err != nil {
			log.Error("mongo_index_failed", zap.String("collection", idx.Collection), zap.String("field", idx.Field), zap.Error(err))
			return fmt.Errorf("create index %s.%s: %w", idx.Collection, idx.Field, err)
		}
		log.Info("mongo_index_ready", zap.String("collection", idx.Collection), zap.String("index", name))
	}
	return nil
}
