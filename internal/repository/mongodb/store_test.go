package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"cmsapi/internal/config"
	"cmsapi/internal/database"
	"cmsapi/internal/database/migration"
	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

// setupMongo starts a disposable MongoDB container and returns a connected database.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}
	client, err := testcontainers.NewDockerClientWithOpts(context.Background())
	if err != nil {
		t.Skip("Docker not available:", err)
	}
	client.Close()

	ctx := context.Background()
	port := nat.Port("27017/tcp")

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{string(port)},
			WaitingFor: wait.ForAll(
				wait.ForLog("Waiting for connections"),
				wait.ForListeningPort(port),
			),
		},
		Started: true,
	})
	if err != nil {
		t.Skip("could not start mongo container:", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	db, err := database.NewMongo(config.MongoConfig{
		Host:     host,
		Port:     mapped.Int(),
		Database: fmt.Sprintf("cms_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)
	require.NoError(t, migration.EnsureMongoIndexes(ctx, db, zap.NewNop()))
	return db
}

func TestStore_Integration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	posts := NewStore[model.Post](db)
	tags := NewStore[model.Tag](db)

	t.Run("create and find post", func(t *testing.T) {
		p := &model.Post{ID: uuid.NewString(), Title: "Hello", Slug: "hello", Tags: []string{}, Files: []string{}, CreatedAt: time.Now().UTC()}
		require.NoError(t, posts.Create(ctx, p))

		got, err := posts.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Slug)

		exists, err := posts.ExistsBy(ctx, "slug", "hello")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		p := &model.Post{ID: uuid.NewString(), Title: "Hello again", Slug: "hello"}
		err := posts.Create(ctx, p)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		a := &model.Tag{ID: uuid.NewString(), Name: "Go", Slug: "go"}
		require.NoError(t, tags.Create(ctx, a))

		found, err := tags.FindByIDs(ctx, []string{a.ID, uuid.NewString()})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, a.ID, found[0].ID)
	})

	t.Run("replace delete and delete many", func(t *testing.T) {
		tag := &model.Tag{ID: uuid.NewString(), Name: "Rust", Slug: "rust"}
		require.NoError(t, tags.Create(ctx, tag))

		tag.Name = "Rust Lang"
		require.NoError(t, tags.Replace(ctx, tag.ID, tag))
		got, err := tags.FindOneBy(ctx, "slug", "rust")
		require.NoError(t, err)
		assert.Equal(t, "Rust Lang", got.Name)

		require.NoError(t, tags.Delete(ctx, tag.ID))
		assert.ErrorIs(t, tags.Delete(ctx, tag.ID), repository.ErrNotFound)
		_, err = tags.FindByID(ctx, tag.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.NoError(t, tags.DeleteMany(ctx, []string{uuid.NewString()}))
	})

	t.Run("list newest first", func(t *testing.T) {
		res, err := tags.List(ctx, repository.PageQuery{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, len(res.Items), res.Total)
	})
}
