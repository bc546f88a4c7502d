package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

func newMockStore[T repository.Document](t *testing.T) (*Store[T], sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore[T](db), mock
}

func tagBody(t *testing.T, tag model.Tag) []byte {
	b, err := json.Marshal(tag)
	require.NoError(t, err)
	return b
}

func TestStore_Table(t *testing.T) {
	s, _ := newMockStore[model.Post](t)
	assert.Equal(t, "posts", s.table)

	c, _ := newMockStore[model.UserProfile](t)
	assert.Equal(t, "user_profiles", c.table)
}

func TestStore_Create(t *testing.T) {
	s, mock := newMockStore[model.Post](t)
	ctx := context.Background()
	post := &model.Post{ID: "post-1", Title: "Hello", Slug: "hello"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts (id, body) VALUES ($1, $2)")).
			WithArgs("post-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(ctx, post))
	})

	t.Run("duplicate slug", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
			WithArgs("post-1", sqlmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "ux_posts_slug"})

		err := s.Create(ctx, post)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByID(t *testing.T) {
	s, mock := newMockStore[model.Tag](t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"body"}).
			AddRow(tagBody(t, model.Tag{ID: "tag-1", Name: "Go", Slug: "go", CreatedAt: time.Now().UTC()}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM tags WHERE id = $1")).
			WithArgs("tag-1").
			WillReturnRows(rows)

		tag, err := s.FindByID(ctx, "tag-1")
		require.NoError(t, err)
		assert.Equal(t, "go", tag.Slug)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM tags WHERE id = $1")).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		tag, err := s.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, tag)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByIDs(t *testing.T) {
	s, mock := newMockStore[model.Tag](t)
	ctx := context.Background()

	t.Run("empty input skips query", func(t *testing.T) {
		tags, err := s.FindByIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, tags)
	})

	t.Run("batch lookup", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"body"}).
			AddRow(tagBody(t, model.Tag{ID: "a", Slug: "a"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM tags WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))")).
			WithArgs(`["a","b"]`).
			WillReturnRows(rows)

		tags, err := s.FindByIDs(ctx, []string{"a", "b"})
		require.NoError(t, err)
		assert.Len(t, tags, 1)
		assert.Equal(t, "a", tags[0].ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ExistsBy(t *testing.T) {
	s, mock := newMockStore[model.Post](t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM posts WHERE body ->> $1 = $2)")).
		WithArgs("slug", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.ExistsBy(context.Background(), "slug", "hello")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindOneBy(t *testing.T) {
	s, mock := newMockStore[model.Tag](t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM tags WHERE body ->> $1 = $2 LIMIT 1")).
		WithArgs("slug", "nope").
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindOneBy(context.Background(), "slug", "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_List(t *testing.T) {
	s, mock := newMockStore[model.Tag](t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tags")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM tags ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2")).
		WithArgs(sqlmock.AnyArg(), 0).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow(tagBody(t, model.Tag{ID: "b"})).
			AddRow(tagBody(t, model.Tag{ID: "a"})))

	res, err := s.List(context.Background(), repository.PageQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Replace(t *testing.T) {
	s, mock := newMockStore[model.Category](t)
	ctx := context.Background()
	cat := &model.Category{ID: "c1", Name: "News", Slug: "news"}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET body = $2 WHERE id = $1")).
		WithArgs("c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, s.Replace(ctx, "c1", cat))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET body = $2 WHERE id = $1")).
		WithArgs("c2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Replace(ctx, "c2", cat), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	s, mock := newMockStore[model.File](t)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM files WHERE id = $1")).
			WithArgs("f1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, s.Delete(ctx, "f1"))
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM files WHERE id = $1")).
			WithArgs("f2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, s.Delete(ctx, "f2"), repository.ErrNotFound)
	})

	t.Run("many", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM files WHERE id IN")).
			WithArgs(`["f1","f2"]`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		assert.NoError(t, s.DeleteMany(ctx, []string{"f1", "f2"}))
		assert.NoError(t, s.DeleteMany(ctx, nil))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
