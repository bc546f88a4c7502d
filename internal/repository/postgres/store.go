package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"cmsapi/internal/model"
	"cmsapi/internal/repository"
)

const uniqueViolation = "23505"

// Store is a PostgreSQL implementation of repository.Store.
// Each collection is a table of (id TEXT, body JSONB, created_at TIMESTAMPTZ); see migration.
// It uses database/sql with parameterized queries and contains no business logic.
type Store[T repository.Document] struct {
	db    *sql.DB
	table string
}

// NewStore creates a store over the table named after T's collection.
func NewStore[T repository.Document](db *sql.DB) *Store[T] {
	var doc T
	return &Store[T]{db: db, table: doc.CollectionName()}
}

var _ repository.PostRepository = (*Store[model.Post])(nil)

// Create inserts a new row holding the JSON-encoded document.
func (s *Store[T]) Create(ctx context.Context, doc *T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.table, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, body) VALUES ($1, $2)`, s.table)
	if _, err := s.db.ExecContext(ctx, q, (*doc).DocumentID(), body); err != nil {
		return mapError(err)
	}
	return nil
}

// FindByID fetches a single document by its ID.
func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	q := fmt.Sprintf(`SELECT body FROM %s WHERE id = $1`, s.table)
	return s.queryOne(ctx, q, id)
}

// FindByIDs fetches every document whose id is in ids.
func (s *Store[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	arr, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT body FROM %s WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))`, s.table)
	return s.queryMany(ctx, q, string(arr))
}

// FindOneBy returns the first document whose top-level JSON field equals value.
func (s *Store[T]) FindOneBy(ctx context.Context, field, value string) (*T, error) {
	q := fmt.Sprintf(`SELECT body FROM %s WHERE body ->> $1 = $2 LIMIT 1`, s.table)
	return s.queryOne(ctx, q, field, value)
}

// ExistsBy reports whether any document has the JSON field equal to value.
func (s *Store[T]) ExistsBy(ctx context.Context, field, value string) (bool, error) {
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE body ->> $1 = $2)`, s.table)
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, field, value).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (s *Store[T]) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[T], error) {
	var total int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)).Scan(&total); err != nil {
		return nil, err
	}

	// A NULL limit means no limit in PostgreSQL.
	limit := sql.NullInt64{Int64: int64(pq.Limit), Valid: pq.Limit > 0}
	q := fmt.Sprintf(`SELECT body FROM %s ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, s.table)
	items, err := s.queryMany(ctx, q, limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[T]{Items: items, Total: total}, nil
}

// Replace overwrites the stored body of the given id.
func (s *Store[T]) Replace(ctx context.Context, id string, doc *T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.table, err)
	}
	q := fmt.Sprintf(`UPDATE %s SET body = $2 WHERE id = $1`, s.table)
	res, err := s.db.ExecContext(ctx, q, id, body)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

// Delete removes a row by ID.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// DeleteMany removes every row whose id is in ids.
func (s *Store[T]) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	arr, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE id IN (SELECT jsonb_array_elements_text($1::jsonb))`, s.table)
	_, err = s.db.ExecContext(ctx, q, string(arr))
	return err
}

func (s *Store[T]) queryOne(ctx context.Context, q string, args ...any) (*T, error) {
	var body []byte
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.table, err)
	}
	return &out, nil
}

func (s *Store[T]) queryMany(ctx context.Context, q string, args ...any) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
