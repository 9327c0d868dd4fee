package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// documentTable stores catalog records as JSONB documents keyed by a text id.
// Title and publication flag are mirrored into columns for filtering.
type documentTable struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
	table  string // compile-time constant, never user input
}

type documentRow struct {
	doc       []byte
	createdAt time.Time
	updatedAt time.Time
}

func (t *documentTable) list(ctx context.Context, includeUnpublished bool) ([]documentRow, error) {
	query := fmt.Sprintf(`
		SELECT doc, created_at, updated_at
		FROM %s
		WHERE is_published OR $1
		ORDER BY created_at, id
	`, t.table)

	rows, err := t.pool.Query(ctx, query, includeUnpublished)
	if err != nil {
		t.logger.Error().Err(err).Bool("include_unpublished", includeUnpublished).Msg("failed to query documents")
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	return t.collect(rows)
}

func (t *documentTable) getByIDs(ctx context.Context, ids []string) ([]documentRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT doc, created_at, updated_at
		FROM %s
		WHERE id = ANY($1)
		ORDER BY id
	`, t.table)

	rows, err := t.pool.Query(ctx, query, ids)
	if err != nil {
		t.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query documents by IDs")
		return nil, fmt.Errorf("failed to query %s by IDs: %w", t.table, err)
	}
	return t.collect(rows)
}

func (t *documentTable) collect(rows pgx.Rows) ([]documentRow, error) {
	defer rows.Close()

	var out []documentRow
	for rows.Next() {
		var r documentRow
		if err := rows.Scan(&r.doc, &r.createdAt, &r.updatedAt); err != nil {
			t.logger.Error().Err(err).Msg("failed to scan document row")
			return nil, fmt.Errorf("failed to scan %s row: %w", t.table, err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		t.logger.Error().Err(err).Msg("error iterating document rows")
		return nil, fmt.Errorf("error iterating %s: %w", t.table, err)
	}
	return out, nil
}

// get returns nil when the id does not exist.
func (t *documentTable) get(ctx context.Context, id string) (*documentRow, error) {
	query := fmt.Sprintf(`SELECT doc, created_at, updated_at FROM %s WHERE id = $1`, t.table)

	var r documentRow
	err := t.pool.QueryRow(ctx, query, id).Scan(&r.doc, &r.createdAt, &r.updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			t.logger.Debug().Str("id", id).Msg("document not found")
			return nil, nil
		}
		t.logger.Error().Err(err).Str("id", id).Msg("failed to query document")
		return nil, fmt.Errorf("failed to query %s: %w", t.table, err)
	}
	return &r, nil
}

// save upserts the document and returns the stored timestamps. created_at
// survives replacement.
func (t *documentTable) save(ctx context.Context, id, title string, published bool, doc any) (time.Time, time.Time, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to encode %s document: %w", t.table, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, is_published, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
		    is_published = EXCLUDED.is_published,
		    doc = EXCLUDED.doc,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`, t.table)

	var createdAt, updatedAt time.Time
	if err := t.pool.QueryRow(ctx, query, id, title, published, payload).Scan(&createdAt, &updatedAt); err != nil {
		t.logger.Error().Err(err).Str("id", id).Msg("failed to save document")
		return time.Time{}, time.Time{}, fmt.Errorf("failed to save %s document: %w", t.table, err)
	}

	t.logger.Debug().Str("id", id).Msg("document saved")
	return createdAt, updatedAt, nil
}

func (t *documentTable) delete(ctx context.Context, id string) (bool, error) {
	tag, err := t.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		t.logger.Error().Err(err).Str("id", id).Msg("failed to delete document")
		return false, fmt.Errorf("failed to delete from %s: %w", t.table, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (t *documentTable) count(ctx context.Context) (int, error) {
	var n int
	if err := t.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.table)).Scan(&n); err != nil {
		t.logger.Error().Err(err).Msg("failed to count documents")
		return 0, fmt.Errorf("failed to count %s: %w", t.table, err)
	}
	return n, nil
}
