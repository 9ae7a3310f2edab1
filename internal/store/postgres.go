// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caraudioevents/authcore/internal/models"
)

// PostgresStore fetches projections from the platform's Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over an existing connection pool.
// The pool's lifecycle is owned by the caller.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FetchMeta implements ResourceStore. The query is generated from the
// type's projection descriptor; id columns are compared as text so UUID and
// bigserial keys go through the same path.
func (s *PostgresStore) FetchMeta(ctx context.Context, ref models.ResourceRef) (*models.Metadata, error) {
	desc, ok := DescriptorFor(ref.Type)
	if !ok {
		return nil, fmt.Errorf("no projection descriptor for resource type %q", ref.Type)
	}

	columns := make([]string, 0, len(desc.Fields)+1)
	columns = append(columns, desc.IDColumn+"::text")
	for _, f := range desc.Fields {
		columns = append(columns, f.Column)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s::text = $1",
		strings.Join(columns, ", "), desc.Table, desc.IDColumn,
	)

	var id pgtype.Text
	texts := make([]pgtype.Text, len(desc.Fields))
	bools := make([]pgtype.Bool, len(desc.Fields))

	dest := make([]any, 0, len(desc.Fields)+1)
	dest = append(dest, &id)
	for i, f := range desc.Fields {
		if f.Kind == KindBool {
			dest = append(dest, &bools[i])
		} else {
			dest = append(dest, &texts[i])
		}
	}

	row := s.pool.QueryRow(ctx, query, ref.ID)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch %s projection: %w", ref.Type, err)
	}

	meta := &models.Metadata{ID: id.String}
	for i, f := range desc.Fields {
		f.Assign(meta, texts[i].String, bools[i].Bool)
	}

	return meta, nil
}
