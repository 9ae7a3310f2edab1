// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists audit events in the platform's Postgres database.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS authz_audit_events (
//	    id             uuid PRIMARY KEY,
//	    ts             timestamptz NOT NULL,
//	    event_type     text NOT NULL,
//	    severity       text NOT NULL,
//	    principal_id   text NOT NULL,
//	    origin         text,
//	    user_agent     text,
//	    resource_type  text,
//	    resource_id    text,
//	    operation      text,
//	    result         text,
//	    restrictions   text[],
//	    details        jsonb,
//	    duration_ms    double precision NOT NULL,
//	    correlation_id text NOT NULL
//	);
//	CREATE INDEX IF NOT EXISTS authz_audit_events_ts_idx ON authz_audit_events (ts DESC);
//	CREATE INDEX IF NOT EXISTS authz_audit_events_principal_idx ON authz_audit_events (principal_id);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates an audit store over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, event *Event) error {
	var details []byte
	if len(event.Details) > 0 {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO authz_audit_events (
			id, ts, event_type, severity, principal_id, origin, user_agent,
			resource_type, resource_id, operation, result, restrictions,
			details, duration_ms, correlation_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		event.ID, event.Timestamp, string(event.Type), string(event.Severity),
		event.PrincipalID, nullable(event.Origin), nullable(event.UserAgent),
		nullable(event.ResourceType), nullable(event.ResourceID),
		nullable(event.Operation), nullable(event.Result), event.Tags,
		details, event.DurationMs, event.CorrelationID,
	)
	if err != nil {
		return fmt.Errorf("save audit event: %w", err)
	}
	return nil
}

// Query implements Store.
func (s *PostgresStore) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := buildWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT id, ts, event_type, severity, principal_id, origin, user_agent,
		       resource_type, resource_id, operation, result, restrictions,
		       details, duration_ms, correlation_id
		FROM authz_audit_events
		%s
		ORDER BY ts DESC
		LIMIT %d OFFSET %d`, where, limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e                                                    Event
			eventType, severity                                  string
			origin, userAgent, resType, resID, operation, result pgtype.Text
			details                                              []byte
		)
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &eventType, &severity, &e.PrincipalID,
			&origin, &userAgent, &resType, &resID, &operation, &result,
			&e.Tags, &details, &e.DurationMs, &e.CorrelationID,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		e.Type = EventType(eventType)
		e.Severity = Severity(severity)
		e.Origin = origin.String
		e.UserAgent = userAgent.String
		e.ResourceType = resType.String
		e.ResourceID = resID.String
		e.Operation = operation.String
		e.Result = result.String

		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	where, args := buildWhere(filter)

	var count int64
	query := "SELECT COUNT(*) FROM authz_audit_events " + where
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return count, nil
}

// DeleteOlderThan implements Store.
func (s *PostgresStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM authz_audit_events WHERE ts < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete audit events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildWhere renders the filter into a WHERE clause and its arguments.
func buildWhere(filter QueryFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		clauses = append(clauses, "event_type = ANY("+arg(types)+")")
	}
	if len(filter.Severities) > 0 {
		sevs := make([]string, len(filter.Severities))
		for i, sv := range filter.Severities {
			sevs[i] = string(sv)
		}
		clauses = append(clauses, "severity = ANY("+arg(sevs)+")")
	}
	if filter.PrincipalID != "" {
		clauses = append(clauses, "principal_id = "+arg(filter.PrincipalID))
	}
	if filter.ResourceType != "" {
		clauses = append(clauses, "resource_type = "+arg(filter.ResourceType))
	}
	if filter.ResourceID != "" {
		clauses = append(clauses, "resource_id = "+arg(filter.ResourceID))
	}
	if filter.CorrelationID != "" {
		clauses = append(clauses, "correlation_id = "+arg(filter.CorrelationID))
	}
	if filter.StartTime != nil {
		clauses = append(clauses, "ts >= "+arg(*filter.StartTime))
	}
	if filter.EndTime != nil {
		clauses = append(clauses, "ts <= "+arg(*filter.EndTime))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// nullable maps empty strings to NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
