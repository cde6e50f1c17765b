package audit

import (
	"context"
	"encoding/json"

	"agrimart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Sink receives activity records after successful mutations. Logging is
// fire-and-forget: a failed write must never roll back or fail the mutation
// that produced it.
type Sink interface {
	Log(ctx context.Context, action string, subject model.EntityRef, oldValues, newValues any)
}

// pgSink persists activity records to PostgreSQL.
type pgSink struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPGSink creates a PostgreSQL-backed activity sink.
func NewPGSink(pool *pgxpool.Pool, logger zerolog.Logger) Sink {
	return &pgSink{
		pool:   pool,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Log writes an activity record. Errors are logged and swallowed.
func (s *pgSink) Log(ctx context.Context, action string, subject model.EntityRef, oldValues, newValues any) {
	oldJSON := marshalValues(oldValues)
	newJSON := marshalValues(newValues)

	query := `
		INSERT INTO activity_logs (id, action, entity_kind, entity_id, old_values, new_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := s.pool.Exec(ctx, query, uuid.New(), action, string(subject.Kind), subject.ID, oldJSON, newJSON)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("action", action).
			Str("entity_kind", string(subject.Kind)).
			Str("entity_id", subject.ID.String()).
			Msg("failed to write activity log")
		return
	}

	s.logger.Debug().
		Str("action", action).
		Str("entity_kind", string(subject.Kind)).
		Str("entity_id", subject.ID.String()).
		Msg("activity logged")
}

func marshalValues(v any) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// nopSink discards all activity records.
type nopSink struct{}

// NewNopSink creates a sink that discards everything. Used in tests.
func NewNopSink() Sink {
	return nopSink{}
}

func (nopSink) Log(context.Context, string, model.EntityRef, any, any) {}
