package pgsql

import (
	"context"

	"github.com/google/uuid"

	"github.com/bizsuite/workorder_backend/internal/apperrors"
	"github.com/bizsuite/workorder_backend/internal/core/domain"
	portssvc "github.com/bizsuite/workorder_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxActivityLog records one row per mutating engine operation in the
// suite-wide activity table.
type PgxActivityLog struct {
	BaseRepository
}

// NewPgxActivityLog creates the activity log adapter.
func NewPgxActivityLog(pool *pgxpool.Pool) portssvc.ActivityLogSvcFacade {
	return &PgxActivityLog{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxActivityLog implements portssvc.ActivityLogSvcFacade
var _ portssvc.ActivityLogSvcFacade = (*PgxActivityLog)(nil)

// LogActivity inserts one event row.
func (s *PgxActivityLog) LogActivity(ctx context.Context, event domain.ActivityEvent) error {
	query := `
		INSERT INTO activity_log (
			activity_id, event_type, entity_kind, entity_id, action, message,
			actor_id, actor_name, actor_email, entity_label, field_diffs, metadata, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := s.Pool.Exec(ctx, query,
		uuid.NewString(), event.EventType, event.EntityKind, event.EntityID, event.Action, event.Message,
		event.ActorID, event.ActorName, event.ActorEmail, event.EntityLabel, event.FieldDiffs, event.Metadata, event.Timestamp,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to log activity for "+event.EntityID, err)
	}
	return nil
}

// ListActivities returns all events for one entity, oldest first.
func (s *PgxActivityLog) ListActivities(ctx context.Context, entityKind, entityID string) ([]domain.ActivityEvent, error) {
	query := `
		SELECT event_type, entity_kind, entity_id, action, message,
		       actor_id, actor_name, actor_email, entity_label, field_diffs, metadata, occurred_at
		FROM activity_log
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY occurred_at;
	`
	rows, err := s.Pool.Query(ctx, query, entityKind, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query activities for "+entityID, err)
	}
	defer rows.Close()

	var events []domain.ActivityEvent
	for rows.Next() {
		var e domain.ActivityEvent
		if err := rows.Scan(
			&e.EventType, &e.EntityKind, &e.EntityID, &e.Action, &e.Message,
			&e.ActorID, &e.ActorName, &e.ActorEmail, &e.EntityLabel, &e.FieldDiffs, &e.Metadata, &e.Timestamp,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity row", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read activity rows", err)
	}
	return events, nil
}
