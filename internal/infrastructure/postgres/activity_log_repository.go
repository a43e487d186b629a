package postgres

import (
	"context"
	"fmt"

	"github.com/primegestor/primegestor-api/internal/domain/entity"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo auditoría sobre PostgreSQL (append-only).
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository construye el adaptador.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create inserta la entrada. details vacío se guarda como NULL.
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	var details any
	if len(l.Details) > 0 {
		details = l.Details
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, action, entity_type, entity_id, entity_name, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, nullable(l.UserID), l.Action, l.EntityType, l.EntityID, l.EntityName, details, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List más recientes primero.
func (r *ActivityLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, entity_name, details, created_at
		FROM activity_logs ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limitOrAll(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ActivityLog, 0)
	for rows.Next() {
		var l entity.ActivityLog
		var userID *string
		var details []byte
		if err := rows.Scan(&l.ID, &userID, &l.Action, &l.EntityType, &l.EntityID, &l.EntityName, &details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		l.UserID = deref(userID)
		l.Details = details
		list = append(list, &l)
	}
	return list, rows.Err()
}
