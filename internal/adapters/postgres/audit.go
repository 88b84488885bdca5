package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/audit"
)

// AuditRepository is the Postgres-backed audit.Repository.
type AuditRepository struct{ conn *Connection }

func NewAuditRepository(conn *Connection) *AuditRepository { return &AuditRepository{conn: conn} }

func (r *AuditRepository) Append(ctx context.Context, l *audit.Log) error {
	before, err := json.Marshal(l.Before)
	if err != nil {
		return err
	}
	after, err := json.Marshal(l.After)
	if err != nil {
		return err
	}
	_, err = r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO admin_audit_log (id, actor_id, action, entity_type, entity_id, before, after, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.ID, l.ActorID, l.Action, l.EntityType, l.EntityID, before, after, l.CreatedAt)
	return err
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*audit.Log, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, before, after, created_at
		FROM admin_audit_log WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*audit.Log
	for rows.Next() {
		l := &audit.Log{}
		var before, after []byte
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.EntityType, &l.EntityID, &before, &after, &l.CreatedAt); err != nil {
			return nil, err
		}
		if len(before) > 0 {
			if err := json.Unmarshal(before, &l.Before); err != nil {
				return nil, err
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &l.After); err != nil {
				return nil, err
			}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
