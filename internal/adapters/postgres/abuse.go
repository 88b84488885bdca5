package postgres

import (
	"context"

	"github.com/coziyoo/backend/internal/domain/abuse"
)

// AbuseRepository is the Postgres-backed abuse.Repository.
type AbuseRepository struct{ conn *Connection }

func NewAbuseRepository(conn *Connection) *AbuseRepository { return &AbuseRepository{conn: conn} }

func (r *AbuseRepository) AppendRiskEvent(ctx context.Context, e *abuse.RiskEvent) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO abuse_risk_event (id, flow, ip, subject_id, decision, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Flow, e.IP, e.SubjectID, e.Decision, e.CreatedAt)
	return err
}
