package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/lot"
	"github.com/coziyoo/backend/pkg/apperr"
)

// LotRepository is the Postgres-backed lot.Repository.
type LotRepository struct{ conn *Connection }

func NewLotRepository(conn *Connection) *LotRepository { return &LotRepository{conn: conn} }

const lotColumns = `id, seller_id, food_id, lot_number, produced_at, use_by, best_before,
		     quantity_produced, quantity_available, status, created_at, updated_at`

func scanLot(row rowScanner) (*lot.ProductionLot, error) {
	l := &lot.ProductionLot{}
	err := row.Scan(&l.ID, &l.SellerID, &l.FoodID, &l.LotNumber, &l.ProducedAt, &l.UseBy, &l.BestBefore,
		&l.QuantityProduced, &l.QuantityAvailable, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "lot not found")
		}
		return nil, err
	}
	return l, nil
}

func (r *LotRepository) Create(ctx context.Context, l *lot.ProductionLot) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO production_lot (id, seller_id, food_id, lot_number, produced_at, use_by, best_before,
		                             quantity_produced, quantity_available, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		l.ID, l.SellerID, l.FoodID, l.LotNumber, l.ProducedAt, l.UseBy, l.BestBefore,
		l.QuantityProduced, l.QuantityAvailable, l.Status, l.CreatedAt, l.UpdatedAt)
	return TranslatePGError(err, "ProductionLot", map[string]apperr.Code{
		"production_lot_food_id_lot_number_key": apperr.CodeConflict,
	})
}

func (r *LotRepository) FindByID(ctx context.Context, id uuid.UUID) (*lot.ProductionLot, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+lotColumns+` FROM production_lot WHERE id = $1`, id)
	return scanLot(row)
}

func (r *LotRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*lot.ProductionLot, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `SELECT `+lotColumns+` FROM production_lot WHERE seller_id = $1 ORDER BY produced_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*lot.ProductionLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CandidateLotsForUpdate implements the FEFO ordering from spec.md §4.6
// step 1: coalesce(use_by, best_before, produced_at) ASC, created_at ASC,
// row-locked so concurrent allocations against the same food serialize.
func (r *LotRepository) CandidateLotsForUpdate(ctx context.Context, sellerID, foodID uuid.UUID) ([]*lot.ProductionLot, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `
		SELECT `+lotColumns+` FROM production_lot
		WHERE seller_id = $1 AND food_id = $2 AND status = 'open' AND quantity_available > 0
		ORDER BY COALESCE(use_by, best_before, produced_at) ASC, created_at ASC
		FOR UPDATE`, sellerID, foodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*lot.ProductionLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LotRepository) DecrementAvailable(ctx context.Context, lotID uuid.UUID, qty int) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE production_lot SET
			quantity_available = quantity_available - $2,
			status = CASE WHEN quantity_available - $2 <= 0 THEN 'depleted' ELSE status END,
			updated_at = now()
		WHERE id = $1`, lotID, qty)
	return err
}

func (r *LotRepository) CreateAllocation(ctx context.Context, a *lot.OrderItemLotAllocation) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO order_item_lot_allocation (id, order_item_id, lot_id, quantity, created_at) VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.OrderItemID, a.LotID, a.Quantity, a.CreatedAt)
	return err
}

// Recall flips the lot to recalled and zeroes quantity_available so it can
// never be allocated into again (spec.md §4.6 lot lifecycle).
func (r *LotRepository) Recall(ctx context.Context, lotID uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE production_lot SET status = 'recalled', quantity_available = 0, updated_at = now() WHERE id = $1`, lotID)
	return err
}

func (r *LotRepository) Discard(ctx context.Context, lotID uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `UPDATE production_lot SET status = 'discarded', updated_at = now() WHERE id = $1`, lotID)
	return err
}

func (r *LotRepository) Adjust(ctx context.Context, lotID uuid.UUID, quantityAvailable int, status lot.Status) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE production_lot SET quantity_available = $2, status = $3, updated_at = now() WHERE id = $1`,
		lotID, quantityAvailable, status)
	return err
}
