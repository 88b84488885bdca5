package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/review"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/pagination"
)

// ReviewRepository is the Postgres-backed review.ReviewRepository.
type ReviewRepository struct{ conn *Connection }

func NewReviewRepository(conn *Connection) *ReviewRepository { return &ReviewRepository{conn: conn} }

func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO review (id, buyer_id, food_id, order_id, rating, body, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rev.ID, rev.BuyerID, rev.FoodID, rev.OrderID, rev.Rating, rev.Body, rev.CreatedAt)
	return TranslatePGError(err, "Review", map[string]apperr.Code{
		"review_buyer_id_food_id_order_id_key": apperr.CodeReviewConflict,
	})
}

func (r *ReviewRepository) ExistsForOrder(ctx context.Context, buyerID, foodID, orderID uuid.UUID) (bool, error) {
	row := r.conn.Q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM review WHERE buyer_id = $1 AND food_id = $2 AND order_id = $3)`,
		buyerID, foodID, orderID)
	var ok bool
	err := row.Scan(&ok)
	return ok, err
}

func (r *ReviewRepository) ListByFood(ctx context.Context, foodID uuid.UUID, cursorID string, limit int) ([]*review.Review, bool, error) {
	cur := pagination.Cursor{}
	if cursorID != "" {
		cur = pagination.CreateCursor(cursorID, true)
	}
	q, _ := pagination.ApplyCursor(
		sq.Select("id, buyer_id, food_id, order_id, rating, body, created_at").From("review").Where(sq.Eq{"food_id": foodID}),
		cur, "DESC", limit)
	query, args, err := q.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, false, err
	}

	rows, err := r.conn.Q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []*review.Review
	for rows.Next() {
		rv := &review.Review{}
		if err := rows.Scan(&rv.ID, &rv.BuyerID, &rv.FoodID, &rv.OrderID, &rv.Rating, &rv.Body, &rv.CreatedAt); err != nil {
			return nil, false, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}

// FavoriteRepository is the Postgres-backed review.FavoriteRepository.
type FavoriteRepository struct{ conn *Connection }

func NewFavoriteRepository(conn *Connection) *FavoriteRepository { return &FavoriteRepository{conn: conn} }

func (r *FavoriteRepository) Add(ctx context.Context, f *review.Favorite) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO favorite (id, buyer_id, food_id, created_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (buyer_id, food_id) DO NOTHING`,
		f.ID, f.BuyerID, f.FoodID, f.CreatedAt)
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, buyerID, foodID uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `DELETE FROM favorite WHERE buyer_id = $1 AND food_id = $2`, buyerID, foodID)
	return err
}

func (r *FavoriteRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*review.Favorite, error) {
	rows, err := r.conn.Q(ctx).Query(ctx,
		`SELECT id, buyer_id, food_id, created_at FROM favorite WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*review.Favorite
	for rows.Next() {
		f := &review.Favorite{}
		if err := rows.Scan(&f.ID, &f.BuyerID, &f.FoodID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AddressRepository is the Postgres-backed review.AddressRepository.
type AddressRepository struct{ conn *Connection }

func NewAddressRepository(conn *Connection) *AddressRepository { return &AddressRepository{conn: conn} }

const addressColumns = `id, user_id, label, line1, line2, city, country, lat, lng, is_default, created_at, updated_at`

func (r *AddressRepository) Create(ctx context.Context, a *review.Address) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO user_address (`+addressColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.UserID, a.Label, a.Line1, a.Line2, a.City, a.Country, a.Lat, a.Lng, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *AddressRepository) Update(ctx context.Context, a *review.Address) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE user_address SET label=$2, line1=$3, line2=$4, city=$5, country=$6, lat=$7, lng=$8, updated_at=$9
		WHERE id=$1`, a.ID, a.Label, a.Line1, a.Line2, a.City, a.Country, a.Lat, a.Lng, a.UpdatedAt)
	return err
}

func (r *AddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `DELETE FROM user_address WHERE id = $1`, id)
	return err
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*review.Address, error) {
	rows, err := r.conn.Q(ctx).Query(ctx,
		`SELECT `+addressColumns+` FROM user_address WHERE user_id = $1 ORDER BY is_default DESC, created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*review.Address
	for rows.Next() {
		a := &review.Address{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.Country, &a.Lat, &a.Lng,
			&a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetDefault clears the user's existing default and promotes id, inside one
// transaction so the one-default-per-user partial index never sees two
// defaults at once.
func (r *AddressRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	return r.conn.WithTx(ctx, func(ctx context.Context) error {
		if _, err := r.conn.Q(ctx).Exec(ctx,
			`UPDATE user_address SET is_default = false, updated_at = now() WHERE user_id = $1 AND is_default = true`, userID); err != nil {
			return err
		}
		_, err := r.conn.Q(ctx).Exec(ctx,
			`UPDATE user_address SET is_default = true, updated_at = now() WHERE id = $1 AND user_id = $2`, id, userID)
		return err
	})
}
