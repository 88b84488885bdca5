package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/coziyoo/backend/internal/domain/catalog"
	"github.com/coziyoo/backend/pkg/apperr"
	"github.com/coziyoo/backend/pkg/pagination"
)

// CategoryRepository is the Postgres-backed catalog.CategoryRepository.
type CategoryRepository struct{ conn *Connection }

func NewCategoryRepository(conn *Connection) *CategoryRepository { return &CategoryRepository{conn: conn} }

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`INSERT INTO category (id, name, slug, created_at, updated_at) VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Name, c.Slug, c.CreatedAt, c.UpdatedAt)
	return TranslatePGError(err, "Category", map[string]apperr.Code{"category_slug_key": apperr.CodeConflict})
}

func (r *CategoryRepository) List(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `SELECT id, name, slug, created_at, updated_at FROM category ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*catalog.Category
	for rows.Next() {
		c := &catalog.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT id, name, slug, created_at, updated_at FROM category WHERE id = $1`, id)
	c := &catalog.Category{}
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeValidation, "category not found")
		}
		return nil, err
	}
	return c, nil
}

// FoodRepository is the Postgres-backed catalog.FoodRepository.
type FoodRepository struct{ conn *Connection }

func NewFoodRepository(conn *Connection) *FoodRepository { return &FoodRepository{conn: conn} }

const foodColumns = `id, seller_id, category_id, name, description, price, active,
		       rating, review_count, favorite_count, current_stock, created_at, updated_at`

func (r *FoodRepository) Create(ctx context.Context, f *catalog.Food) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		INSERT INTO food (id, seller_id, category_id, name, description, price, active,
		                   rating, review_count, favorite_count, current_stock, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		f.ID, f.SellerID, f.CategoryID, f.Name, f.Description, f.Price, f.Active,
		f.Rating, f.ReviewCount, f.FavoriteCount, f.CurrentStock, f.CreatedAt, f.UpdatedAt)
	return err
}

func (r *FoodRepository) Update(ctx context.Context, f *catalog.Food) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE food SET category_id=$1, name=$2, description=$3, price=$4, active=$5, updated_at=$6
		WHERE id=$7`,
		f.CategoryID, f.Name, f.Description, f.Price, f.Active, f.UpdatedAt, f.ID)
	return err
}

func scanFood(row rowScanner) (*catalog.Food, error) {
	f := &catalog.Food{}
	err := row.Scan(&f.ID, &f.SellerID, &f.CategoryID, &f.Name, &f.Description, &f.Price, &f.Active,
		&f.Rating, &f.ReviewCount, &f.FavoriteCount, &f.CurrentStock, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, apperr.New(apperr.CodeFoodNotFound, "food not found")
		}
		return nil, err
	}
	return f, nil
}

func (r *FoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Food, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+foodColumns+` FROM food WHERE id = $1`, id)
	return scanFood(row)
}

func (r *FoodRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Food, error) {
	row := r.conn.Q(ctx).QueryRow(ctx, `SELECT `+foodColumns+` FROM food WHERE id = $1 FOR UPDATE`, id)
	return scanFood(row)
}

// foodListSort allowlists the columns GET /foods may sort by (spec.md §4.11).
var foodListSort = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"rating":     "rating",
}

// List is the buyer-facing catalog browse/search: active foods only,
// optionally narrowed by category and a case-insensitive name match, offset
// paginated with a stable created_at/id tie-break. page/pageSize/sortBy/
// sortDir are expected to already be validated by pagination.ValidateOffset
// at the HTTP boundary.
func (r *FoodRepository) List(ctx context.Context, filter catalog.FoodListFilter, page, pageSize int, sortBy, sortDir string) ([]*catalog.Food, int, error) {
	where := sq.Eq{"active": true}
	listQ := sq.Select(foodColumns).From("food").Where(where)
	countQ := sq.Select("COUNT(*)").From("food").Where(where)

	if filter.CategoryID != nil {
		listQ = listQ.Where(sq.Eq{"category_id": *filter.CategoryID})
		countQ = countQ.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		listQ = listQ.Where(sq.Expr("name ILIKE ?", like))
		countQ = countQ.Where(sq.Expr("name ILIKE ?", like))
	}

	countSQL, countArgs, err := countQ.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.conn.Q(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ = pagination.ApplyOffset(listQ, pagination.Offset{Page: page, PageSize: pageSize, SortBy: sortBy, SortDir: sortDir}, foodListSort)
	querySQL, args, err := listQ.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.conn.Q(ctx).Query(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*catalog.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r *FoodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `DELETE FROM food WHERE id = $1`, id)
	return err
}

func (r *FoodRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*catalog.Food, error) {
	rows, err := r.conn.Q(ctx).Query(ctx, `SELECT `+foodColumns+` FROM food WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*catalog.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RecomputeCurrentStock sets current_stock to the sum of quantity_available
// over the food's open lots (spec.md §3, P1), as one SQL statement so it
// runs inside the caller's lot-mutating transaction without a round trip.
func (r *FoodRepository) RecomputeCurrentStock(ctx context.Context, foodID uuid.UUID) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE food SET current_stock = COALESCE((
			SELECT SUM(quantity_available) FROM production_lot
			WHERE food_id = $1 AND status = 'open'
		), 0), updated_at = now()
		WHERE id = $1`, foodID)
	return err
}

func (r *FoodRepository) ApplyReviewDelta(ctx context.Context, foodID uuid.UUID, ratingSum float64, reviewCountDelta int) error {
	_, err := r.conn.Q(ctx).Exec(ctx, `
		UPDATE food SET
			rating = ((rating * review_count) + $2) / NULLIF(review_count + $3, 0),
			review_count = review_count + $3,
			updated_at = now()
		WHERE id = $1`, foodID, ratingSum, reviewCountDelta)
	return err
}

func (r *FoodRepository) ApplyFavoriteDelta(ctx context.Context, foodID uuid.UUID, delta int) error {
	_, err := r.conn.Q(ctx).Exec(ctx,
		`UPDATE food SET favorite_count = favorite_count + $2, updated_at = now() WHERE id = $1`, foodID, delta)
	return err
}
