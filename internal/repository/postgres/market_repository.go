package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

const defaultPeerLimit = 10

// Peers in the same category that have sold at least once, best sellers first.
const marketComparablesQuery = `
	SELECT
		p.id,
		COALESCE(p.name, '') AS name,
		COALESCE(p.category, '') AS category,
		COALESCE(p.price, 0) AS price,
		AVG(oi.quantity) AS avg_quantity_sold,
		COUNT(oi.id) AS order_count
	FROM products p
	LEFT JOIN order_items oi ON p.id = oi.product_id
	WHERE p.category = (
		SELECT category FROM products WHERE id = $1
	)
	AND p.id != $1
	GROUP BY p.id, p.name, p.category, p.price
	HAVING COUNT(oi.id) > 0
	ORDER BY AVG(oi.quantity) DESC
	LIMIT $2
`

const productPriceQuery = `SELECT COALESCE(price, 0) FROM products WHERE id = $1`

type marketRepository struct {
	db *DB
}

func NewMarketRepository(db *DB) repository.MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) GetMarketComparables(ctx context.Context, productID string, limit int) ([]domain.MarketComparable, error) {
	if limit <= 0 {
		limit = defaultPeerLimit
	}

	var comparables []domain.MarketComparable
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &comparables, marketComparablesQuery, productID, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting market comparables: %w", err)
	}
	return comparables, nil
}

func (r *marketRepository) GetProductPrice(ctx context.Context, productID string) (float64, bool, error) {
	var price float64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &price, productPriceQuery, productID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error getting product price: %w", err)
	}
	return price, true, nil
}
