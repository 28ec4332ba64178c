package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
)

const salesHistoryQuery = `
	SELECT
		oi.product_id,
		COALESCE(p.name, '') AS product_name,
		COALESCE(p.category, '') AS category,
		o.created_at,
		oi.quantity
	FROM order_items oi
	JOIN orders o ON oi.order_id = o.id
	JOIN products p ON oi.product_id = p.id
	WHERE o.created_at >= $1
	AND o.created_at <= $2
	AND oi.product_id = $3
	ORDER BY o.created_at
`

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetSalesHistory(ctx context.Context, productID string, start, end time.Time) ([]domain.SaleRecord, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var records []domain.SaleRecord
	if err := r.db.SelectContext(ctx, &records, salesHistoryQuery, start, end, productID); err != nil {
		return nil, fmt.Errorf("error getting sales history: %w", err)
	}
	return records, nil
}
