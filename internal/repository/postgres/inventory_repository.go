package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
)

const buyerInventoryQuery = `
	SELECT
		i.product_id,
		COALESCE(p.name, '') AS product_name,
		COALESCE(p.category, '') AS category,
		i.current_stock,
		i.min_stock_threshold,
		COALESCE(p.price, 0) AS price,
		COALESCE(p.lead_time_days, 0) AS lead_time_days
	FROM inventory i
	JOIN products p ON i.product_id = p.id
	WHERE i.buyer_id = $1
`

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetBuyerInventory(ctx context.Context, buyerID string) ([]domain.InventoryItem, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var items []domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, buyerInventoryQuery, buyerID); err != nil {
		return nil, fmt.Errorf("error getting buyer inventory: %w", err)
	}
	return items, nil
}
