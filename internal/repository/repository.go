// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/domain"
)

// SalesRepository reads order lines for demand forecasting.
type SalesRepository interface {
	GetSalesHistory(ctx context.Context, productID string, start, end time.Time) ([]domain.SaleRecord, error)
}

// InventoryRepository reads a buyer's stock lines.
type InventoryRepository interface {
	GetBuyerInventory(ctx context.Context, buyerID string) ([]domain.InventoryItem, error)
}

// MarketRepository reads category peers and product prices.
type MarketRepository interface {
	GetMarketComparables(ctx context.Context, productID string, limit int) ([]domain.MarketComparable, error)
	// GetProductPrice returns found=false when the product does not exist.
	GetProductPrice(ctx context.Context, productID string) (price float64, found bool, err error)
}
