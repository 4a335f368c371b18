package repositories

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// ProductReader is the read side of the product catalog used to price sale items.
type ProductReader interface {
	// FindProductsByIDs returns the products found, keyed by ID. Missing IDs are simply absent.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}
