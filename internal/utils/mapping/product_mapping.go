package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product(m)
}

func ToModelProduct(d domain.Product) models.Product {
	return models.Product(d)
}
