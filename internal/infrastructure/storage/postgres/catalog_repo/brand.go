package catalog_repo

import (
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/infrastructure/storage/postgres"
)

const brandTable = "cat_brands"

// BrandRepo implements brand.Repository.
type BrandRepo struct {
	*BaseCatalogRepo[*brand.Brand]
}

// NewBrandRepo creates a new brand repository.
func NewBrandRepo(txManager *postgres.TxManager) *BrandRepo {
	return &BrandRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			CatalogTable{Name: brandTable, Entity: "brand"},
			postgres.ExtractDBColumns[brand.Brand](),
			func() *brand.Brand { return &brand.Brand{} },
		),
	}
}

var _ brand.Repository = (*BrandRepo)(nil)
