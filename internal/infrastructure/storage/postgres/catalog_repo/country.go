package catalog_repo

import (
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/infrastructure/storage/postgres"
)

const countryTable = "cat_countries"

// CountryRepo implements country.Repository.
type CountryRepo struct {
	*BaseCatalogRepo[*country.Country]
}

// NewCountryRepo creates a new country repository.
func NewCountryRepo(txManager *postgres.TxManager) *CountryRepo {
	return &CountryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			CatalogTable{Name: countryTable, Entity: "country"},
			postgres.ExtractDBColumns[country.Country](),
			func() *country.Country { return &country.Country{} },
		),
	}
}

var _ country.Repository = (*CountryRepo)(nil)
