// Package app assembles domain services on top of a storage backend.
package app

import (
	"autoparts/internal/core/tx"
	"autoparts/internal/domain/adjustment"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/reports"
	"autoparts/internal/domain/sales"
	v1 "autoparts/internal/infrastructure/http/v1"
	"autoparts/internal/infrastructure/storage/memory"
	"autoparts/internal/infrastructure/storage/postgres"
	"autoparts/internal/infrastructure/storage/postgres/catalog_repo"
	"autoparts/internal/infrastructure/storage/postgres/document_repo"
	"autoparts/internal/infrastructure/storage/postgres/register_repo"
	"autoparts/internal/infrastructure/storage/postgres/report_repo"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager tx.ReadOnlyManager

	Warehouses warehouse.Repository
	Countries  country.Repository
	Brands     brand.Repository
	Clients    client.Repository
	Rates      currency.Repository

	Products    inventory.ProductRepository
	Arrivals    inventory.ArrivalRepository
	Sales       sales.SaleRepository
	Payments    sales.PaymentRepository
	Reports     reports.Repository
	Adjustments adjustment.Store
}

// MemoryRepositories backs every repository with one in-process store.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		TxManager:   memory.NewTxManager(store),
		Warehouses:  memory.NewWarehouseRepo(store),
		Countries:   memory.NewCountryRepo(store),
		Brands:      memory.NewBrandRepo(store),
		Clients:     memory.NewClientRepo(store),
		Rates:       memory.NewRateRepo(store),
		Products:    memory.NewProductRepo(store),
		Arrivals:    memory.NewArrivalRepo(store),
		Sales:       memory.NewSaleRepo(store),
		Payments:    memory.NewPaymentRepo(store),
		Reports:     memory.NewReportRepo(store),
		Adjustments: memory.NewAdjustmentStore(store),
	}
}

// PostgresRepositories backs every repository with the database behind txm.
// Adjustment payloads larger than compressThreshold bytes are stored compressed.
func PostgresRepositories(txm *postgres.TxManager, compressThreshold int) (Repositories, error) {
	adjustments, err := postgres.NewAdjustmentStore(txm, compressThreshold)
	if err != nil {
		return Repositories{}, err
	}
	return Repositories{
		TxManager:   txm,
		Warehouses:  catalog_repo.NewWarehouseRepo(txm),
		Countries:   catalog_repo.NewCountryRepo(txm),
		Brands:      catalog_repo.NewBrandRepo(txm),
		Clients:     catalog_repo.NewClientRepo(txm),
		Rates:       catalog_repo.NewRateRepo(txm),
		Products:    register_repo.NewProductRepo(txm),
		Arrivals:    document_repo.NewArrivalRepo(txm),
		Sales:       document_repo.NewSaleRepo(txm),
		Payments:    document_repo.NewPaymentRepo(txm),
		Reports:     report_repo.NewReportRepo(txm),
		Adjustments: adjustments,
	}, nil
}

// NewServices wires the domain services. Observers receive every committed
// adjustment and every rejected stock request.
func NewServices(repos Repositories, observers ...adjustment.Observer) v1.Services {
	txm := repos.TxManager
	journal := adjustment.NewJournal(repos.Adjustments, observers...)

	svc := v1.Services{
		Warehouses: warehouse.NewService(repos.Warehouses, txm),
		Countries:  country.NewService(repos.Countries, txm),
		Brands:     brand.NewService(repos.Brands, txm),
		Clients:    client.NewService(repos.Clients, txm),
		Currency:   currency.NewService(repos.Rates, txm),
		Products:   inventory.NewProductService(repos.Products, txm),
		Reports:    reports.NewService(repos.Reports, txm),
		Journal:    journal,
	}
	svc.Arrivals = inventory.NewArrivalService(repos.Arrivals, repos.Products, inventory.ArrivalCatalogs{
		Warehouses: svc.Warehouses,
		Countries:  svc.Countries,
		Brands:     svc.Brands,
	}, txm, journal)
	svc.Sales = sales.NewSaleService(repos.Sales, repos.Products, repos.Clients, txm, journal)
	svc.Payments = sales.NewPaymentService(repos.Payments, repos.Clients, txm, journal)
	return svc
}
