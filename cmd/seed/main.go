// Package main provides a CLI tool for seeding the database with demo data.
// Everything goes through the domain services, so stock and balances end up
// consistent with the documents that were created.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"autoparts/internal/app"
	"autoparts/internal/config"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/currency"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
	v1 "autoparts/internal/infrastructure/http/v1"
	"autoparts/internal/infrastructure/storage/postgres"
	"autoparts/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if cfg.MemoryStore() {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL, 4, 1))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	if err := postgres.Migrate(ctx, txm); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	repos, err := app.PostgresRepositories(txm, cfg.AuditCompressThreshold)
	if err != nil {
		log.Fatalw("failed to initialize repositories", "error", err)
	}
	svc := app.NewServices(repos)

	existing, err := svc.Warehouses.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		log.Fatalw("failed to inspect warehouses", "error", err)
	}
	if existing.TotalCount > 0 && os.Getenv("SEED_FORCE") != "true" {
		log.Info("database already has data, skipping (set SEED_FORCE=true to seed anyway)")
		return
	}

	if err := seedDemoData(ctx, svc, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}

type demoCatalogs struct {
	warehouses []*warehouse.Warehouse
	countries  []*country.Country
	brands     []*brand.Brand
	clients    []*client.Client
}

func seedDemoData(ctx context.Context, svc v1.Services, log *logger.Logger) error {
	cat, err := seedCatalogs(ctx, svc)
	if err != nil {
		return fmt.Errorf("catalogs: %w", err)
	}
	log.Infow("catalogs seeded",
		"warehouses", len(cat.warehouses),
		"brands", len(cat.brands),
		"clients", len(cat.clients),
	)

	for _, r := range []*currency.Rate{
		currency.NewRate("EUR", types.MustMoney("1.08")),
		currency.NewRate("KZT", types.MustMoney("0.0021")),
		currency.NewRate("RUB", types.MustMoney("0.011")),
	} {
		if err := svc.Currency.Create(ctx, r); err != nil {
			return fmt.Errorf("currency %s: %w", r.Code, err)
		}
	}

	products, err := seedArrivals(ctx, svc, cat)
	if err != nil {
		return fmt.Errorf("arrivals: %w", err)
	}
	log.Infow("arrivals seeded", "products", len(products))

	if err := seedSales(ctx, svc, cat.clients, products); err != nil {
		return fmt.Errorf("sales: %w", err)
	}
	log.Info("sales and payments seeded")
	return nil
}

func seedCatalogs(ctx context.Context, svc v1.Services) (demoCatalogs, error) {
	var cat demoCatalogs

	for _, name := range []string{"Main warehouse", "Shop floor"} {
		w := warehouse.NewWarehouse(name)
		if err := svc.Warehouses.Create(ctx, w); err != nil {
			return cat, err
		}
		cat.warehouses = append(cat.warehouses, w)
	}
	for _, name := range []string{"Japan", "Germany", "Korea"} {
		c := country.NewCountry(name)
		if err := svc.Countries.Create(ctx, c); err != nil {
			return cat, err
		}
		cat.countries = append(cat.countries, c)
	}
	for _, name := range []string{"Toyota", "Bosch", "Hyundai Mobis", "Denso"} {
		b := brand.NewBrand(name)
		if err := svc.Brands.Create(ctx, b); err != nil {
			return cat, err
		}
		cat.brands = append(cat.brands, b)
	}
	for _, c := range []*client.Client{
		client.NewClient("Aidar Nurlanov", "+7 701 111 2233"),
		client.NewClient("Elena Smirnova", "+7 702 444 5566"),
		client.NewClient("Garage 24", "+7 727 300 0024"),
	} {
		if err := svc.Clients.Create(ctx, c); err != nil {
			return cat, err
		}
		cat.clients = append(cat.clients, c)
	}
	return cat, nil
}

type demoLine struct {
	brand    int
	name     string
	article  string
	qty      int64
	cost     string
	suitsFor string
}

func seedArrivals(ctx context.Context, svc v1.Services, cat demoCatalogs) ([]*inventory.Product, error) {
	batches := []struct {
		warehouse, country int
		daysAgo            int
		lines              []demoLine
	}{
		{0, 0, 120, []demoLine{
			{0, "Brake pad front", "04465-33450", 12, "18.40", "Camry 40/50"},
			{0, "Oil filter", "90915-YZZD4", 40, "3.10", "Camry, RAV4"},
			{3, "Spark plug", "K20HR-U11", 64, "4.75", ""},
		}},
		{0, 1, 45, []demoLine{
			{1, "Wiper blade 600mm", "3397008539", 20, "7.90", ""},
			{1, "Brake disc", "0986479S37", 6, "41.00", "Passat B6"},
		}},
		{1, 2, 10, []demoLine{
			{2, "Air filter", "28113-2S000", 15, "6.20", "Tucson, Sportage"},
			{0, "Oil filter", "90915-YZZD4", 10, "3.10", "Camry, RAV4"},
		}},
	}

	for _, b := range batches {
		a := inventory.NewArrival(cat.warehouses[b.warehouse].ID, cat.countries[b.country].ID,
			time.Now().AddDate(0, 0, -b.daysAgo))
		a.Comment = "demo delivery"
		for _, l := range b.lines {
			line := inventory.NewArrivalLine(cat.brands[l.brand].ID, l.name, l.qty, types.MustMoney(l.cost))
			line.ArticleNumber = l.article
			line.SuitsFor = l.suitsFor
			a.Lines = append(a.Lines, *line)
		}
		if err := svc.Arrivals.Create(ctx, a); err != nil {
			return nil, err
		}
	}

	filter := inventory.ProductFilter{ListFilter: domain.DefaultListFilter()}
	filter.Limit = 100
	res, err := svc.Products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, p := range res.Items {
		if p.CostPrice == nil {
			continue
		}
		price := p.CostPrice.Mul(types.MustMoney("1.35")).Round(2)
		if _, err := svc.Products.UpdateDetails(ctx, p.ID, inventory.DetailsPatch{SellingPrice: &price}); err != nil {
			return nil, err
		}
	}
	return res.Items, nil
}

func seedSales(ctx context.Context, svc v1.Services, clients []*client.Client, products []*inventory.Product) error {
	if len(products) == 0 {
		return nil
	}

	for i, c := range clients {
		s := sales.NewSale(c.ID)
		for j := 0; j < 2; j++ {
			p := products[(i*2+j)%len(products)]
			price := types.MustMoney("10")
			if p.CostPrice != nil {
				price = p.CostPrice.Mul(types.MustMoney("1.35")).Round(2)
			}
			s.Items = append(s.Items, *sales.NewSaleItem(p.ID, 1, price))
		}
		if err := svc.Sales.Create(ctx, s); err != nil {
			return fmt.Errorf("sale for %s: %w", c.FullName, err)
		}

		if i == 0 {
			if err := svc.Payments.Create(ctx, sales.NewPayment(c.ID, s.TotalAmount())); err != nil {
				return fmt.Errorf("payment for %s: %w", c.FullName, err)
			}
		}
	}
	return nil
}
