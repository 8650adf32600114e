// Package register_repo provides the PostgreSQL stock register: the products
// table, whose quantity column is the on-hand balance.
package register_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/domain"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// identityCols is the column list of the products_identity unique index.
var identityCols = []string{"warehouse_id", "brand_id", "country_id", "article_number", "name"}

var productCols = postgres.ExtractDBColumns[inventory.Product]()

// ProductRepo implements inventory.ProductRepository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProductRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(productCols...).From(productsTable)
}

func (r *ProductRepo) get(ctx context.Context, q squirrel.SelectBuilder, key string) (*inventory.Product, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p inventory.Product
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", key)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	return r.get(ctx, r.baseSelect().Where(squirrel.Eq{"id": productID}), productID.String())
}

// GetForUpdate locks the product row until the transaction ends.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	return r.get(ctx, r.baseSelect().Where(squirrel.Eq{"id": productID}).Suffix("FOR UPDATE"), productID.String())
}

func identityWhere(identity inventory.Identity) squirrel.Eq {
	return squirrel.Eq{
		"warehouse_id":   identity.WarehouseID,
		"brand_id":       identity.BrandID,
		"country_id":     identity.CountryID,
		"article_number": identity.ArticleNumber,
		"name":           identity.Name,
	}
}

func (r *ProductRepo) FindByIdentity(ctx context.Context, identity inventory.Identity) (*inventory.Product, error) {
	return r.get(ctx, r.baseSelect().Where(identityWhere(identity)), identity.Name)
}

// ensureQuery inserts p unless its identity is taken.
func (r *ProductRepo) ensureQuery(p *inventory.Product) squirrel.InsertBuilder {
	return r.builder.
		Insert(productsTable).
		SetMap(postgres.StructToMap(p)).
		Suffix("ON CONFLICT (" + strings.Join(identityCols, ", ") + ") DO NOTHING")
}

// Ensure inserts p when no product has its identity and returns the stored
// row. Concurrent callers with the same identity all end up on the one row.
func (r *ProductRepo) Ensure(ctx context.Context, p *inventory.Product) (*inventory.Product, error) {
	sql, args, err := r.ensureQuery(p).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("ensure product: %w", postgres.MapError(err, "product", p.ID.String()))
	}
	return r.FindByIdentity(ctx, p.Identity())
}

// SaveStock writes quantity and cost price. The caller holds the row lock.
func (r *ProductRepo) SaveStock(ctx context.Context, p *inventory.Product) error {
	sql, args, err := r.builder.
		Update(productsTable).
		Set("quantity", p.Quantity).
		Set("cost_price", p.CostPrice).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("save stock: %w", postgres.MapError(err, "product", p.ID.String()))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID.String())
	}
	return nil
}

// UpdateDetails writes selling price and suits-for with optimistic locking.
func (r *ProductRepo) UpdateDetails(ctx context.Context, p *inventory.Product) error {
	sql, args, err := r.builder.
		Update(productsTable).
		Set("selling_price", p.SellingPrice).
		Set("suits_for", p.SuitsFor).
		Set("updated_at", time.Now().UTC()).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", postgres.MapError(err, "product", p.ID.String()))
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
		return apperror.NewConcurrentModification("product", p.ID.String())
	}
	p.Version++
	return nil
}

func (r *ProductRepo) listQuery(filter inventory.ProductFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.BrandID != nil {
		q = q.Where(squirrel.Eq{"brand_id": *filter.BrandID})
	}
	if filter.CountryID != nil {
		q = q.Where(squirrel.Eq{"country_id": *filter.CountryID})
	}
	if filter.InStockOnly {
		q = q.Where(squirrel.Gt{"quantity": 0})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"article_number": pattern},
		})
	}
	return q
}

func productOrder(orderBy string) (string, error) {
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	}

	switch field {
	case "", "name":
		return "name " + direction, nil
	case "quantity", "created_at", "article_number", "selling_price":
		return field + " " + direction, nil
	default:
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}
}

func (r *ProductRepo) List(ctx context.Context, filter inventory.ProductFilter) (domain.ListResult[*inventory.Product], error) {
	result := domain.ListResult[*inventory.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.listQuery(filter)
	querier := r.txManager.GetQuerier(ctx)

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count products: %w", err)
	}

	order, err := productOrder(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(order, "id ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	result.Items = make([]*inventory.Product, 0)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list products: %w", err)
	}
	return result, nil
}

var _ inventory.ProductRepository = (*ProductRepo)(nil)
