package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/entity"
	"autoparts/internal/core/id"
	"autoparts/internal/core/types"
	"autoparts/internal/domain"
	"autoparts/internal/domain/catalogs/brand"
	"autoparts/internal/domain/catalogs/client"
	"autoparts/internal/domain/catalogs/country"
	"autoparts/internal/domain/catalogs/warehouse"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/domain/sales"
)

// catalogRecord is a pointer to a stored catalog row.
type catalogRecord[S any] interface {
	*S
	entity.Record
	GetName() string
}

// catalogRepo implements domain.CatalogRepository over one store table.
type catalogRepo[S any, P catalogRecord[S]] struct {
	store  *Store
	entity string
	rows   func(*Store) map[id.ID]S
	inUse  func(*Store, id.ID) bool
}

func (r *catalogRepo[S, P]) Create(ctx context.Context, e P) error {
	return r.store.write(ctx, func() error {
		rows := r.rows(r.store)
		if _, ok := rows[e.GetID()]; ok {
			return duplicateID(r.entity, e.GetID())
		}
		rows[e.GetID()] = *e
		return nil
	})
}

func (r *catalogRepo[S, P]) GetByID(ctx context.Context, rowID id.ID) (P, error) {
	var out P
	err := r.store.read(ctx, func() error {
		row, ok := r.rows(r.store)[rowID]
		if !ok {
			return notFound(r.entity, rowID)
		}
		out = P(&row)
		return nil
	})
	return out, err
}

// Update writes e if its version matches the stored one and bumps the version.
func (r *catalogRepo[S, P]) Update(ctx context.Context, e P) error {
	return r.store.write(ctx, func() error {
		rows := r.rows(r.store)
		stored, ok := rows[e.GetID()]
		if !ok {
			return notFound(r.entity, e.GetID())
		}
		if P(&stored).GetVersion() != e.GetVersion() {
			return versionConflict(r.entity, e.GetID())
		}
		e.SetVersion(e.GetVersion() + 1)
		rows[e.GetID()] = *e
		return nil
	})
}

func (r *catalogRepo[S, P]) Delete(ctx context.Context, rowID id.ID) error {
	return r.store.write(ctx, func() error {
		rows := r.rows(r.store)
		if _, ok := rows[rowID]; !ok {
			return notFound(r.entity, rowID)
		}
		if r.inUse != nil && r.inUse(r.store, rowID) {
			return apperror.NewReferenceIntegrity(r.entity, rowID.String())
		}
		delete(rows, rowID)
		return nil
	})
}

func (r *catalogRepo[S, P]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[P], error) {
	var res domain.ListResult[P]
	err := r.store.read(ctx, func() error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		items := make([]P, 0)
		for _, row := range r.rows(r.store) {
			p := P(&row)
			if search != "" && !strings.Contains(strings.ToLower(p.GetName()), search) {
				continue
			}
			if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, p.GetID()) {
				continue
			}
			items = append(items, p)
		}
		sortCatalog(items, filter.OrderBy)
		res = page(items, filter.Limit, filter.Offset)
		return nil
	})
	return res, err
}

func (r *catalogRepo[S, P]) Exists(ctx context.Context, rowID id.ID) (bool, error) {
	var ok bool
	err := r.store.read(ctx, func() error {
		_, ok = r.rows(r.store)[rowID]
		return nil
	})
	return ok, err
}

func sortCatalog[P interface {
	GetID() id.ID
	GetName() string
}](items []P, orderBy string) {
	desc := strings.HasPrefix(orderBy, "-")
	field := strings.TrimPrefix(orderBy, "-")
	slices.SortFunc(items, func(a, b P) int {
		var c int
		if field == "created_at" {
			c = id.Compare(a.GetID(), b.GetID())
		} else {
			c = cmp.Or(strings.Compare(a.GetName(), b.GetName()), id.Compare(a.GetID(), b.GetID()))
		}
		if desc {
			return -c
		}
		return c
	})
}

// page cuts one page out of items. Limit 0 means no limit.
func page[T any](items []T, limit, offset int) domain.ListResult[T] {
	res := domain.ListResult[T]{
		TotalCount: int64(len(items)),
		Limit:      limit,
		Offset:     offset,
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	res.Items = items[offset:end]
	return res
}

// --- concrete catalogs ---

// NewWarehouseRepo creates the Warehouse repository.
func NewWarehouseRepo(s *Store) warehouse.Repository {
	return &catalogRepo[warehouse.Warehouse, *warehouse.Warehouse]{
		store:  s,
		entity: "warehouse",
		rows:   func(s *Store) map[id.ID]warehouse.Warehouse { return s.warehouses },
		inUse: func(s *Store, rowID id.ID) bool {
			return anyRow(s.products, func(p inventory.Product) bool { return p.WarehouseID == rowID }) ||
				anyRow(s.arrivals, func(a inventory.Arrival) bool { return a.WarehouseID == rowID })
		},
	}
}

// NewCountryRepo creates the Country repository.
func NewCountryRepo(s *Store) country.Repository {
	return &catalogRepo[country.Country, *country.Country]{
		store:  s,
		entity: "country",
		rows:   func(s *Store) map[id.ID]country.Country { return s.countries },
		inUse: func(s *Store, rowID id.ID) bool {
			return anyRow(s.products, func(p inventory.Product) bool { return p.CountryID == rowID }) ||
				anyRow(s.arrivals, func(a inventory.Arrival) bool { return a.CountryID == rowID })
		},
	}
}

// NewBrandRepo creates the Brand repository.
func NewBrandRepo(s *Store) brand.Repository {
	return &catalogRepo[brand.Brand, *brand.Brand]{
		store:  s,
		entity: "brand",
		rows:   func(s *Store) map[id.ID]brand.Brand { return s.brands },
		inUse: func(s *Store, rowID id.ID) bool {
			return anyRow(s.products, func(p inventory.Product) bool { return p.BrandID == rowID }) ||
				anyRow(s.arrivalLines, func(l inventory.ArrivalLine) bool { return l.BrandID == rowID })
		},
	}
}

// ClientRepo is the Client repository. Balance is only written by SetBalance.
type ClientRepo struct {
	catalogRepo[client.Client, *client.Client]
}

// NewClientRepo creates the Client repository.
func NewClientRepo(s *Store) *ClientRepo {
	return &ClientRepo{catalogRepo[client.Client, *client.Client]{
		store:  s,
		entity: "client",
		rows:   func(s *Store) map[id.ID]client.Client { return s.clients },
		inUse: func(s *Store, rowID id.ID) bool {
			return anyRow(s.sales, func(r sales.Sale) bool { return r.ClientID == rowID }) ||
				anyRow(s.payments, func(p sales.Payment) bool { return p.ClientID == rowID })
		},
	}}
}

// Update keeps the stored balance whatever the caller sends.
func (r *ClientRepo) Update(ctx context.Context, c *client.Client) error {
	return r.store.write(ctx, func() error {
		stored, ok := r.store.clients[c.ID]
		if !ok {
			return notFound(r.entity, c.ID)
		}
		if stored.Version != c.Version {
			return versionConflict(r.entity, c.ID)
		}
		c.Balance = stored.Balance
		c.Version++
		r.store.clients[c.ID] = *c
		return nil
	})
}

// GetForUpdate returns the client. The store lock held by the caller's
// transaction already serialises access.
func (r *ClientRepo) GetForUpdate(ctx context.Context, clientID id.ID) (*client.Client, error) {
	return r.GetByID(ctx, clientID)
}

// SetBalance overwrites the client's balance.
func (r *ClientRepo) SetBalance(ctx context.Context, clientID id.ID, balance types.Money) error {
	return r.store.write(ctx, func() error {
		c, ok := r.store.clients[clientID]
		if !ok {
			return notFound(r.entity, clientID)
		}
		c.Balance = balance
		r.store.clients[clientID] = c
		return nil
	})
}

func anyRow[T any](rows map[id.ID]T, match func(T) bool) bool {
	for _, r := range rows {
		if match(r) {
			return true
		}
	}
	return false
}
