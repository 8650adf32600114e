package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/domain"
	"autoparts/internal/domain/inventory"
)

// ProductRepo implements inventory.ProductRepository.
type ProductRepo struct {
	store *Store
}

// NewProductRepo creates the product repository.
func NewProductRepo(s *Store) *ProductRepo {
	return &ProductRepo{store: s}
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	var out *inventory.Product
	err := r.store.read(ctx, func() error {
		p, ok := r.store.products[productID]
		if !ok {
			return notFound("product", productID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepo) FindByIdentity(ctx context.Context, identity inventory.Identity) (*inventory.Product, error) {
	var out *inventory.Product
	err := r.store.read(ctx, func() error {
		pid, ok := r.store.identities[identity]
		if !ok {
			return apperror.NewNotFound("product", identity.Name)
		}
		p := r.store.products[pid]
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) Ensure(ctx context.Context, p *inventory.Product) (*inventory.Product, error) {
	var out *inventory.Product
	err := r.store.write(ctx, func() error {
		identity := p.Identity()
		if pid, ok := r.store.identities[identity]; ok {
			stored := r.store.products[pid]
			out = &stored
			return nil
		}
		r.store.products[p.ID] = *p
		r.store.identities[identity] = p.ID
		stored := *p
		out = &stored
		return nil
	})
	return out, err
}

func (r *ProductRepo) SaveStock(ctx context.Context, p *inventory.Product) error {
	return r.store.write(ctx, func() error {
		stored, ok := r.store.products[p.ID]
		if !ok {
			return notFound("product", p.ID)
		}
		stored.Quantity = p.Quantity
		stored.CostPrice = p.CostPrice
		stored.UpdatedAt = p.UpdatedAt
		r.store.products[p.ID] = stored
		return nil
	})
}

func (r *ProductRepo) UpdateDetails(ctx context.Context, p *inventory.Product) error {
	return r.store.write(ctx, func() error {
		stored, ok := r.store.products[p.ID]
		if !ok {
			return notFound("product", p.ID)
		}
		if stored.Version != p.Version {
			return versionConflict("product", p.ID)
		}
		stored.SellingPrice = p.SellingPrice
		stored.SuitsFor = p.SuitsFor
		stored.UpdatedAt = p.UpdatedAt
		stored.Version++
		r.store.products[p.ID] = stored
		p.Version = stored.Version
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, filter inventory.ProductFilter) (domain.ListResult[*inventory.Product], error) {
	var res domain.ListResult[*inventory.Product]
	err := r.store.read(ctx, func() error {
		search := strings.ToUpper(strings.TrimSpace(filter.Search))
		items := make([]*inventory.Product, 0)
		for _, p := range r.store.products {
			switch {
			case filter.WarehouseID != nil && p.WarehouseID != *filter.WarehouseID,
				filter.BrandID != nil && p.BrandID != *filter.BrandID,
				filter.CountryID != nil && p.CountryID != *filter.CountryID,
				filter.InStockOnly && p.Quantity == 0,
				len(filter.IDs) > 0 && !slices.Contains(filter.IDs, p.ID):
				continue
			}
			if search != "" &&
				!strings.Contains(p.Name, search) &&
				!strings.Contains(strings.ToUpper(p.ArticleNumber), search) {
				continue
			}
			items = append(items, &p)
		}
		slices.SortFunc(items, func(a, b *inventory.Product) int {
			switch strings.TrimPrefix(filter.OrderBy, "-") {
			case "quantity":
				return orderDir(filter.OrderBy, cmp.Compare(a.Quantity, b.Quantity))
			case "created_at":
				return orderDir(filter.OrderBy, id.Compare(a.ID, b.ID))
			default:
				return orderDir(filter.OrderBy, cmp.Or(strings.Compare(a.Name, b.Name), id.Compare(a.ID, b.ID)))
			}
		})
		res = page(items, filter.Limit, filter.Offset)
		return nil
	})
	return res, err
}

func orderDir(orderBy string, c int) int {
	if strings.HasPrefix(orderBy, "-") {
		return -c
	}
	return c
}

// ArrivalRepo implements inventory.ArrivalRepository.
type ArrivalRepo struct {
	store *Store
}

// NewArrivalRepo creates the arrival repository.
func NewArrivalRepo(s *Store) *ArrivalRepo {
	return &ArrivalRepo{store: s}
}

func (r *ArrivalRepo) Create(ctx context.Context, a *inventory.Arrival) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.arrivals[a.ID]; ok {
			return duplicateID("arrival", a.ID)
		}
		row := *a
		row.Lines = nil
		r.store.arrivals[a.ID] = row
		return nil
	})
}

func (r *ArrivalRepo) GetByID(ctx context.Context, arrivalID id.ID) (*inventory.Arrival, error) {
	var out *inventory.Arrival
	err := r.store.read(ctx, func() error {
		a, ok := r.store.arrivals[arrivalID]
		if !ok {
			return notFound("arrival", arrivalID)
		}
		a.Lines = make([]inventory.ArrivalLine, 0)
		out = &a
		return nil
	})
	return out, err
}

func (r *ArrivalRepo) GetForUpdate(ctx context.Context, arrivalID id.ID) (*inventory.Arrival, error) {
	return r.GetByID(ctx, arrivalID)
}

func (r *ArrivalRepo) Update(ctx context.Context, a *inventory.Arrival) error {
	return r.store.write(ctx, func() error {
		stored, ok := r.store.arrivals[a.ID]
		if !ok {
			return notFound("arrival", a.ID)
		}
		if stored.Version != a.Version {
			return versionConflict("arrival", a.ID)
		}
		a.Version++
		row := *a
		row.Lines = nil
		r.store.arrivals[a.ID] = row
		return nil
	})
}

func (r *ArrivalRepo) Delete(ctx context.Context, arrivalID id.ID) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.arrivals[arrivalID]; !ok {
			return notFound("arrival", arrivalID)
		}
		if anyRow(r.store.arrivalLines, func(l inventory.ArrivalLine) bool { return l.ArrivalID == arrivalID }) {
			return apperror.NewReferenceIntegrity("arrival", arrivalID.String())
		}
		delete(r.store.arrivals, arrivalID)
		return nil
	})
}

func (r *ArrivalRepo) List(ctx context.Context, filter inventory.ArrivalFilter) (domain.ListResult[*inventory.Arrival], error) {
	var res domain.ListResult[*inventory.Arrival]
	err := r.store.read(ctx, func() error {
		items := make([]*inventory.Arrival, 0)
		for _, a := range r.store.arrivals {
			switch {
			case filter.WarehouseID != nil && a.WarehouseID != *filter.WarehouseID,
				filter.DateFrom != nil && a.ArrivalDate.Before(*filter.DateFrom),
				filter.DateTo != nil && a.ArrivalDate.After(*filter.DateTo):
				continue
			}
			items = append(items, &a)
		}
		// newest first
		slices.SortFunc(items, func(a, b *inventory.Arrival) int {
			return cmp.Or(b.ArrivalDate.Compare(a.ArrivalDate), id.Compare(b.ID, a.ID))
		})
		res = page(items, filter.Limit, filter.Offset)
		return nil
	})
	return res, err
}

func (r *ArrivalRepo) CountLines(ctx context.Context, arrivalID id.ID) (int, error) {
	var n int
	err := r.store.read(ctx, func() error {
		for _, l := range r.store.arrivalLines {
			if l.ArrivalID == arrivalID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ArrivalRepo) ListLines(ctx context.Context, arrivalIDs ...id.ID) ([]inventory.ArrivalLine, error) {
	out := make([]inventory.ArrivalLine, 0)
	err := r.store.read(ctx, func() error {
		for _, l := range r.store.arrivalLines {
			if slices.Contains(arrivalIDs, l.ArrivalID) {
				out = append(out, l)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b inventory.ArrivalLine) int { return id.Compare(a.ID, b.ID) })
	return out, err
}

func (r *ArrivalRepo) CreateLine(ctx context.Context, line *inventory.ArrivalLine) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.arrivals[line.ArrivalID]; !ok {
			return apperror.NewReferenceIntegrity("arrival", line.ArrivalID.String())
		}
		if _, ok := r.store.arrivalLines[line.ID]; ok {
			return duplicateID("arrival line", line.ID)
		}
		r.store.arrivalLines[line.ID] = *line
		return nil
	})
}

func (r *ArrivalRepo) GetLineForUpdate(ctx context.Context, lineID id.ID) (*inventory.ArrivalLine, error) {
	var out *inventory.ArrivalLine
	err := r.store.read(ctx, func() error {
		l, ok := r.store.arrivalLines[lineID]
		if !ok {
			return notFound("arrival line", lineID)
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *ArrivalRepo) UpdateLine(ctx context.Context, line *inventory.ArrivalLine) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.arrivalLines[line.ID]; !ok {
			return notFound("arrival line", line.ID)
		}
		line.Version++
		r.store.arrivalLines[line.ID] = *line
		return nil
	})
}

func (r *ArrivalRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	return r.store.write(ctx, func() error {
		if _, ok := r.store.arrivalLines[lineID]; !ok {
			return notFound("arrival line", lineID)
		}
		delete(r.store.arrivalLines, lineID)
		return nil
	})
}
