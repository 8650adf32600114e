package inventory

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"autoparts/internal/core/apperror"
	"autoparts/internal/core/id"
	"autoparts/internal/core/tx"
	"autoparts/internal/domain"
	"autoparts/internal/domain/adjustment"
	"autoparts/pkg/logger"
)

var tracer = otel.Tracer("autoparts/reconcile")

// CodeArrivalHasLines rejects moving a stocked arrival to another warehouse or country.
const CodeArrivalHasLines = "ARRIVAL_HAS_LINES"

// Catalog is the existence check the services need from a reference catalog.
type Catalog interface {
	MustExist(ctx context.Context, id id.ID) error
}

// ArrivalCatalogs groups the catalogs an arrival refers to.
type ArrivalCatalogs struct {
	Warehouses Catalog
	Countries  Catalog
	Brands     Catalog
}

// ArrivalService manages arrivals and reconciles product stock with their lines.
type ArrivalService struct {
	arrivals  ArrivalRepository
	products  ProductRepository
	catalogs  ArrivalCatalogs
	txManager tx.Manager
	journal   *adjustment.Journal
}

// NewArrivalService creates a new arrival service.
func NewArrivalService(
	arrivals ArrivalRepository,
	products ProductRepository,
	catalogs ArrivalCatalogs,
	txManager tx.Manager,
	journal *adjustment.Journal,
) *ArrivalService {
	return &ArrivalService{
		arrivals:  arrivals,
		products:  products,
		catalogs:  catalogs,
		txManager: txManager,
		journal:   journal,
	}
}

// Create stores an arrival header together with any lines it carries.
func (s *ArrivalService) Create(ctx context.Context, a *Arrival) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}
	if err := s.catalogs.Warehouses.MustExist(ctx, a.WarehouseID); err != nil {
		return err
	}
	if err := s.catalogs.Countries.MustExist(ctx, a.CountryID); err != nil {
		return err
	}

	lines := a.Lines
	for i := range lines {
		if err := s.prepareLine(ctx, &lines[i]); err != nil {
			return err
		}
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.arrivals.Create(ctx, a); err != nil {
			return fmt.Errorf("create arrival: %w", err)
		}
		changes := make([]lineChange, 0, len(lines))
		for i := range lines {
			lines[i].ArrivalID = a.ID
			if err := s.arrivals.CreateLine(ctx, &lines[i]); err != nil {
				return fmt.Errorf("create arrival line: %w", err)
			}
			changes = append(changes, lineChange{lineID: lines[i].ID, next: lines[i].State(a)})
		}
		var err error
		events, err = s.reconcile(ctx, adjustment.ActionCreate, changes...)
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	logger.Info(ctx, "arrival created", "id", a.ID, "lines", len(lines))
	return nil
}

// GetByID returns an arrival with its lines.
func (s *ArrivalService) GetByID(ctx context.Context, arrivalID id.ID) (*Arrival, error) {
	a, err := s.arrivals.GetByID(ctx, arrivalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.arrivals.ListLines(ctx, arrivalID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	a.Lines = lines
	return a, nil
}

// List returns arrival headers with their lines, so totals can be derived.
func (s *ArrivalService) List(ctx context.Context, filter ArrivalFilter) (domain.ListResult[*Arrival], error) {
	filter.Normalize()
	res, err := s.arrivals.List(ctx, filter)
	if err != nil {
		return res, err
	}
	if len(res.Items) == 0 {
		return res, nil
	}

	ids := make([]id.ID, len(res.Items))
	byID := make(map[id.ID]*Arrival, len(res.Items))
	for i, a := range res.Items {
		ids[i] = a.ID
		a.Lines = make([]ArrivalLine, 0)
		byID[a.ID] = a
	}
	lines, err := s.arrivals.ListLines(ctx, ids...)
	if err != nil {
		return res, fmt.Errorf("get lines: %w", err)
	}
	for _, l := range lines {
		if a, ok := byID[l.ArrivalID]; ok {
			a.Lines = append(a.Lines, l)
		}
	}
	return res, nil
}

// Update changes header fields. Warehouse and country feed product identity,
// so they can only change while the arrival is empty.
func (s *ArrivalService) Update(ctx context.Context, a *Arrival) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.arrivals.GetForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		if current.WarehouseID != a.WarehouseID || current.CountryID != a.CountryID {
			n, err := s.arrivals.CountLines(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("count lines: %w", err)
			}
			if n > 0 {
				return apperror.NewBusinessRule(CodeArrivalHasLines,
					"warehouse and country cannot change while the arrival has lines").
					WithDetail("id", a.ID.String()).
					WithDetail("lines", n)
			}
			if err := s.catalogs.Warehouses.MustExist(ctx, a.WarehouseID); err != nil {
				return err
			}
			if err := s.catalogs.Countries.MustExist(ctx, a.CountryID); err != nil {
				return err
			}
		}
		a.CreatedAt = current.CreatedAt
		a.Touch()
		if err := s.arrivals.Update(ctx, a); err != nil {
			return fmt.Errorf("update arrival: %w", err)
		}
		return nil
	})
}

// Delete removes an empty arrival.
func (s *ArrivalService) Delete(ctx context.Context, arrivalID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.arrivals.GetForUpdate(ctx, arrivalID); err != nil {
			return err
		}
		n, err := s.arrivals.CountLines(ctx, arrivalID)
		if err != nil {
			return fmt.Errorf("count lines: %w", err)
		}
		if n > 0 {
			return apperror.NewReferenceIntegrity("arrival", arrivalID.String()).WithDetail("lines", n)
		}
		return s.arrivals.Delete(ctx, arrivalID)
	})
}

// AddLine stores a new line and books its quantity on the matching product.
func (s *ArrivalService) AddLine(ctx context.Context, arrivalID id.ID, line *ArrivalLine) error {
	if err := s.prepareLine(ctx, line); err != nil {
		return err
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.arrivals.GetForUpdate(ctx, arrivalID)
		if err != nil {
			return err
		}
		line.ArrivalID = a.ID
		if err := s.arrivals.CreateLine(ctx, line); err != nil {
			return fmt.Errorf("create arrival line: %w", err)
		}
		events, err = s.reconcile(ctx, adjustment.ActionCreate, lineChange{lineID: line.ID, next: line.State(a)})
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

// UpdateLine replaces a line and moves the quantity difference onto the product.
func (s *ArrivalService) UpdateLine(ctx context.Context, arrivalID id.ID, line *ArrivalLine) error {
	if err := s.prepareLine(ctx, line); err != nil {
		return err
	}

	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.arrivals.GetForUpdate(ctx, arrivalID)
		if err != nil {
			return err
		}
		old, err := s.lockLine(ctx, arrivalID, line.ID)
		if err != nil {
			return err
		}

		line.ArrivalID = a.ID
		line.CreatedAt = old.CreatedAt
		line.Version = old.Version
		line.Touch()
		if err := s.arrivals.UpdateLine(ctx, line); err != nil {
			return fmt.Errorf("update arrival line: %w", err)
		}
		events, err = s.reconcile(ctx, adjustment.ActionUpdate, lineChange{lineID: line.ID, old: old.State(a), next: line.State(a)})
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

// DeleteLine removes a line and withdraws its quantity from the product.
// A product that no longer exists is left alone.
func (s *ArrivalService) DeleteLine(ctx context.Context, arrivalID, lineID id.ID) error {
	var events []adjustment.Event
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.arrivals.GetForUpdate(ctx, arrivalID)
		if err != nil {
			return err
		}
		old, err := s.lockLine(ctx, arrivalID, lineID)
		if err != nil {
			return err
		}
		if err := s.arrivals.DeleteLine(ctx, lineID); err != nil {
			return fmt.Errorf("delete arrival line: %w", err)
		}
		events, err = s.reconcile(ctx, adjustment.ActionDelete, lineChange{lineID: lineID, old: old.State(a)})
		if err != nil {
			return err
		}
		return s.journal.Append(ctx, events)
	})
	if err != nil {
		return err
	}

	s.journal.Publish(ctx, events)
	return nil
}

func (s *ArrivalService) prepareLine(ctx context.Context, line *ArrivalLine) error {
	line.Normalize()
	if err := line.Validate(ctx); err != nil {
		return err
	}
	return s.catalogs.Brands.MustExist(ctx, line.BrandID)
}

func (s *ArrivalService) lockLine(ctx context.Context, arrivalID, lineID id.ID) (*ArrivalLine, error) {
	old, err := s.arrivals.GetLineForUpdate(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if old.ArrivalID != arrivalID {
		return nil, apperror.NewNotFound("arrival line", lineID.String())
	}
	return old, nil
}

// lineChange is one line write to reconcile.
type lineChange struct {
	lineID    id.ID
	old, next *LineState
}

// lockedMove is a planned move bound to the product row it targets.
type lockedMove struct {
	StockMove
	lineID    id.ID
	productID id.ID
}

// reconcile applies the planned moves for the given line writes and returns
// the resulting adjustments. Target products are resolved first and then
// locked in id order, the same order sales use.
func (s *ArrivalService) reconcile(ctx context.Context, action adjustment.Action, changes ...lineChange) ([]adjustment.Event, error) {
	ctx, span := tracer.Start(ctx, "reconcile.arrival_lines",
		trace.WithAttributes(
			attribute.String("line.action", string(action)),
			attribute.Int("line.count", len(changes)),
		))
	defer span.End()

	var targets []lockedMove
	for _, c := range changes {
		for _, m := range PlanArrivalLine(c.old, c.next) {
			productID, err := s.resolveProduct(ctx, m)
			if err != nil {
				return nil, err
			}
			if id.IsNil(productID) {
				logger.Debug(ctx, "no product matches arrival line, skipping",
					"line_id", c.lineID, "name", m.Identity.Name, "delta", m.Delta)
				continue
			}
			targets = append(targets, lockedMove{StockMove: m, lineID: c.lineID, productID: productID})
		}
	}
	slices.SortStableFunc(targets, func(a, b lockedMove) int {
		return id.Compare(a.productID, b.productID)
	})

	events := make([]adjustment.Event, 0, len(targets))
	for _, t := range targets {
		p, err := s.products.GetForUpdate(ctx, t.productID)
		if err != nil {
			return nil, fmt.Errorf("lock product: %w", err)
		}

		before := p.Quantity
		after, clamped := ApplyQuantity(before, t.Delta)
		p.Quantity = after
		if t.CostPrice != nil {
			p.CostPrice = t.CostPrice
		}
		p.Touch()
		if err := s.products.SaveStock(ctx, p); err != nil {
			return nil, fmt.Errorf("save product stock: %w", err)
		}

		events = append(events, adjustment.StockChange(
			p.ID, adjustment.SourceArrivalLine, t.lineID, action, before, t.Delta, after, clamped))
	}

	span.SetAttributes(attribute.Int("reconcile.moves", len(events)))
	return events, nil
}

// resolveProduct returns the id of the product a move targets, creating the
// product when allowed. A nil id means the move has nothing to apply to.
func (s *ArrivalService) resolveProduct(ctx context.Context, m StockMove) (id.ID, error) {
	if m.Create {
		p, err := s.products.Ensure(ctx, NewProduct(m.Identity, m.CostPrice, m.SuitsFor))
		if err != nil {
			return id.Nil(), fmt.Errorf("ensure product: %w", err)
		}
		return p.ID, nil
	}

	p, err := s.products.FindByIdentity(ctx, m.Identity)
	if apperror.IsNotFound(err) {
		return id.Nil(), nil
	}
	if err != nil {
		return id.Nil(), fmt.Errorf("find product: %w", err)
	}
	return p.ID, nil
}
