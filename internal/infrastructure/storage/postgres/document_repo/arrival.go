package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"autoparts/internal/core/id"
	"autoparts/internal/domain"
	"autoparts/internal/domain/inventory"
	"autoparts/internal/infrastructure/storage/postgres"
)

const (
	arrivalsTable     = "doc_arrivals"
	arrivalLinesTable = "doc_arrival_lines"
)

// ArrivalRepo implements inventory.ArrivalRepository.
type ArrivalRepo struct {
	*BaseDocumentRepo[*inventory.Arrival]
	lines *BaseDocumentRepo[*inventory.ArrivalLine]
}

// NewArrivalRepo creates a new arrival repository.
func NewArrivalRepo(txManager *postgres.TxManager) *ArrivalRepo {
	return &ArrivalRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager, arrivalsTable, "arrival", "arrival_date DESC",
			postgres.ExtractDBColumns[inventory.Arrival](),
			func() *inventory.Arrival { return &inventory.Arrival{Lines: make([]inventory.ArrivalLine, 0)} },
		),
		lines: NewBaseDocumentRepo(
			txManager, arrivalLinesTable, "arrival line", "id ASC",
			postgres.ExtractDBColumns[inventory.ArrivalLine](),
			func() *inventory.ArrivalLine { return &inventory.ArrivalLine{} },
		),
	}
}

// List returns arrival headers. DateFrom and DateTo are inclusive calendar dates.
func (r *ArrivalRepo) List(ctx context.Context, filter inventory.ArrivalFilter) (domain.ListResult[*inventory.Arrival], error) {
	return r.BaseDocumentRepo.List(ctx, r.listQuery(filter), filter.ListFilter)
}

func (r *ArrivalRepo) listQuery(filter inventory.ArrivalFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"arrival_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"arrival_date": *filter.DateTo})
	}
	return q
}

func (r *ArrivalRepo) CountLines(ctx context.Context, arrivalID id.ID) (int, error) {
	return r.lines.CountBy(ctx, "arrival_id", arrivalID)
}

func (r *ArrivalRepo) ListLines(ctx context.Context, arrivalIDs ...id.ID) ([]inventory.ArrivalLine, error) {
	rows, err := r.lines.SelectWhere(ctx, squirrel.Eq{"arrival_id": arrivalIDs})
	if err != nil {
		return nil, err
	}
	out := make([]inventory.ArrivalLine, 0, len(rows))
	for _, l := range rows {
		out = append(out, *l)
	}
	return out, nil
}

func (r *ArrivalRepo) CreateLine(ctx context.Context, line *inventory.ArrivalLine) error {
	return r.lines.Create(ctx, line)
}

func (r *ArrivalRepo) GetLineForUpdate(ctx context.Context, lineID id.ID) (*inventory.ArrivalLine, error) {
	return r.lines.GetForUpdate(ctx, lineID)
}

func (r *ArrivalRepo) UpdateLine(ctx context.Context, line *inventory.ArrivalLine) error {
	return r.lines.Update(ctx, line)
}

func (r *ArrivalRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	return r.lines.Delete(ctx, lineID)
}

var _ inventory.ArrivalRepository = (*ArrivalRepo)(nil)
