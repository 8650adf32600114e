package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"autoparts/internal/domain/adjustment"
)

const adjustmentsTable = "sys_adjustments"

// CompressionAlgo specifies the compression algorithm used for details.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// detailsCodec serialises event details, compressing large payloads.
type detailsCodec struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int // bytes
}

func newDetailsCodec(threshold int) (*detailsCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &detailsCodec{encoder: encoder, decoder: decoder, threshold: threshold}, nil
}

// encode returns either plain JSON or a compressed blob, never both.
func (c *detailsCodec) encode(details map[string]any) (plain json.RawMessage, compressed []byte, algo CompressionAlgo, err error) {
	if len(details) == 0 {
		return nil, nil, CompressionNone, nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, nil, "", fmt.Errorf("marshal details: %w", err)
	}
	if c.threshold > 0 && len(raw) > c.threshold {
		return nil, c.encoder.EncodeAll(raw, nil), CompressionZstd, nil
	}
	return raw, nil, CompressionNone, nil
}

func (c *detailsCodec) decode(plain json.RawMessage, compressed []byte, algo CompressionAlgo) (map[string]any, error) {
	raw := []byte(plain)
	if algo == CompressionZstd && len(compressed) > 0 {
		var err error
		if raw, err = c.decoder.DecodeAll(compressed, nil); err != nil {
			return nil, fmt.Errorf("decompress details: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var details map[string]any
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("unmarshal details: %w", err)
	}
	return details, nil
}

// AdjustmentStore implements adjustment.Store on the sys_adjustments table.
type AdjustmentStore struct {
	txManager *TxManager
	codec     *detailsCodec
}

// NewAdjustmentStore creates the store. Details larger than compressThreshold
// bytes are stored zstd-compressed.
func NewAdjustmentStore(txManager *TxManager, compressThreshold int) (*AdjustmentStore, error) {
	codec, err := newDetailsCodec(compressThreshold)
	if err != nil {
		return nil, err
	}
	return &AdjustmentStore{txManager: txManager, codec: codec}, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Append inserts events in one statement.
func (s *AdjustmentStore) Append(ctx context.Context, events []adjustment.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := builder().
		Insert(adjustmentsTable).
		Columns(
			"id", "aggregate", "aggregate_id", "source", "source_id", "action",
			"before_value", "delta", "after_value", "clamped", "user_id",
			"details", "details_compressed", "compression_algo", "created_at",
		)
	for _, e := range events {
		plain, compressed, algo, err := s.codec.encode(e.Details)
		if err != nil {
			return err
		}
		q = q.Values(
			e.ID, e.Aggregate, e.AggregateID, e.Source, e.SourceID, e.Action,
			e.Before, e.Delta, e.After, e.Clamped, e.UserID,
			plain, compressed, algo, e.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert adjustments: %w", err)
	}
	return nil
}

type adjustmentRow struct {
	adjustment.Event
	DetailsJSON       json.RawMessage `db:"details"`
	DetailsCompressed []byte          `db:"details_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
}

// List returns matching events, newest first.
func (s *AdjustmentStore) List(ctx context.Context, filter adjustment.Filter) ([]adjustment.Event, error) {
	q := listAdjustmentsQuery(filter)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []adjustmentRow
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	out := make([]adjustment.Event, 0, len(rows))
	for _, r := range rows {
		e := r.Event
		if e.Details, err = s.codec.decode(r.DetailsJSON, r.DetailsCompressed, r.CompressionAlgo); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func listAdjustmentsQuery(filter adjustment.Filter) squirrel.SelectBuilder {
	q := builder().
		Select(
			"id", "aggregate", "aggregate_id", "source", "source_id", "action",
			"before_value", "delta", "after_value", "clamped", "user_id",
			"details", "details_compressed", "compression_algo", "created_at",
		).
		From(adjustmentsTable).
		OrderBy("created_at DESC", "id DESC")

	if filter.Aggregate != "" {
		q = q.Where(squirrel.Eq{"aggregate": filter.Aggregate})
	}
	if filter.AggregateID != nil {
		q = q.Where(squirrel.Eq{"aggregate_id": *filter.AggregateID})
	}
	if filter.ClampedOnly {
		q = q.Where(squirrel.Eq{"clamped": true})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	return q
}
