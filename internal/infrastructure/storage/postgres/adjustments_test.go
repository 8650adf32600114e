package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/id"
	"autoparts/internal/domain/adjustment"
)

func TestDetailsCodec_SmallStaysPlain(t *testing.T) {
	codec, err := newDetailsCodec(1024)
	require.NoError(t, err)

	plain, compressed, algo, err := codec.encode(map[string]any{"identity": "OIL FILTER"})
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, algo)
	assert.Nil(t, compressed)
	assert.JSONEq(t, `{"identity":"OIL FILTER"}`, string(plain))

	got, err := codec.decode(plain, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, "OIL FILTER", got["identity"])
}

func TestDetailsCodec_LargeIsCompressed(t *testing.T) {
	codec, err := newDetailsCodec(64)
	require.NoError(t, err)

	details := map[string]any{"note": strings.Repeat("brake pad ", 100)}
	plain, compressed, algo, err := codec.encode(details)
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, plain)
	assert.Less(t, len(compressed), 1000)

	got, err := codec.decode(plain, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, details, got)
}

func TestDetailsCodec_Empty(t *testing.T) {
	codec, err := newDetailsCodec(64)
	require.NoError(t, err)

	plain, compressed, algo, err := codec.encode(nil)
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, algo)

	got, err := codec.decode(plain, compressed, algo)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListAdjustmentsQuery(t *testing.T) {
	productID := id.New()
	sql, args, err := listAdjustmentsQuery(adjustment.Filter{
		Aggregate:   adjustment.AggregateProduct,
		AggregateID: &productID,
		ClampedOnly: true,
		Limit:       10,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM sys_adjustments WHERE aggregate = $1 AND aggregate_id = $2 AND clamped = $3")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC LIMIT 10")
	assert.Equal(t, []any{adjustment.AggregateProduct, productID.String(), true}, args)
}
