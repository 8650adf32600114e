package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts/internal/core/id"
	"autoparts/internal/domain/adjustment"
)

func TestObserveAdjustment_CountsClamps(t *testing.T) {
	m := New("test")

	m.ObserveAdjustment(adjustment.StockChange(id.New(), adjustment.SourceArrivalLine, id.New(), adjustment.ActionDelete, 4, -4, 0, true))
	m.ObserveAdjustment(adjustment.StockChange(id.New(), adjustment.SourceSaleItem, id.New(), adjustment.ActionCreate, 4, -1, 3, false))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.adjustmentsTotal.WithLabelValues("product", "arrival_line", "delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.clampedTotal.WithLabelValues("arrival_line")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.clampedTotal.WithLabelValues("sale_item")))
}

func TestObserveRejection(t *testing.T) {
	m := New("test")
	m.ObserveRejection("insufficient_stock")
	m.ObserveRejection("insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejectionsTotal.WithLabelValues("insufficient_stock")))
}

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/products/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}
