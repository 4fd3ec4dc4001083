package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatch/beankiosk/backend-go/internal/cache"
	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/kvstore"
	"github.com/teerapatch/beankiosk/backend-go/internal/service"
)

type stubOrderRepo struct {
	events []domain.OrderEvent
}

func (r *stubOrderRepo) FetchEvents(ctx context.Context, dateRange *domain.DateRange) ([]domain.OrderEvent, error) {
	return r.events, nil
}

func (r *stubOrderRepo) InsertEvent(ctx context.Context, payload domain.OrderEvent, eventDate *time.Time) error {
	r.events = append(r.events, payload)
	return nil
}

type stubHolidayRepo struct{}

func (r *stubHolidayRepo) GetHolidays(ctx context.Context, country string, years []int) (domain.HolidayMap, error) {
	return domain.HolidayMap{}, nil
}

func (r *stubHolidayRepo) UpsertHoliday(ctx context.Context, country, date, name string) error {
	return nil
}

func newTestRouter(events []domain.OrderEvent, kioskStore kvstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)

	orders := &stubOrderRepo{events: events}
	analyticsService := service.NewAnalyticsService(orders, cache.NewNoopSnapshotCache())
	forecastService := service.NewForecastService(orders, &stubHolidayRepo{}, cache.NewNoopForecastCache())

	return NewRouter(&Services{
		AnalyticsService: analyticsService,
		ForecastService:  forecastService,
		KioskStore:       kioskStore,
	}, nil)
}

func orderAt(instant string, price string) domain.OrderEvent {
	return domain.OrderEvent{
		"Timestamp":      instant,
		"Price":          price,
		"ApproxLocation": "Bangkok",
		"CommonNameTH":   "ลาเต้",
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	events := []domain.OrderEvent{
		orderAt("2025-06-10T03:30:00.000Z", "120"),
		orderAt("2025-06-10T05:00:00.000Z", "80"),
		orderAt("2025-06-11T02:15:00.000Z", "65"),
	}
	router := newTestRouter(events, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?from=2025-06-10&to=2025-06-11", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, 3, snapshot.TotalOrders)
	assert.InDelta(t, 265.0, snapshot.TotalSales, 0.001)
	require.Len(t, snapshot.ByProvince, 1)
	assert.Equal(t, domain.ValueCount{Value: "Bangkok", Count: 3}, snapshot.ByProvince[0])
	require.Len(t, snapshot.TopProducts, 1)
	assert.Equal(t, domain.ProductCount{Name: "ลาเต้", Count: 3}, snapshot.TopProducts[0])
}

func TestSummaryEndpointBadRange(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?from=not-a-date", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareEndpoint(t *testing.T) {
	events := []domain.OrderEvent{
		orderAt("2025-06-08T03:00:00.000Z", "100"),
		orderAt("2025-06-10T03:30:00.000Z", "120"),
		orderAt("2025-06-11T02:15:00.000Z", "120"),
	}
	router := newTestRouter(events, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary/compare?from=2025-06-10&to=2025-06-11", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result service.ComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotNil(t, result.Current)
	require.NotNil(t, result.Previous)
	assert.Equal(t, 2, result.Current.TotalOrders)
	assert.Equal(t, 1, result.Previous.TotalOrders)
	require.NotNil(t, result.Deltas.Orders.DeltaPct)
	assert.InDelta(t, 100.0, *result.Deltas.Orders.DeltaPct, 0.001)
}

func TestProvincesEndpoint(t *testing.T) {
	router := newTestRouter(nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/provinces", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Provinces []string `json:"provinces"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Provinces, 77)
	assert.Contains(t, body.Provinces, "Bangkok")
}

func TestForecastEndpoint(t *testing.T) {
	// History relative to the clock so the trailing baseline window sees it.
	var events []domain.OrderEvent
	for daysAgo := 1; daysAgo <= 14; daysAgo++ {
		instant := time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02") + "T03:30:00.000Z"
		events = append(events, orderAt(instant, "90"))
	}
	router := newTestRouter(events, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/forecast", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.ForecastResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Days, 7)
}

func TestKioskGateBlocksFlaggedKiosk(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "kiosk:blocked:K-042", "fraud review", 0))
	router := newTestRouter(nil, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	req.Header.Set("X-Kiosk-ID", "K-042")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	req.Header.Set("X-Kiosk-ID", "K-001")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
