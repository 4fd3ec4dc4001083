package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teerapatch/beankiosk/backend-go/internal/domain"
	"github.com/teerapatch/beankiosk/backend-go/internal/service"
)

const dateLayout = "2006-01-02"

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// parseDateRange reads the optional from/to query params. Absent params mean
// all time; a lone "from" means a single day.
func parseDateRange(c *gin.Context) (*domain.DateRange, bool) {
	fromRaw := strings.TrimSpace(c.Query("from"))
	toRaw := strings.TrimSpace(c.Query("to"))

	if fromRaw == "" && toRaw == "" {
		return nil, true
	}
	if fromRaw == "" {
		fromRaw = toRaw
	}

	from, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		return nil, false
	}

	to := from
	if toRaw != "" {
		to, err = time.Parse(dateLayout, toRaw)
		if err != nil {
			return nil, false
		}
	}

	if to.Before(from) {
		return nil, false
	}

	return domain.NewDateRange(from, to), true
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	dateRange, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range, expected from/to as YYYY-MM-DD"})
		return
	}

	snapshot, err := h.service.GetSnapshot(c.Request.Context(), dateRange)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *AnalyticsHandler) CompareSummary(c *gin.Context) {
	dateRange, ok := parseDateRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date range, expected from/to as YYYY-MM-DD"})
		return
	}

	result, err := h.service.Compare(c.Request.Context(), dateRange)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compare periods", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandler) GetProvinces(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"provinces": h.service.Provinces(c.Request.Context())})
}
