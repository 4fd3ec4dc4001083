package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teerapatch/beankiosk/backend-go/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	product := strings.TrimSpace(c.DefaultQuery("product", "all"))
	province := strings.TrimSpace(c.DefaultQuery("province", "all"))

	result, err := h.service.GetForecast(c.Request.Context(), product, province)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
