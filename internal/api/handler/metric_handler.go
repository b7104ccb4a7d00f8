package handler

import (
	"Beacon/internal/pkg/response"
	"Beacon/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MetricHandler struct {
	metricService service.MetricService
}

func NewMetricHandler(metricService service.MetricService) *MetricHandler {
	return &MetricHandler{metricService: metricService}
}

func (h *MetricHandler) GetSummary(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	summary, err := h.metricService.GetSummary(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

func (h *MetricHandler) GetTimeseries(c *gin.Context) {
	metric := c.DefaultQuery("metric", "impressions")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	series, err := h.metricService.GetTimeseries(c.Request.Context(), metric, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, series)
}

func (h *MetricHandler) GetFollowerTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	trend, err := h.metricService.GetFollowerTrend(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trend)
}

func (h *MetricHandler) GetDemographics(c *gin.Context) {
	category := c.Query("category")

	rows, err := h.metricService.GetDemographics(c.Request.Context(), category)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
