package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/estoquelab/estoque-advisor/internal/engine"
	"github.com/estoquelab/estoque-advisor/internal/service"
	"github.com/gin-gonic/gin"
)

type AdvisoryHandler struct {
	service *service.AdvisoryService
}

func NewAdvisoryHandler(service *service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{service: service}
}

func (h *AdvisoryHandler) parseFilter(c *gin.Context) domain.SnapshotFilter {
	filter := domain.SnapshotFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	if date := strings.TrimSpace(c.Query("snapshot_date")); date != "" {
		filter.SnapshotDate = date
	}

	if ordering := strings.TrimSpace(c.Query("ordering")); ordering != "" {
		filter.Ordering = strings.ToLower(ordering)
	}

	parseList := func(param string) []string {
		// Support both repeated params and comma-separated values:
		//   ?statuses=RUPTURA&statuses=EXCESSO
		//   ?statuses=RUPTURA,EXCESSO
		raw := c.QueryArray(param)
		if len(raw) == 0 {
			if single := strings.TrimSpace(c.Query(param)); single != "" {
				raw = strings.Split(single, ",")
			}
		}

		var values []string
		seen := make(map[string]struct{})
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if _, ok := seen[part]; ok {
					continue
				}
				seen[part] = struct{}{}
				values = append(values, part)
			}
		}
		return values
	}

	filter.Suppliers = parseList("suppliers")
	filter.Statuses = parseList("statuses")
	filter.ABCClasses = parseList("abc_classes")

	return filter
}

func (h *AdvisoryHandler) GetDashboard(c *gin.Context) {
	filter := h.parseFilter(c)
	metrics, err := h.service.GetDashboard(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *AdvisoryHandler) GetItems(c *gin.Context) {
	filter := h.parseFilter(c)
	items, total, err := h.service.GetItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

func (h *AdvisoryHandler) GetPriorityActions(c *gin.Context) {
	filter := h.parseFilter(c)
	actions, err := h.service.GetPriorityActions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build action list", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

func (h *AdvisoryHandler) GetAvailableDates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit <= 0 {
		limit = 30
	}

	dates, err := h.service.GetAvailableDates(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch available dates", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// Simulate runs the explainable what-if replenishment calculator. Numeric
// fields accept both JSON numbers and string-encoded numbers, the same
// tolerance the snapshot boundary applies.
func (h *AdvisoryHandler) Simulate(c *gin.Context) {
	var body struct {
		TotalUnitsSold   domain.FlexFloat `json:"total_units_sold"`
		PeriodDays       domain.FlexFloat `json:"period_days"`
		LeadTimeDays     domain.FlexFloat `json:"lead_time_days"`
		SafetyMarginDays domain.FlexFloat `json:"safety_margin_days"`
		CurrentStock     domain.FlexFloat `json:"current_stock"`
		UnitCost         domain.FlexFloat `json:"unit_cost"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result := h.service.Simulate(engine.SimulationInput{
		TotalUnitsSold:   float64(body.TotalUnitsSold),
		PeriodDays:       float64(body.PeriodDays),
		LeadTimeDays:     float64(body.LeadTimeDays),
		SafetyMarginDays: float64(body.SafetyMarginDays),
		CurrentStock:     float64(body.CurrentStock),
		UnitCost:         float64(body.UnitCost),
	})

	c.JSON(http.StatusOK, result)
}

func (h *AdvisoryHandler) ValidateMix(c *gin.Context) {
	var body struct {
		SnapshotDate string   `json:"snapshot_date"`
		SKUIDs       []string `json:"sku_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	validation, err := h.service.ValidateMix(c.Request.Context(), body.SnapshotDate, body.SKUIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate mix", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, validation)
}

func (h *AdvisoryHandler) GetSeasonalEvents(c *gin.Context) {
	var ref time.Time
	if raw := strings.TrimSpace(c.Query("reference_date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reference_date, expected YYYY-MM-DD"})
			return
		}
		ref = parsed
	}

	events := h.service.SeasonalEvents(ref)
	c.JSON(http.StatusOK, gin.H{"events": events})
}
