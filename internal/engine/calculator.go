// internal/engine/calculator.go
package engine

import (
	"math"

	"github.com/estoquelab/estoque-advisor/internal/domain"
)

// SimulationInput is the manual what-if request: the buyer supplies the
// observed sales and supply parameters and gets the full reorder math back.
type SimulationInput struct {
	TotalUnitsSold   float64 `json:"total_units_sold"`
	PeriodDays       float64 `json:"period_days"`
	LeadTimeDays     float64 `json:"lead_time_days"`
	SafetyMarginDays float64 `json:"safety_margin_days"`
	CurrentStock     float64 `json:"current_stock"`
	UnitCost         float64 `json:"unit_cost"`
}

// Simulate computes the explainable reorder chain:
//
//	dailyDemand -> leadTimeDemand -> safetyStock -> reorderPoint
//	            -> targetStock (ROP x multiplier) -> suggestedQty -> cost
//
// A zero or negative period short-circuits dailyDemand to 0, which cascades
// zeros through the chain instead of NaN.
func (e *Engine) Simulate(in SimulationInput) domain.ReplenishmentResult {
	var result domain.ReplenishmentResult

	if in.PeriodDays > 0 {
		result.DailyDemand = in.TotalUnitsSold / in.PeriodDays
	}

	result.LeadTimeDemand = result.DailyDemand * in.LeadTimeDays
	result.SafetyStock = result.DailyDemand * in.SafetyMarginDays
	result.ReorderPoint = result.LeadTimeDemand + result.SafetyStock
	result.TargetStock = result.ReorderPoint * e.th.TargetStockMultiplier
	result.SuggestedQty = math.Max(0, result.TargetStock-in.CurrentStock)
	result.EstimatedCost = result.SuggestedQty * in.UnitCost

	return result
}

// SuggestFromSnapshot is the automated suggestion path: instead of the
// what-if reorder-point chain it targets a fixed coverage window, netting
// out stock on hand and stock already in transit. Shares the floor-at-zero,
// multiply-by-cost contract with Simulate.
func (e *Engine) SuggestFromSnapshot(rec domain.StockRecord) domain.ReplenishmentResult {
	result := domain.ReplenishmentResult{
		DailyDemand: rec.AvgDailySales,
	}

	result.TargetStock = rec.AvgDailySales * e.th.TargetCoverDays
	result.SuggestedQty = math.Max(0, result.TargetStock-rec.CurrentStock-rec.TransitStock)
	result.EstimatedCost = result.SuggestedQty * rec.Cost

	return result
}
