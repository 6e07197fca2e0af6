// internal/engine/aggregator.go
package engine

import (
	"fmt"
	"sort"

	"github.com/estoquelab/estoque-advisor/internal/domain"
)

// Supported orderings for the priority action list. Every ordering is a
// total order (ID breaks remaining ties) so output is reproducible.
const (
	OrderPriority       = "priority"
	OrderCoverage       = "coverage"
	OrderInventoryValue = "inventory_value"
	OrderCurrentStock   = "current_stock"
	OrderPrice          = "price"
	OrderSuggestedQty   = "suggested_qty"
)

// BuildDashboard aggregates a classified snapshot into the dashboard view.
// The input must already have gone through ClassifySnapshot; records with an
// empty status are classified on the fly so a partially labeled snapshot
// still aggregates safely.
func (e *Engine) BuildDashboard(records []domain.StockRecord) domain.DashboardMetrics {
	metrics := domain.DashboardMetrics{
		TotalSKUs:          len(records),
		StatusDistribution: make(map[string]int),
		ABCDistribution:    make(map[string]int),
		TrendDistribution:  make(map[string]int),
	}

	histogram := e.newHistogram()

	for _, rec := range records {
		status := rec.StatusLabel
		if status == "" {
			status = e.ClassifyStatus(rec)
		}
		abc := domain.NormalizeABCClass(rec.ABCClass)

		inventoryValue := rec.CurrentStock * rec.Cost
		metrics.InventoryValue += inventoryValue
		metrics.RevenuePotential += rec.CurrentStock * rec.Price
		metrics.TransitValue += rec.TransitStock * rec.Cost

		metrics.StatusDistribution[status]++
		metrics.ABCDistribution[abc]++
		if rec.Trend != "" {
			metrics.TrendDistribution[rec.Trend]++
		}

		switch status {
		case domain.StatusRupture:
			metrics.RuptureCount++
		case domain.StatusExcess:
			metrics.ExcessCount++
		}

		histogram.add(rec.CoverageDays, inventoryValue)
	}

	metrics.ProjectedProfit = metrics.RevenuePotential - metrics.InventoryValue
	if metrics.RevenuePotential > 0 {
		metrics.AvgMarginPct = metrics.ProjectedProfit / metrics.RevenuePotential * 100
	}
	if metrics.TotalSKUs > 0 {
		metrics.RuptureSharePct = float64(metrics.RuptureCount) / float64(metrics.TotalSKUs) * 100
		metrics.ExcessSharePct = float64(metrics.ExcessCount) / float64(metrics.TotalSKUs) * 100
	}

	metrics.CoverageHistogram = histogram.buckets
	metrics.RuptureMovers = e.ruptureMovers(records)
	metrics.ExcessMovers = e.excessMovers(records)
	metrics.PriorityActions = e.PriorityActions(records, OrderPriority)

	return metrics
}

// ruptureMovers ranks at-risk SKUs by estimated daily revenue lost while the
// shelf is (or is about to be) empty.
func (e *Engine) ruptureMovers(records []domain.StockRecord) []domain.TopMover {
	var movers []domain.TopMover
	for _, rec := range records {
		status := rec.StatusLabel
		if status == "" {
			status = e.ClassifyStatus(rec)
		}
		if !domain.IsCriticalStatus(status) {
			continue
		}

		movers = append(movers, domain.TopMover{
			ID:           rec.ID,
			Description:  rec.Description,
			StatusLabel:  status,
			CoverageDays: rec.CoverageDays,
			Impact:       rec.AvgDailySales * rec.Price,
		})
	}

	return topMovers(movers, e.th.TopMoversLimit)
}

// excessMovers ranks overstocked SKUs by capital tied up on the shelf.
func (e *Engine) excessMovers(records []domain.StockRecord) []domain.TopMover {
	var movers []domain.TopMover
	for _, rec := range records {
		status := rec.StatusLabel
		if status == "" {
			status = e.ClassifyStatus(rec)
		}
		if status != domain.StatusExcess {
			continue
		}

		movers = append(movers, domain.TopMover{
			ID:           rec.ID,
			Description:  rec.Description,
			StatusLabel:  status,
			CoverageDays: rec.CoverageDays,
			Impact:       rec.CurrentStock * rec.Cost,
		})
	}

	return topMovers(movers, e.th.TopMoversLimit)
}

func topMovers(movers []domain.TopMover, limit int) []domain.TopMover {
	sort.SliceStable(movers, func(i, j int) bool {
		if movers[i].Impact != movers[j].Impact {
			return movers[i].Impact > movers[j].Impact
		}
		return movers[i].ID < movers[j].ID
	})

	if len(movers) > limit {
		movers = movers[:limit]
	}

	return movers
}

// PriorityActions builds the purchase action list: every SKU that either
// needs replenishment or sits outside the healthy band, tagged with an
// urgency tier and sorted by the requested ordering.
func (e *Engine) PriorityActions(records []domain.StockRecord, ordering string) []domain.PriorityAction {
	var actions []domain.PriorityAction
	for _, rec := range records {
		status := rec.StatusLabel
		if status == "" {
			status = e.ClassifyStatus(rec)
		}
		abc := domain.NormalizeABCClass(rec.ABCClass)
		suggestion := e.SuggestFromSnapshot(rec)

		if suggestion.SuggestedQty <= 0 && status == domain.StatusHealthy {
			continue
		}

		actions = append(actions, domain.PriorityAction{
			ID:             rec.ID,
			Description:    rec.Description,
			StatusLabel:    status,
			ABCClass:       abc,
			Priority:       priorityTier(status, abc),
			CoverageDays:   rec.CoverageDays,
			CurrentStock:   rec.CurrentStock,
			Price:          rec.Price,
			InventoryValue: rec.CurrentStock * rec.Cost,
			SuggestedQty:   suggestion.SuggestedQty,
			EstimatedCost:  suggestion.EstimatedCost,
			SupplierName:   rec.SupplierName,
		})
	}

	sortActions(actions, ordering)

	return actions
}

// priorityTier derives an urgency tier from availability risk and revenue
// contribution. An out-of-stock curve-C item matters less than a curve-A
// item about to run dry.
func priorityTier(status, abc string) string {
	switch {
	case domain.IsCriticalStatus(status):
		switch abc {
		case domain.ABCClassA:
			return domain.PriorityUrgent
		case domain.ABCClassB:
			return domain.PriorityHigh
		default:
			return domain.PriorityMedium
		}
	case status == domain.StatusAttention:
		switch abc {
		case domain.ABCClassA:
			return domain.PriorityHigh
		case domain.ABCClassB:
			return domain.PriorityMedium
		default:
			return domain.PriorityLow
		}
	default:
		return domain.PriorityLow
	}
}

// sortActions applies one of the supported total orderings. The tier labels
// are prefixed 1..4 so ascending string order is urgency order.
func sortActions(actions []domain.PriorityAction, ordering string) {
	less := func(a, b domain.PriorityAction) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.CoverageDays != b.CoverageDays {
			return a.CoverageDays < b.CoverageDays
		}
		return a.ID < b.ID
	}

	switch ordering {
	case OrderCoverage:
		less = func(a, b domain.PriorityAction) bool {
			if a.CoverageDays != b.CoverageDays {
				return a.CoverageDays < b.CoverageDays
			}
			return a.ID < b.ID
		}
	case OrderInventoryValue:
		less = descendingBy(func(a domain.PriorityAction) float64 { return a.InventoryValue })
	case OrderCurrentStock:
		less = descendingBy(func(a domain.PriorityAction) float64 { return a.CurrentStock })
	case OrderPrice:
		less = descendingBy(func(a domain.PriorityAction) float64 { return a.Price })
	case OrderSuggestedQty:
		less = descendingBy(func(a domain.PriorityAction) float64 { return a.SuggestedQty })
	}

	sort.SliceStable(actions, func(i, j int) bool { return less(actions[i], actions[j]) })
}

func descendingBy(key func(domain.PriorityAction) float64) func(a, b domain.PriorityAction) bool {
	return func(a, b domain.PriorityAction) bool {
		if key(a) != key(b) {
			return key(a) > key(b)
		}
		return a.ID < b.ID
	}
}

type coverageHistogram struct {
	edges   []float64
	buckets []domain.CoverageBucket
}

func (e *Engine) newHistogram() *coverageHistogram {
	edges := e.th.HistogramEdges
	buckets := make([]domain.CoverageBucket, len(edges)+1)

	lower := 0.0
	for i, edge := range edges {
		buckets[i].Label = fmt.Sprintf("%g-%g", lower, edge)
		lower = edge
	}
	buckets[len(edges)].Label = fmt.Sprintf("%g+", lower)

	return &coverageHistogram{edges: edges, buckets: buckets}
}

func (h *coverageHistogram) add(coverageDays, value float64) {
	idx := len(h.edges)
	for i, edge := range h.edges {
		if coverageDays < edge {
			idx = i
			break
		}
	}

	h.buckets[idx].Value += value
	h.buckets[idx].Count++
}
