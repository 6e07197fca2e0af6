// internal/engine/classifier.go
package engine

import (
	"sort"

	"github.com/estoquelab/estoque-advisor/internal/domain"
)

// ClassifyStatus buckets one SKU by availability risk. Zero stock wins over
// any coverage figure: a SKU with stock 0 is RUPTURA even when the snapshot
// carries a stale coverage value.
func (e *Engine) ClassifyStatus(rec domain.StockRecord) string {
	switch {
	case rec.CurrentStock <= 0:
		return domain.StatusRupture
	case rec.CoverageDays < e.th.CriticalCoverDays:
		return domain.StatusCritical
	case rec.CoverageDays < e.th.AttentionCoverDays:
		return domain.StatusAttention
	case rec.CoverageDays < e.th.HealthyCoverDays:
		return domain.StatusHealthy
	default:
		return domain.StatusExcess
	}
}

// ClassifyABC assigns Pareto revenue curves over the whole snapshot: walk
// SKUs in descending 60-day revenue order and hand out A while the running
// share stays within the A cutoff, then B, then C. The sort is stable so
// SKUs with identical revenue keep their input order, which makes the
// assignment deterministic.
//
// The returned slice is a classified copy; the input is never mutated.
func (e *Engine) ClassifyABC(records []domain.StockRecord) []domain.StockRecord {
	out := make([]domain.StockRecord, len(records))
	copy(out, records)

	var totalRevenue float64
	for _, rec := range out {
		if rec.Revenue60d > 0 {
			totalRevenue += rec.Revenue60d
		}
	}

	if totalRevenue <= 0 {
		// No revenue signal at all: everything is curve C.
		for i := range out {
			out[i].ABCClass = domain.ABCClassC
		}
		return out
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return out[order[i]].Revenue60d > out[order[j]].Revenue60d
	})

	// Cutoffs are compared in revenue units, not shares: summing per-SKU
	// shares drifts past the boundary (0.8 + 0.15 accumulates to just
	// above 0.95) and misclassifies SKUs sitting exactly on a cutoff.
	classACutoff := totalRevenue * e.th.ABCClassACutoff
	classBCutoff := totalRevenue * e.th.ABCClassBCutoff

	cumulative := 0.0
	for _, idx := range order {
		rec := &out[idx]
		if rec.Revenue60d <= 0 {
			rec.ABCClass = domain.ABCClassC
			continue
		}

		cumulative += rec.Revenue60d
		switch {
		case cumulative <= classACutoff:
			rec.ABCClass = domain.ABCClassA
		case cumulative <= classBCutoff:
			rec.ABCClass = domain.ABCClassB
		default:
			rec.ABCClass = domain.ABCClassC
		}
	}

	return out
}

// ClassifySnapshot runs both classifiers over a snapshot, filling in status
// and ABC class for every record. Labels already present on a record are
// recomputed; the snapshot is the source of truth for the numbers only.
func (e *Engine) ClassifySnapshot(records []domain.StockRecord) []domain.StockRecord {
	out := e.ClassifyABC(records)
	for i := range out {
		out[i].StatusLabel = e.ClassifyStatus(out[i])
	}

	return out
}
