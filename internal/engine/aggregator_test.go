package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/estoquelab/estoque-advisor/internal/engine"
)

func sampleSnapshot() []domain.StockRecord {
	return []domain.StockRecord{
		{ID: "S1", Description: "Shampoo", CurrentStock: 0, CoverageDays: 0, AvgDailySales: 12, Cost: 8, Price: 15, Revenue60d: 9000, Trend: "rising", SupplierName: "Acme"},
		{ID: "S2", Description: "Condicionador", CurrentStock: 20, CoverageDays: 5, AvgDailySales: 4, Cost: 9, Price: 16, Revenue60d: 3000, Trend: "stable", SupplierName: "Acme"},
		{ID: "S3", Description: "Sabonete", CurrentStock: 300, CoverageDays: 45, AvgDailySales: 6, Cost: 2, Price: 4, Revenue60d: 1200, Trend: "stable", SupplierName: "Beta"},
		{ID: "S4", Description: "Esponja", CurrentStock: 900, CoverageDays: 180, AvgDailySales: 5, Cost: 1, Price: 2, Revenue60d: 500, Trend: "falling", SupplierName: "Beta"},
		{ID: "S5", Description: "Touca", CurrentStock: 40, CoverageDays: 20, AvgDailySales: 2, Cost: 3, Price: 6, Revenue60d: 300, Trend: "new", SupplierName: "Gama"},
	}
}

func TestBuildDashboard_FinancialTotals(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	metrics := eng.BuildDashboard(eng.ClassifySnapshot(sampleSnapshot()))

	// Inventory value: 0*8 + 20*9 + 300*2 + 900*1 + 40*3 = 1800.
	if metrics.InventoryValue != 1800 {
		t.Errorf("inventory value = %v, want 1800", metrics.InventoryValue)
	}
	// Revenue potential: 0 + 320 + 1200 + 1800 + 240 = 3560.
	if metrics.RevenuePotential != 3560 {
		t.Errorf("revenue potential = %v, want 3560", metrics.RevenuePotential)
	}
	if metrics.ProjectedProfit != 1760 {
		t.Errorf("projected profit = %v, want 1760", metrics.ProjectedProfit)
	}
	if metrics.TotalSKUs != 5 {
		t.Errorf("total skus = %d, want 5", metrics.TotalSKUs)
	}
}

func TestBuildDashboard_RiskShares(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	metrics := eng.BuildDashboard(eng.ClassifySnapshot(sampleSnapshot()))

	if metrics.RuptureCount != 1 || metrics.ExcessCount != 1 {
		t.Fatalf("rupture/excess counts = %d/%d, want 1/1", metrics.RuptureCount, metrics.ExcessCount)
	}
	if metrics.RuptureSharePct != 20 {
		t.Errorf("rupture share = %v, want 20", metrics.RuptureSharePct)
	}
	if metrics.ExcessSharePct != 20 {
		t.Errorf("excess share = %v, want 20", metrics.ExcessSharePct)
	}
}

func TestBuildDashboard_EmptySnapshotGuardsDivision(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	metrics := eng.BuildDashboard(nil)

	if metrics.RuptureSharePct != 0 || metrics.ExcessSharePct != 0 || metrics.AvgMarginPct != 0 {
		t.Errorf("expected zero shares on empty snapshot, got %+v", metrics)
	}
}

func TestBuildDashboard_TopMovers(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	metrics := eng.BuildDashboard(eng.ClassifySnapshot(sampleSnapshot()))

	// S1 loses 12*15=180/day, S2 loses 4*16=64/day.
	if len(metrics.RuptureMovers) != 2 {
		t.Fatalf("rupture movers = %d, want 2", len(metrics.RuptureMovers))
	}
	if metrics.RuptureMovers[0].ID != "S1" || metrics.RuptureMovers[0].Impact != 180 {
		t.Errorf("top rupture mover = %s/%v, want S1/180", metrics.RuptureMovers[0].ID, metrics.RuptureMovers[0].Impact)
	}

	if len(metrics.ExcessMovers) != 1 {
		t.Fatalf("excess movers = %d, want 1", len(metrics.ExcessMovers))
	}
	if metrics.ExcessMovers[0].ID != "S4" || metrics.ExcessMovers[0].Impact != 900 {
		t.Errorf("top excess mover = %s/%v, want S4/900", metrics.ExcessMovers[0].ID, metrics.ExcessMovers[0].Impact)
	}
}

func TestBuildDashboard_CoverageHistogram(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	metrics := eng.BuildDashboard(eng.ClassifySnapshot(sampleSnapshot()))

	if len(metrics.CoverageHistogram) != 5 {
		t.Fatalf("histogram buckets = %d, want 5", len(metrics.CoverageHistogram))
	}

	// S1 (cov 0, value 0) and S2 (cov 5, value 180) fall in 0-7.
	first := metrics.CoverageHistogram[0]
	if first.Label != "0-7" || first.Count != 2 || first.Value != 180 {
		t.Errorf("bucket 0-7 = %+v, want count 2 value 180", first)
	}

	// S4 (cov 180, value 900) is the only 60+ item.
	last := metrics.CoverageHistogram[4]
	if last.Label != "60+" || last.Count != 1 || last.Value != 900 {
		t.Errorf("bucket 60+ = %+v, want count 1 value 900", last)
	}
}

func TestBuildDashboard_Idempotent(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	classified := eng.ClassifySnapshot(sampleSnapshot())

	first, err := json.Marshal(eng.BuildDashboard(classified))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(eng.BuildDashboard(classified))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("dashboard output differs across identical snapshots")
	}
}

func TestPriorityActions_TiersAndDefaultOrdering(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	classified := eng.ClassifySnapshot(sampleSnapshot())

	actions := eng.PriorityActions(classified, engine.OrderPriority)
	if len(actions) == 0 {
		t.Fatal("expected actions")
	}

	byID := map[string]domain.PriorityAction{}
	for _, a := range actions {
		byID[a.ID] = a
	}

	// S1 is RUPTURA curve A -> most urgent tier; it must sort first.
	if byID["S1"].Priority != domain.PriorityUrgent {
		t.Errorf("S1 priority = %s, want %s", byID["S1"].Priority, domain.PriorityUrgent)
	}
	if actions[0].ID != "S1" {
		t.Errorf("first action = %s, want S1", actions[0].ID)
	}

	// Tiers never degrade as we walk the default ordering.
	for i := 1; i < len(actions); i++ {
		if actions[i].Priority < actions[i-1].Priority {
			t.Fatalf("priority ordering violated at index %d: %s after %s",
				i, actions[i].Priority, actions[i-1].Priority)
		}
	}

	// Suggested quantities are never negative on any path.
	for _, a := range actions {
		if a.SuggestedQty < 0 {
			t.Errorf("%s suggested qty = %v, negative", a.ID, a.SuggestedQty)
		}
	}
}

func TestPriorityActions_AlternateOrderings(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())
	classified := eng.ClassifySnapshot(sampleSnapshot())

	coverage := eng.PriorityActions(classified, engine.OrderCoverage)
	for i := 1; i < len(coverage); i++ {
		if coverage[i].CoverageDays < coverage[i-1].CoverageDays {
			t.Fatal("coverage ordering not ascending")
		}
	}

	value := eng.PriorityActions(classified, engine.OrderInventoryValue)
	for i := 1; i < len(value); i++ {
		if value[i].InventoryValue > value[i-1].InventoryValue {
			t.Fatal("inventory value ordering not descending")
		}
	}

	qty := eng.PriorityActions(classified, engine.OrderSuggestedQty)
	for i := 1; i < len(qty); i++ {
		if qty[i].SuggestedQty > qty[i-1].SuggestedQty {
			t.Fatal("suggested qty ordering not descending")
		}
	}
}

func TestPriorityActions_SkipsHealthyWithoutSuggestion(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())

	// Healthy coverage and stock above the 60-day target: nothing to do.
	records := eng.ClassifySnapshot([]domain.StockRecord{
		{ID: "OK", CurrentStock: 400, CoverageDays: 45, AvgDailySales: 5, Cost: 2, Revenue60d: 100},
	})

	actions := eng.PriorityActions(records, engine.OrderPriority)
	for _, a := range actions {
		if a.ID == "OK" {
			t.Error("healthy SKU with zero suggestion should not appear in action list")
		}
	}
}
