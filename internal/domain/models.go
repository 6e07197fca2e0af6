// internal/domain/models.go
package domain

import "time"

// CoverageInfinite is the coverage sentinel assigned at the coercion
// boundary when daily sales are zero and the stock on hand would last
// forever at the current pace. It sorts above every real coverage figure,
// so such SKUs classify as excess.
const CoverageInfinite = 9999.0

// StockRecord is one SKU row of a point-in-time stock/sales snapshot.
type StockRecord struct {
	ID            string  `json:"id" db:"sku_id"`
	Description   string  `json:"description" db:"description"`
	CurrentStock  float64 `json:"current_stock" db:"current_stock"`
	TransitStock  float64 `json:"transit_stock" db:"transit_stock"`
	Cost          float64 `json:"cost" db:"cost"`
	Price         float64 `json:"price" db:"price"`
	CoverageDays  float64 `json:"coverage_days" db:"coverage_days"`
	AvgDailySales float64 `json:"avg_daily_sales" db:"avg_daily_sales"`
	UnitsSold60d  float64 `json:"units_sold_60d" db:"units_sold_60d"`
	Revenue60d    float64 `json:"revenue_60d" db:"revenue_60d"`
	Profit60d     float64 `json:"profit_60d" db:"profit_60d"`
	ABCClass      string  `json:"abc_class" db:"abc_class"`
	StatusLabel   string  `json:"status_label" db:"status_label"`
	SupplierName  string  `json:"supplier_name" db:"supplier_name"`
	Trend         string  `json:"trend" db:"trend"`
	Priority      string  `json:"priority" db:"priority"`
	Alert         string  `json:"alert" db:"alert"`
}

// ReplenishmentResult holds the derived purchase math for a single SKU.
// It is ephemeral and recomputed on demand, never persisted.
type ReplenishmentResult struct {
	DailyDemand    float64 `json:"daily_demand"`
	LeadTimeDemand float64 `json:"lead_time_demand"`
	SafetyStock    float64 `json:"safety_stock"`
	ReorderPoint   float64 `json:"reorder_point"`
	TargetStock    float64 `json:"target_stock"`
	SuggestedQty   float64 `json:"suggested_qty"`
	EstimatedCost  float64 `json:"estimated_cost"`
}

// CoverageBucket is one bar of the coverage histogram: total inventory value
// (at cost) sitting in a coverage-days range.
type CoverageBucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// TopMover is a SKU ranked either by daily revenue at risk (rupture side) or
// by capital tied up (excess side).
type TopMover struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	StatusLabel  string  `json:"status_label"`
	CoverageDays float64 `json:"coverage_days"`
	Impact       float64 `json:"impact"`
}

// PriorityAction is one row of the prioritized purchase action list.
type PriorityAction struct {
	ID             string  `json:"id"`
	Description    string  `json:"description"`
	StatusLabel    string  `json:"status_label"`
	ABCClass       string  `json:"abc_class"`
	Priority       string  `json:"priority"`
	CoverageDays   float64 `json:"coverage_days"`
	CurrentStock   float64 `json:"current_stock"`
	Price          float64 `json:"price"`
	InventoryValue float64 `json:"inventory_value"`
	SuggestedQty   float64 `json:"suggested_qty"`
	EstimatedCost  float64 `json:"estimated_cost"`
	SupplierName   string  `json:"supplier_name"`
}

// DashboardMetrics is the snapshot-wide aggregate consumed by the dashboard.
// It is recomputed fully on every snapshot load and never patched in place.
type DashboardMetrics struct {
	TotalSKUs          int                `json:"total_skus"`
	InventoryValue     float64            `json:"inventory_value"`
	RevenuePotential   float64            `json:"revenue_potential"`
	ProjectedProfit    float64            `json:"projected_profit"`
	AvgMarginPct       float64            `json:"avg_margin_pct"`
	TransitValue       float64            `json:"transit_value"`
	RuptureCount       int                `json:"rupture_count"`
	ExcessCount        int                `json:"excess_count"`
	RuptureSharePct    float64            `json:"rupture_share_pct"`
	ExcessSharePct     float64            `json:"excess_share_pct"`
	StatusDistribution map[string]int     `json:"status_distribution"`
	ABCDistribution    map[string]int     `json:"abc_distribution"`
	TrendDistribution  map[string]int     `json:"trend_distribution"`
	CoverageHistogram  []CoverageBucket   `json:"coverage_histogram"`
	RuptureMovers      []TopMover         `json:"rupture_movers"`
	ExcessMovers       []TopMover         `json:"excess_movers"`
	PriorityActions    []PriorityAction   `json:"priority_actions"`
	SeasonalityHint    string             `json:"seasonality_hint,omitempty"`
}

// MixCurveStats describes one ABC curve inside a campaign selection.
type MixCurveStats struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MixValidation is the verdict over a campaign mix selection.
type MixValidation struct {
	CanProceed   bool                     `json:"can_proceed"`
	Status       string                   `json:"status"`
	Reason       string                   `json:"reason,omitempty"`
	Message      string                   `json:"message"`
	Suggestions  []string                 `json:"suggestions,omitempty"`
	Curves       map[string]MixCurveStats `json:"curves"`
	RiskProducts []StockRecord            `json:"risk_products,omitempty"`
}

// SeasonalityEvent is a commercially relevant calendar date near the
// reference date. DaysUntil is negative for recently passed events.
type SeasonalityEvent struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	DaysUntil   int       `json:"days_until"`
	Description string    `json:"description"`
}

// SnapshotFilter narrows which snapshot rows are fetched from the store and
// how item listings are ordered and paginated.
type SnapshotFilter struct {
	SnapshotDate string   `json:"snapshot_date"`
	Suppliers    []string `json:"suppliers"`
	Statuses     []string `json:"statuses"`
	ABCClasses   []string `json:"abc_classes"`
	Ordering     string   `json:"ordering"`
	Page         int      `json:"page"`
	PageSize     int      `json:"page_size"`
}
