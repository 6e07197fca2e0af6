// internal/repository/snapshot_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/estoquelab/estoque-advisor/internal/repository/postgres"
	"github.com/lib/pq"
)

// SnapshotRepository fetches point-in-time stock snapshots for the engine.
// The engine itself never touches the store; everything it consumes comes
// pre-fetched through this interface.
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, filter domain.SnapshotFilter) ([]domain.StockRecord, error)
	GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error)
}

type snapshotRepository struct {
	db *postgres.DB
}

func NewSnapshotRepository(db *postgres.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// rawSnapshotRow mirrors a stock_snapshots row with every numeric column
// cast to text. Upstream feeds write loosely-typed values; coercion to the
// validated StockRecord happens in exactly one place, at this boundary.
type rawSnapshotRow struct {
	SKUID         string `db:"sku_id"`
	Description   string `db:"description"`
	CurrentStock  string `db:"current_stock"`
	TransitStock  string `db:"transit_stock"`
	Cost          string `db:"cost"`
	Price         string `db:"price"`
	CoverageDays  string `db:"coverage_days"`
	AvgDailySales string `db:"avg_daily_sales"`
	UnitsSold60d  string `db:"units_sold_60d"`
	Revenue60d    string `db:"revenue_60d"`
	Profit60d     string `db:"profit_60d"`
	ABCClass      string `db:"abc_class"`
	StatusLabel   string `db:"status_label"`
	SupplierName  string `db:"supplier_name"`
	Trend         string `db:"trend"`
	Priority      string `db:"priority"`
	Alert         string `db:"alert"`
}

const snapshotColumns = `
	sku_id,
	COALESCE(description, '') AS description,
	COALESCE(current_stock::text, '') AS current_stock,
	COALESCE(transit_stock::text, '') AS transit_stock,
	COALESCE(cost::text, '') AS cost,
	COALESCE(price::text, '') AS price,
	COALESCE(coverage_days::text, '') AS coverage_days,
	COALESCE(avg_daily_sales::text, '') AS avg_daily_sales,
	COALESCE(units_sold_60d::text, '') AS units_sold_60d,
	COALESCE(revenue_60d::text, '') AS revenue_60d,
	COALESCE(profit_60d::text, '') AS profit_60d,
	COALESCE(abc_class, '') AS abc_class,
	COALESCE(status_label, '') AS status_label,
	COALESCE(supplier_name, '') AS supplier_name,
	COALESCE(trend, '') AS trend,
	COALESCE(priority, '') AS priority,
	COALESCE(alert, '') AS alert`

func (r *snapshotRepository) GetSnapshot(ctx context.Context, filter domain.SnapshotFilter) ([]domain.StockRecord, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM stock_snapshots
		WHERE 1=1`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.SnapshotDate != "" {
		conditions = append(conditions, fmt.Sprintf("snapshot_date = $%d::date", argCounter))
		args = append(args, filter.SnapshotDate)
		argCounter++
	} else {
		conditions = append(conditions, "snapshot_date = (SELECT MAX(snapshot_date) FROM stock_snapshots)")
	}

	if len(filter.Suppliers) > 0 {
		conditions = append(conditions, fmt.Sprintf("supplier_name = ANY($%d::text[])", argCounter))
		args = append(args, pq.Array(filter.Suppliers))
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY sku_id"

	if err := r.db.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.db.Release()

	var rows []rawSnapshotRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error getting stock snapshot: %w", err)
	}

	return coerceRows(rows), nil
}

func (r *snapshotRepository) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT DISTINCT snapshot_date
		FROM stock_snapshots
		ORDER BY snapshot_date DESC
		LIMIT $1
	`

	if err := r.db.Acquire(ctx); err != nil {
		return nil, err
	}
	defer r.db.Release()

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, limit); err != nil {
		return nil, fmt.Errorf("error getting available dates: %w", err)
	}

	return dates, nil
}

func coerceRows(rows []rawSnapshotRow) []domain.StockRecord {
	records := make([]domain.StockRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.CoerceStockRecord(domain.RawStockRecord{
			ID:            row.SKUID,
			Description:   row.Description,
			CurrentStock:  row.CurrentStock,
			TransitStock:  row.TransitStock,
			Cost:          row.Cost,
			Price:         row.Price,
			CoverageDays:  row.CoverageDays,
			AvgDailySales: row.AvgDailySales,
			UnitsSold60d:  row.UnitsSold60d,
			Revenue60d:    row.Revenue60d,
			Profit60d:     row.Profit60d,
			ABCClass:      row.ABCClass,
			StatusLabel:   row.StatusLabel,
			SupplierName:  row.SupplierName,
			Trend:         row.Trend,
			Priority:      row.Priority,
			Alert:         row.Alert,
		}))
	}

	return records
}
