// internal/snapshot/loader.go
package snapshot

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/rs/zerolog/log"
)

// Loader ingests daily snapshot CSV exports into the stock_snapshots table.
// Rows go through the same coercion step as the API boundary, so malformed
// numerics load as zeros instead of aborting the whole file.
type Loader struct {
	db *sql.DB
}

func NewLoader(db *sql.DB) *Loader {
	return &Loader{db: db}
}

// Expected CSV header names, matched case-insensitively.
var columnAliases = map[string][]string{
	"id":              {"sku", "sku_id", "id"},
	"description":     {"description", "product_name", "descricao"},
	"current_stock":   {"current_stock", "stock", "estoque"},
	"transit_stock":   {"transit_stock", "in_transit", "transito"},
	"cost":            {"cost", "unit_cost", "custo"},
	"price":           {"price", "unit_price", "preco"},
	"coverage_days":   {"coverage_days", "cobertura"},
	"avg_daily_sales": {"avg_daily_sales", "daily_sales", "venda_diaria"},
	"units_sold_60d":  {"units_sold_60d", "units_60d"},
	"revenue_60d":     {"revenue_60d", "faturamento_60d"},
	"profit_60d":      {"profit_60d", "lucro_60d"},
	"abc_class":       {"abc_class", "curva"},
	"status_label":    {"status_label", "status"},
	"supplier_name":   {"supplier_name", "supplier", "fornecedor"},
	"trend":           {"trend", "tendencia"},
	"priority":        {"priority", "prioridade"},
	"alert":           {"alert", "alerta"},
}

// ParseFile reads a snapshot CSV into coerced stock records.
func (l *Loader) ParseFile(filePath string) ([]domain.StockRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := buildColumnMap(header)
	if _, ok := colMap["id"]; !ok {
		return nil, fmt.Errorf("snapshot file %s has no SKU column", filePath)
	}

	field := func(record []string, name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var records []domain.StockRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn().Err(err).Int("line", line).Str("file", filePath).Msg("skipping malformed csv row")
			continue
		}

		rec := domain.CoerceStockRecord(domain.RawStockRecord{
			ID:            field(record, "id"),
			Description:   field(record, "description"),
			CurrentStock:  field(record, "current_stock"),
			TransitStock:  field(record, "transit_stock"),
			Cost:          field(record, "cost"),
			Price:         field(record, "price"),
			CoverageDays:  field(record, "coverage_days"),
			AvgDailySales: field(record, "avg_daily_sales"),
			UnitsSold60d:  field(record, "units_sold_60d"),
			Revenue60d:    field(record, "revenue_60d"),
			Profit60d:     field(record, "profit_60d"),
			ABCClass:      field(record, "abc_class"),
			StatusLabel:   field(record, "status_label"),
			SupplierName:  field(record, "supplier_name"),
			Trend:         field(record, "trend"),
			Priority:      field(record, "priority"),
			Alert:         field(record, "alert"),
		})
		if rec.ID == "" {
			log.Warn().Int("line", line).Str("file", filePath).Msg("skipping row without SKU id")
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

// LoadFile parses a snapshot CSV and upserts it under the snapshot date
// encoded in the filename (YYYYMMDD.csv).
func (l *Loader) LoadFile(ctx context.Context, filePath string) (int, error) {
	snapshotDate, err := dateFromFilename(filePath)
	if err != nil {
		return 0, err
	}

	records, err := l.ParseFile(filePath)
	if err != nil {
		return 0, err
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM stock_snapshots WHERE snapshot_date = $1", snapshotDate); err != nil {
		return 0, fmt.Errorf("failed to clear existing snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stock_snapshots (
			snapshot_date, sku_id, description, current_stock, transit_stock,
			cost, price, coverage_days, avg_daily_sales, units_sold_60d,
			revenue_60d, profit_60d, abc_class, status_label, supplier_name,
			trend, priority, alert
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			snapshotDate, rec.ID, rec.Description, rec.CurrentStock, rec.TransitStock,
			rec.Cost, rec.Price, rec.CoverageDays, rec.AvgDailySales, rec.UnitsSold60d,
			rec.Revenue60d, rec.Profit60d, rec.ABCClass, rec.StatusLabel, rec.SupplierName,
			rec.Trend, rec.Priority, rec.Alert,
		); err != nil {
			return 0, fmt.Errorf("failed to insert snapshot row %s: %w", rec.ID, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot load: %w", err)
	}

	log.Info().Int("rows", inserted).Str("file", filePath).Time("snapshot_date", snapshotDate).
		Msg("snapshot loaded")

	return inserted, nil
}

func buildColumnMap(header []string) map[string]int {
	normalized := make(map[string]int, len(header))
	for i, name := range header {
		normalized[strings.ToLower(strings.TrimSpace(name))] = i
	}

	colMap := make(map[string]int)
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := normalized[alias]; ok {
				colMap[canonical] = idx
				break
			}
		}
	}

	return colMap
}

func dateFromFilename(filePath string) (time.Time, error) {
	base := filepath.Base(filePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if len(name) < 8 {
		return time.Time{}, fmt.Errorf("invalid snapshot filename %s, expected YYYYMMDD.csv", base)
	}

	snapshotDate, err := time.Parse("20060102", name[:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date in filename %s: %w", base, err)
	}

	return snapshotDate, nil
}
