package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/estoquelab/estoque-advisor/internal/engine"
)

type stubRepo struct {
	records []domain.StockRecord
	dates   []time.Time
	err     error

	lastFilter domain.SnapshotFilter
}

func (s *stubRepo) GetSnapshot(ctx context.Context, filter domain.SnapshotFilter) ([]domain.StockRecord, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubRepo) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	return s.dates, s.err
}

type spyCache struct {
	stored  *domain.DashboardMetrics
	getErr  error
	setErr  error
	getHits int
}

func (c *spyCache) Get(ctx context.Context, filter domain.SnapshotFilter) (*domain.DashboardMetrics, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.stored != nil {
		c.getHits++
		return c.stored, true, nil
	}
	return nil, false, nil
}

func (c *spyCache) Set(ctx context.Context, filter domain.SnapshotFilter, metrics *domain.DashboardMetrics) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.stored = metrics
	return nil
}

func (c *spyCache) InvalidateAll(ctx context.Context) error { return nil }

func testRecords() []domain.StockRecord {
	return []domain.StockRecord{
		{ID: "S1", CurrentStock: 0, CoverageDays: 0, AvgDailySales: 12, Price: 15, Cost: 8, Revenue60d: 9000},
		{ID: "S2", CurrentStock: 20, CoverageDays: 5, AvgDailySales: 4, Price: 16, Cost: 9, Revenue60d: 3000},
		{ID: "S3", CurrentStock: 300, CoverageDays: 45, AvgDailySales: 6, Price: 4, Cost: 2, Revenue60d: 1200},
		{ID: "S4", CurrentStock: 900, CoverageDays: 180, AvgDailySales: 5, Price: 2, Cost: 1, Revenue60d: 500},
	}
}

func newTestService(repo *stubRepo, c *spyCache) *AdvisoryService {
	svc := NewAdvisoryService(engine.New(engine.DefaultThresholds()), repo, c)
	svc.now = func() time.Time {
		return time.Date(2025, time.November, 25, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestGetDashboard_BuildsAndCaches(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	c := &spyCache{}
	svc := newTestService(repo, c)

	metrics, err := svc.GetDashboard(context.Background(), domain.SnapshotFilter{})
	if err != nil {
		t.Fatal(err)
	}

	if metrics.TotalSKUs != 4 {
		t.Errorf("total skus = %d, want 4", metrics.TotalSKUs)
	}
	if metrics.SeasonalityHint == "" {
		t.Error("expected a seasonality hint three days before Black Friday")
	}
	if c.stored == nil {
		t.Fatal("dashboard was not written to the cache")
	}

	// Second call is served from the cache.
	again, err := svc.GetDashboard(context.Background(), domain.SnapshotFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if c.getHits != 1 {
		t.Errorf("cache hits = %d, want 1", c.getHits)
	}
	if again.TotalSKUs != metrics.TotalSKUs {
		t.Error("cached dashboard differs from built one")
	}
}

func TestGetDashboard_CacheFailureFallsThrough(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	c := &spyCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := newTestService(repo, c)

	metrics, err := svc.GetDashboard(context.Background(), domain.SnapshotFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if metrics.TotalSKUs != 4 {
		t.Errorf("total skus = %d, want 4", metrics.TotalSKUs)
	}
}

func TestGetItems_Pagination(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	svc := newTestService(repo, &spyCache{})

	page1, total, err := svc.GetItems(context.Background(), domain.SnapshotFilter{Page: 1, PageSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || len(page1) != 3 {
		t.Fatalf("page 1: total=%d len=%d, want 4/3", total, len(page1))
	}

	page2, _, err := svc.GetItems(context.Background(), domain.SnapshotFilter{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 1 {
		t.Fatalf("page 2: len=%d, want 1", len(page2))
	}

	beyond, total, err := svc.GetItems(context.Background(), domain.SnapshotFilter{Page: 9, PageSize: 3})
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || len(beyond) != 0 {
		t.Errorf("page past the end: total=%d len=%d, want 4/0", total, len(beyond))
	}
}

func TestGetItems_StatusFilterAppliesAfterClassification(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	svc := newTestService(repo, &spyCache{})

	items, total, err := svc.GetItems(context.Background(), domain.SnapshotFilter{
		Statuses: []string{domain.StatusRupture},
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != "S1" {
		t.Errorf("filtered items = %v (total %d), want just S1", items, total)
	}
	if items[0].StatusLabel != domain.StatusRupture {
		t.Errorf("status = %s, want RUPTURA", items[0].StatusLabel)
	}
}

func TestValidateMix_UsesFullSnapshotForCurves(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	svc := newTestService(repo, &spyCache{})

	// S1 dominates revenue snapshot-wide, so even a selection that only
	// names S1 must see it classified as curve A.
	validation, err := svc.ValidateMix(context.Background(), "2025-11-25", []string{"S1"})
	if err != nil {
		t.Fatal(err)
	}
	if validation.Reason != engine.MixReasonOnlyA {
		t.Errorf("reason = %s, want only_a", validation.Reason)
	}
	if repo.lastFilter.SnapshotDate != "2025-11-25" {
		t.Errorf("snapshot date = %q, want 2025-11-25", repo.lastFilter.SnapshotDate)
	}
}

func TestSeasonalEvents_ZeroRefMeansNow(t *testing.T) {
	svc := newTestService(&stubRepo{}, &spyCache{})

	events := svc.SeasonalEvents(time.Time{})
	if len(events) == 0 {
		t.Fatal("expected events around late November")
	}
	if events[0].Name != "Black Friday" || events[0].DaysUntil != 3 {
		t.Errorf("nearest event = %s/%d, want Black Friday/3", events[0].Name, events[0].DaysUntil)
	}
}

func TestGetDashboard_RepoErrorPropagates(t *testing.T) {
	repo := &stubRepo{err: errors.New("db unavailable")}
	svc := newTestService(repo, &spyCache{})

	if _, err := svc.GetDashboard(context.Background(), domain.SnapshotFilter{}); err == nil {
		t.Fatal("expected repository error to propagate")
	}
}
