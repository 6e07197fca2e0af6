// internal/service/advisory_service.go
package service

import (
	"context"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/cache"
	"github.com/estoquelab/estoque-advisor/internal/domain"
	"github.com/estoquelab/estoque-advisor/internal/engine"
	"github.com/estoquelab/estoque-advisor/internal/repository"
	"github.com/rs/zerolog/log"
)

// AdvisoryService wires the pure advisory engine to the snapshot store and
// the dashboard cache. All session context (snapshot date, filters) arrives
// explicitly per call; the service keeps no state between requests.
type AdvisoryService struct {
	engine *engine.Engine
	repo   repository.SnapshotRepository
	cache  cache.DashboardCache
	now    func() time.Time
}

func NewAdvisoryService(eng *engine.Engine, repo repository.SnapshotRepository, cacheImpl cache.DashboardCache) *AdvisoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &AdvisoryService{
		engine: eng,
		repo:   repo,
		cache:  cacheImpl,
		now:    time.Now,
	}
}

// GetDashboard loads the snapshot, classifies it and aggregates the full
// dashboard view, annotated with the nearest seasonality hint.
func (s *AdvisoryService) GetDashboard(ctx context.Context, filter domain.SnapshotFilter) (*domain.DashboardMetrics, error) {
	if metrics, ok, err := s.cache.Get(ctx, filter); err == nil && ok {
		return metrics, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("advisory: dashboard cache get failed")
	}

	records, err := s.repo.GetSnapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	classified := s.engine.ClassifySnapshot(records)
	metrics := s.engine.BuildDashboard(classified)
	metrics.SeasonalityHint = s.engine.NearestEventHint(s.now())

	if err := s.cache.Set(ctx, filter, &metrics); err != nil {
		log.Warn().Err(err).Msg("advisory: dashboard cache set failed")
	}

	return &metrics, nil
}

// GetItems returns the classified snapshot rows matching the filter,
// paginated. Status and ABC filters apply after classification since the
// labels themselves are derived snapshot-wide.
func (s *AdvisoryService) GetItems(ctx context.Context, filter domain.SnapshotFilter) ([]domain.StockRecord, int, error) {
	records, err := s.repo.GetSnapshot(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	classified := s.engine.ClassifySnapshot(records)
	filtered := filterRecords(classified, filter)

	total := len(filtered)
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []domain.StockRecord{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return filtered[start:end], total, nil
}

// GetPriorityActions returns the purchase action list under the requested
// ordering.
func (s *AdvisoryService) GetPriorityActions(ctx context.Context, filter domain.SnapshotFilter) ([]domain.PriorityAction, error) {
	records, err := s.repo.GetSnapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	classified := s.engine.ClassifySnapshot(records)
	return s.engine.PriorityActions(classified, filter.Ordering), nil
}

// Simulate runs the manual what-if replenishment calculator.
func (s *AdvisoryService) Simulate(in engine.SimulationInput) domain.ReplenishmentResult {
	return s.engine.Simulate(in)
}

// ValidateMix fetches the selected SKUs from the snapshot, classifies the
// full snapshot (ABC is snapshot-wide) and validates the selection.
func (s *AdvisoryService) ValidateMix(ctx context.Context, snapshotDate string, ids []string) (*domain.MixValidation, error) {
	snapshot, err := s.repo.GetSnapshot(ctx, domain.SnapshotFilter{SnapshotDate: snapshotDate})
	if err != nil {
		return nil, err
	}

	classified := s.engine.ClassifySnapshot(snapshot)

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var selection []domain.StockRecord
	for _, rec := range classified {
		if wanted[rec.ID] {
			selection = append(selection, rec)
		}
	}

	validation := s.engine.ValidateMix(selection)
	return &validation, nil
}

// SeasonalEvents returns the seasonality calendar around ref; a zero ref
// means "now".
func (s *AdvisoryService) SeasonalEvents(ref time.Time) []domain.SeasonalityEvent {
	if ref.IsZero() {
		ref = s.now()
	}
	return s.engine.UpcomingEvents(ref)
}

// GetAvailableDates lists the snapshot dates present in the store.
func (s *AdvisoryService) GetAvailableDates(ctx context.Context, limit int) ([]time.Time, error) {
	return s.repo.GetAvailableDates(ctx, limit)
}

func filterRecords(records []domain.StockRecord, filter domain.SnapshotFilter) []domain.StockRecord {
	if len(filter.Statuses) == 0 && len(filter.ABCClasses) == 0 {
		return records
	}

	statuses := toSet(filter.Statuses)
	classes := toSet(filter.ABCClasses)

	var out []domain.StockRecord
	for _, rec := range records {
		if len(statuses) > 0 && !statuses[rec.StatusLabel] {
			continue
		}
		if len(classes) > 0 && !classes[rec.ABCClass] {
			continue
		}
		out = append(out, rec)
	}

	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
