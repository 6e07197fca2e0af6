// internal/engine/thresholds.go
package engine

// Thresholds centralizes every tunable constant of the advisory engine so
// the classification and ranking logic stays free of magic numbers. Callers
// start from DefaultThresholds and override what their deployment needs.
type Thresholds struct {
	// Status bucket boundaries, in coverage days. Lower bounds are
	// inclusive: coverage of exactly 15 is ATENÇÃO, not CRÍTICO.
	CriticalCoverDays  float64
	AttentionCoverDays float64
	HealthyCoverDays   float64

	// ABC cumulative revenue-share cutoffs (Pareto 80/15/5).
	ABCClassACutoff float64
	ABCClassBCutoff float64

	// Replenishment math.
	TargetStockMultiplier float64
	TargetCoverDays       float64

	// Ranking and selection caps.
	TopMoversLimit    int
	MixSelectionLimit int

	// Coverage histogram bucket edges, ascending. A final open-ended
	// bucket is always appended above the last edge.
	HistogramEdges []float64
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalCoverDays:     15,
		AttentionCoverDays:    30,
		HealthyCoverDays:      60,
		ABCClassACutoff:       0.80,
		ABCClassBCutoff:       0.95,
		TargetStockMultiplier: 1.5,
		TargetCoverDays:       60,
		TopMoversLimit:        10,
		MixSelectionLimit:     10,
		HistogramEdges:        []float64{7, 15, 30, 60},
	}
}

// Engine is the advisory computation layer. It holds no mutable state: every
// method is a pure function over its inputs plus the threshold table, so
// concurrent invocations are safe without locking.
type Engine struct {
	th Thresholds
}

// New creates an engine with the given threshold table.
func New(th Thresholds) *Engine {
	if th.TopMoversLimit <= 0 {
		th.TopMoversLimit = DefaultThresholds().TopMoversLimit
	}
	if th.MixSelectionLimit <= 0 {
		th.MixSelectionLimit = DefaultThresholds().MixSelectionLimit
	}
	if len(th.HistogramEdges) == 0 {
		th.HistogramEdges = DefaultThresholds().HistogramEdges
	}

	return &Engine{th: th}
}

// Thresholds exposes the active threshold table (read-only copy).
func (e *Engine) Thresholds() Thresholds {
	return e.th
}
