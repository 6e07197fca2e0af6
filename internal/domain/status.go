package domain

import "strings"

// Stock status labels, from worst to best coverage.
const (
	StatusRupture   = "RUPTURA"
	StatusCritical  = "CRÍTICO"
	StatusAttention = "ATENÇÃO"
	StatusHealthy   = "SAUDÁVEL"
	StatusExcess    = "EXCESSO"
	StatusUnknown   = "Indefinido"
)

// ABC revenue curves.
const (
	ABCClassA = "A"
	ABCClassB = "B"
	ABCClassC = "C"
)

// Priority tiers for the purchase action list. Lexicographic order matches
// urgency order, which keeps sorting trivial.
const (
	PriorityUrgent = "1-URGENTE"
	PriorityHigh   = "2-ALTA"
	PriorityMedium = "3-MEDIA"
	PriorityLow    = "4-BAIXA"
)

var knownStatuses = map[string]string{
	"ruptura":    StatusRupture,
	"crítico":    StatusCritical,
	"critico":    StatusCritical,
	"atenção":    StatusAttention,
	"atencao":    StatusAttention,
	"saudável":   StatusHealthy,
	"saudavel":   StatusHealthy,
	"excesso":    StatusExcess,
	"indefinido": StatusUnknown,
}

// NormalizeStatus maps free-form status labels onto the canonical set.
// Anything unrecognized degrades to StatusUnknown rather than failing.
func NormalizeStatus(label string) string {
	if status, ok := knownStatuses[strings.ToLower(strings.TrimSpace(label))]; ok {
		return status
	}

	return StatusUnknown
}

// NormalizeABCClass maps free-form curve labels onto A/B/C. Unknown or
// missing values default to C, the lowest-contribution curve.
func NormalizeABCClass(label string) string {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case ABCClassA:
		return ABCClassA
	case ABCClassB:
		return ABCClassB
	default:
		return ABCClassC
	}
}

// IsCriticalStatus reports whether a status represents an immediate
// availability risk (out of stock or about to be).
func IsCriticalStatus(status string) bool {
	return status == StatusRupture || status == StatusCritical
}
