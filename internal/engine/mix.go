// internal/engine/mix.go
package engine

import (
	"fmt"

	"github.com/estoquelab/estoque-advisor/internal/domain"
)

// Mix validation states.
const (
	MixStatusIdeal   = "ideal"
	MixStatusWarning = "warning"
	MixStatusBlocked = "blocked"
)

// Mix blocking/warning reasons.
const (
	MixReasonEmptySelection = "empty_selection"
	MixReasonOverLimit      = "selection_over_limit"
	MixReasonOnlyA          = "only_a"
	MixReasonOnlyB          = "only_b"
	MixReasonOnlyC          = "only_c"
	MixReasonMissingA       = "missing_a"
	MixReasonMissingB       = "missing_b"
	MixReasonMissingC       = "missing_c"
	MixReasonRiskyA         = "risky_a_items"
)

// ValidateMix evaluates a campaign selection against the curve-role model:
// curve A draws traffic, curve B balances margin, curve C burns excess
// inventory. The verdict is a pure function of the ABC multiset plus the
// availability status of the curve-A members; it re-evaluates the whole
// selection on every call and never mutates it.
//
// CanProceed is false only for blocked states (single curve, empty or
// oversized selection); warnings always let the campaign go ahead.
func (e *Engine) ValidateMix(selection []domain.StockRecord) domain.MixValidation {
	validation := domain.MixValidation{
		Curves: map[string]domain.MixCurveStats{
			domain.ABCClassA: {},
			domain.ABCClassB: {},
			domain.ABCClassC: {},
		},
	}

	if len(selection) == 0 {
		validation.Status = MixStatusBlocked
		validation.Reason = MixReasonEmptySelection
		validation.Message = "Nenhum produto selecionado. Selecione produtos para montar o mix da campanha."
		return validation
	}

	if len(selection) > e.th.MixSelectionLimit {
		validation.Status = MixStatusBlocked
		validation.Reason = MixReasonOverLimit
		validation.Message = fmt.Sprintf("Seleção excede o limite de %d produtos por campanha.", e.th.MixSelectionLimit)
		return validation
	}

	counts := map[string]int{}
	var riskProducts []domain.StockRecord
	for _, rec := range selection {
		abc := domain.NormalizeABCClass(rec.ABCClass)
		counts[abc]++

		if abc == domain.ABCClassA && domain.IsCriticalStatus(domain.NormalizeStatus(rec.StatusLabel)) {
			riskProducts = append(riskProducts, rec)
		}
	}

	total := len(selection)
	for _, class := range []string{domain.ABCClassA, domain.ABCClassB, domain.ABCClassC} {
		validation.Curves[class] = domain.MixCurveStats{
			Count:      counts[class],
			Percentage: float64(counts[class]) / float64(total) * 100,
		}
	}

	hasA := counts[domain.ABCClassA] > 0
	hasB := counts[domain.ABCClassB] > 0
	hasC := counts[domain.ABCClassC] > 0
	curvesPresent := 0
	for _, present := range []bool{hasA, hasB, hasC} {
		if present {
			curvesPresent++
		}
	}

	switch curvesPresent {
	case 1:
		validation.Status = MixStatusBlocked
		switch {
		case hasA:
			validation.Reason = MixReasonOnlyA
			validation.Message = "Mix só com curva A não é uma queima real. Adicione itens B (suporte) e C (queima)."
			validation.Suggestions = append(validation.Suggestions,
				"Adicione 2-3 itens curva B para equilibrar margem",
				"Adicione 4-6 itens curva C como alvo de queima")
		case hasB:
			validation.Reason = MixReasonOnlyB
			validation.Message = "Mix incompleto: só curva B. Adicione itens A (chamariz) e C (queima)."
			validation.Suggestions = append(validation.Suggestions,
				"Adicione 1-2 itens curva A como chamariz",
				"Adicione 4-6 itens curva C como alvo de queima")
		default:
			validation.Reason = MixReasonOnlyC
			validation.Message = "Mix de baixa atratividade: só curva C. Adicione itens A como chamariz."
			validation.Suggestions = append(validation.Suggestions,
				"Adicione 1-2 itens curva A como chamariz",
				"Adicione 2-3 itens curva B para equilibrar margem")
		}
		return validation

	case 2:
		validation.CanProceed = true
		validation.Status = MixStatusWarning
		switch {
		case !hasA:
			validation.Reason = MixReasonMissingA
			validation.Message = "Mix sem chamariz: falta curva A."
			validation.Suggestions = append(validation.Suggestions,
				"Adicione 1-2 itens curva A como chamariz")
		case !hasB:
			validation.Reason = MixReasonMissingB
			validation.Message = "Mix sem suporte de margem: falta curva B."
			validation.Suggestions = append(validation.Suggestions,
				"Adicione 2-3 itens curva B para equilibrar margem")
		default:
			validation.Reason = MixReasonMissingC
			validation.Message = "Mix sem alvo de queima: falta curva C."
			validation.Suggestions = append(validation.Suggestions,
				"Adicione 4-6 itens curva C como alvo de queima")
		}
		return validation
	}

	// All three curves present.
	validation.CanProceed = true
	if len(riskProducts) > 0 {
		validation.Status = MixStatusWarning
		validation.Reason = MixReasonRiskyA
		validation.RiskProducts = riskProducts
		validation.Message = fmt.Sprintf(
			"Mix completo, mas %d item(ns) curva A está(ão) em ruptura ou estoque crítico. Promover um campeão de venda sem estoque arrisca ruptura evitável; considere substituí-lo(s).",
			len(riskProducts))
		validation.Suggestions = append(validation.Suggestions,
			"Substitua os itens curva A em risco por itens A com estoque saudável")
		return validation
	}

	validation.Status = MixStatusIdeal
	validation.Message = "Mix ideal: chamariz (A), suporte (B) e queima (C) presentes."
	return validation
}
