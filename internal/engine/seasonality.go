// internal/engine/seasonality.go
package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/domain"
)

// Window of the seasonality calendar relative to the reference date: events
// up to 5 days in the past are still surfaced (a campaign may be running),
// and the lookahead covers a purchase lead cycle.
const (
	seasonalityLookbackDays  = 5
	seasonalityLookaheadDays = 90
)

type fixedEvent struct {
	name        string
	month       time.Month
	day         int
	description string
}

type easterEvent struct {
	name        string
	offsetDays  int
	description string
}

type nthWeekdayEvent struct {
	name        string
	month       time.Month
	weekday     time.Weekday
	nth         int
	description string
}

var fixedEvents = []fixedEvent{
	{"Ano Novo", time.January, 1, "Virada do ano, pico de festas e conveniência"},
	{"Dia do Consumidor", time.March, 15, "Data promocional forte no varejo online"},
	{"Dia dos Namorados", time.June, 12, "Presentes, chocolates e kits"},
	{"Dia das Crianças", time.October, 12, "Brinquedos e categorias infantis"},
	{"Natal", time.December, 25, "Maior pico de vendas do ano"},
}

var easterEvents = []easterEvent{
	{"Carnaval", -47, "Bebidas, fantasias e conveniência"},
	{"Sexta-feira Santa", -2, "Pescados e ceia"},
	{"Páscoa", 0, "Chocolates e ovos de páscoa"},
}

var nthWeekdayEvents = []nthWeekdayEvent{
	{"Dia das Mães", time.May, time.Sunday, 2, "Segunda data mais forte do varejo"},
	{"Dia dos Pais", time.August, time.Sunday, 2, "Presentes masculinos e eletro"},
	{"Black Friday", time.November, time.Friday, 4, "Maior data de queima de estoque"},
}

// UpcomingEvents returns the commercially relevant dates inside the window
// around ref, sorted by proximity. The reference date is injectable so
// callers (and tests) control "now".
//
// Candidates are generated for the reference year and both neighbors before
// filtering: a late-November reference must already see next February's
// Carnaval, and an early-January one may still see last year's Natal.
func (e *Engine) UpcomingEvents(ref time.Time) []domain.SeasonalityEvent {
	today := truncateToDay(ref)

	var events []domain.SeasonalityEvent
	for _, year := range []int{today.Year() - 1, today.Year(), today.Year() + 1} {
		for _, candidate := range eventsForYear(year) {
			days := daysBetween(today, candidate.Date)
			if days < -seasonalityLookbackDays || days > seasonalityLookaheadDays {
				continue
			}
			candidate.DaysUntil = days
			events = append(events, candidate)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].DaysUntil != events[j].DaysUntil {
			return events[i].DaysUntil < events[j].DaysUntil
		}
		return events[i].Name < events[j].Name
	})

	return events
}

// NearestEventHint renders the closest upcoming event as free-text context
// for downstream advisory steps. It is a hint only and never gates any
// decision. Returns "" when nothing is ahead inside the window.
func (e *Engine) NearestEventHint(ref time.Time) string {
	for _, event := range e.UpcomingEvents(ref) {
		if event.DaysUntil < 0 {
			continue
		}
		if event.DaysUntil == 0 {
			return fmt.Sprintf("%s é hoje (%s). %s.", event.Name, event.Date.Format("02/01"), event.Description)
		}
		return fmt.Sprintf("%s está a %d dias (%s). %s. Considere no planejamento de compras e campanhas.",
			event.Name, event.DaysUntil, event.Date.Format("02/01"), event.Description)
	}

	return ""
}

func eventsForYear(year int) []domain.SeasonalityEvent {
	events := make([]domain.SeasonalityEvent, 0, len(fixedEvents)+len(easterEvents)+len(nthWeekdayEvents))

	for _, ev := range fixedEvents {
		events = append(events, domain.SeasonalityEvent{
			Name:        ev.name,
			Date:        time.Date(year, ev.month, ev.day, 0, 0, 0, 0, time.UTC),
			Description: ev.description,
		})
	}

	easter := easterSunday(year)
	for _, ev := range easterEvents {
		events = append(events, domain.SeasonalityEvent{
			Name:        ev.name,
			Date:        easter.AddDate(0, 0, ev.offsetDays),
			Description: ev.description,
		})
	}

	for _, ev := range nthWeekdayEvents {
		events = append(events, domain.SeasonalityEvent{
			Name:        ev.name,
			Date:        nthWeekdayOf(year, ev.month, ev.weekday, ev.nth),
			Description: ev.description,
		})
	}

	return events
}

// easterSunday computes Gregorian Easter via the anonymous computus, a
// closed-form integer algorithm over the year number.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// nthWeekdayOf finds the nth occurrence of a weekday in a month: locate the
// first occurrence, then advance whole weeks.
func nthWeekdayOf(year int, month time.Month, weekday time.Weekday, nth int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7

	return first.AddDate(0, 0, offset+7*(nth-1))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
