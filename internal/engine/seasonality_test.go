package engine_test

import (
	"strings"
	"testing"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/engine"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpcomingEvents_LateNovemberWindow(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())

	events := eng.UpcomingEvents(date(2025, time.November, 25))

	want := []struct {
		name string
		days int
	}{
		{"Black Friday", 3},
		{"Natal", 30},
		{"Ano Novo", 37},
		{"Carnaval", 84},
	}

	if len(events) != len(want) {
		names := make([]string, len(events))
		for i, ev := range events {
			names[i] = ev.Name
		}
		t.Fatalf("got %d events (%v), want %d", len(events), names, len(want))
	}

	for i, w := range want {
		if events[i].Name != w.name || events[i].DaysUntil != w.days {
			t.Errorf("event[%d] = %s/%d, want %s/%d",
				i, events[i].Name, events[i].DaysUntil, w.name, w.days)
		}
	}
}

func TestUpcomingEvents_AllInsideWindow(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())

	// Sweep a full year of reference dates; every returned event must sit
	// inside [-5, +90] days and the list must be sorted by proximity.
	ref := date(2025, time.January, 1)
	for day := 0; day < 365; day += 7 {
		events := eng.UpcomingEvents(ref.AddDate(0, 0, day))
		for i, ev := range events {
			if ev.DaysUntil < -5 || ev.DaysUntil > 90 {
				t.Fatalf("ref+%dd: %s at %d days outside window", day, ev.Name, ev.DaysUntil)
			}
			if i > 0 && ev.DaysUntil < events[i-1].DaysUntil {
				t.Fatalf("ref+%dd: events not sorted by proximity", day)
			}
		}
	}
}

func TestUpcomingEvents_RecentPastStillListed(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())

	// Two days after Natal it still shows, with a negative countdown.
	events := eng.UpcomingEvents(date(2025, time.December, 27))

	found := false
	for _, ev := range events {
		if ev.Name == "Natal" {
			found = true
			if ev.DaysUntil != -2 {
				t.Errorf("Natal days until = %d, want -2", ev.DaysUntil)
			}
		}
	}
	if !found {
		t.Error("Natal within lookback window was dropped")
	}
}

func TestEventDates_MovableFeasts(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())

	tests := []struct {
		ref  time.Time
		name string
		want time.Time
	}{
		{date(2026, time.March, 20), "Páscoa", date(2026, time.April, 5)},
		{date(2026, time.February, 1), "Carnaval", date(2026, time.February, 17)},
		{date(2025, time.November, 1), "Black Friday", date(2025, time.November, 28)},
		{date(2025, time.April, 20), "Dia das Mães", date(2025, time.May, 11)},
		{date(2025, time.July, 20), "Dia dos Pais", date(2025, time.August, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, ev := range eng.UpcomingEvents(tt.ref) {
				if ev.Name == tt.name {
					if !ev.Date.Equal(tt.want) {
						t.Errorf("%s = %s, want %s", tt.name,
							ev.Date.Format("2006-01-02"), tt.want.Format("2006-01-02"))
					}
					return
				}
			}
			t.Fatalf("%s not found from ref %s", tt.name, tt.ref.Format("2006-01-02"))
		})
	}
}

func TestNearestEventHint(t *testing.T) {
	eng := engine.New(engine.DefaultThresholds())

	hint := eng.NearestEventHint(date(2025, time.November, 25))
	if !strings.Contains(hint, "Black Friday") || !strings.Contains(hint, "3 dias") {
		t.Errorf("hint = %q, want Black Friday at 3 days", hint)
	}

	today := eng.NearestEventHint(date(2025, time.November, 28))
	if !strings.Contains(today, "Black Friday é hoje") {
		t.Errorf("same-day hint = %q, want 'é hoje' phrasing", today)
	}

	// A recent past event must not be offered as the next one.
	after := eng.NearestEventHint(date(2026, time.January, 3))
	if strings.Contains(after, "Ano Novo") {
		t.Errorf("hint = %q, past event should be skipped", after)
	}
}
