package screens

import (
	"context"
	"fmt"
	"time"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

// CalendarDemo renders a month view with a few fixed events and prev/next
// month navigation. The shown month rides in client state so reloads land on
// the month the user was looking at.
type CalendarDemo struct{}

// NewCalendarDemo returns the calendar screen.
func NewCalendarDemo() *CalendarDemo { return &CalendarDemo{} }

func (s *CalendarDemo) Name() string { return "calendar-demo" }

func (s *CalendarDemo) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	now := time.Now()
	year := bag.Int("store_cal_year", now.Year())
	month := bag.Int("store_cal_month", int(now.Month()))

	root := f.Root("calendar_root", "main")
	card := f.Card("calendar_card").Title("Calendar").Padding(20)

	nav := f.Container("calendar_nav").
		Layout(component.LayoutHorizontal).
		JustifyContent(component.JustifySpaceBetween)
	nav.Add(f.Button("prev_month_button").Label("<").Variant("outlined").Action("prev_month"))
	nav.Add(f.Label("calendar_title").Text(monthTitle(year, month)))
	nav.Add(f.Button("next_month_button").Label(">").Variant("outlined").Action("next_month"))
	card.Add(nav)

	card.Add(f.Calendar("event_calendar").
		Year(year).
		Month(month).
		Events(demoEvents(year, month)).
		ReferencesColumns(2))

	root.Add(card)
	return root, nil
}

func (s *CalendarDemo) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{
		"prev_month": s.onPrevMonth,
		"next_month": s.onNextMonth,
	}
}

func (s *CalendarDemo) Bindings() []engine.Binding {
	return []engine.Binding{
		{Name: "event_calendar"},
		{Name: "calendar_title"},
	}
}

func (s *CalendarDemo) StateDefaults() clientstate.Bag {
	now := time.Now()
	return clientstate.Bag{
		"store_cal_year":  now.Year(),
		"store_cal_month": int(now.Month()),
	}
}

func (s *CalendarDemo) onPrevMonth(_ context.Context, ec *engine.EventContext) error {
	return s.shiftMonth(ec, -1)
}

func (s *CalendarDemo) onNextMonth(_ context.Context, ec *engine.EventContext) error {
	return s.shiftMonth(ec, 1)
}

func (s *CalendarDemo) shiftMonth(ec *engine.EventContext, delta int) error {
	year := ec.State.Int("store_cal_year", time.Now().Year())
	month := ec.State.Int("store_cal_month", int(time.Now().Month()))

	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	year, month = t.Year(), int(t.Month())
	ec.State["store_cal_year"] = year
	ec.State["store_cal_month"] = month

	cal := ec.Node("event_calendar")
	cal.Set("year", year)
	cal.Set("month", month)
	cal.Set("events", eventRecords(demoEvents(year, month)))
	ec.Node("calendar_title").Set("text", monthTitle(year, month))
	return nil
}

func monthTitle(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// demoEvents places the same fixture events into whatever month is shown.
func demoEvents(year, month int) []component.CalendarEvent {
	day := func(d int) string { return fmt.Sprintf("%04d-%02d-%02d", year, month, d) }
	return []component.CalendarEvent{
		{Date: day(5), Type: "holiday", Title: "Company holiday"},
		{Start: day(10), End: day(12), Type: "release", Title: "Release window"},
		{Date: day(20), Type: "meeting", Title: "All hands"},
	}
}

// eventRecords converts events to the raw config shape, for handlers that
// set the key directly instead of going through the fluent builder.
func eventRecords(events []component.CalendarEvent) []any {
	raw := make([]any, len(events))
	for i, e := range events {
		rec := map[string]any{"type": e.Type, "title": e.Title}
		if e.Date != "" {
			rec["date"] = e.Date
		}
		if e.Start != "" {
			rec["start"] = e.Start
			rec["end"] = e.End
		}
		raw[i] = rec
	}
	return raw
}
