package component

// Calendar renders a month view with events. Events are config data: date
// ranges ({start, end}) or single days ({date}), each with a type and title.
type Calendar struct {
	base
}

// CalendarEvent is one calendar entry. Either Date or Start/End is set.
type CalendarEvent struct {
	Date  string `json:"date,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

func (c *Calendar) Year(year int) *Calendar   { c.Set("year", year); return c }
func (c *Calendar) Month(month int) *Calendar { c.Set("month", month); return c }

func (c *Calendar) Events(events []CalendarEvent) *Calendar {
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
	c.Set("events", raw)
	return c
}

func (c *Calendar) CellSize(size string) *Calendar  { c.Set("cell_size", size); return c }
func (c *Calendar) MinHeight(h string) *Calendar    { c.Set("min_height", h); return c }
func (c *Calendar) MaxHeight(h string) *Calendar    { c.Set("max_height", h); return c }
func (c *Calendar) ShowSaturdayInfo(show bool) *Calendar {
	c.Set("show_saturday_info", show)
	return c
}
func (c *Calendar) ShowSundayInfo(show bool) *Calendar {
	c.Set("show_sunday_info", show)
	return c
}

// ReferencesColumns clamps the legend column count to 1..3.
func (c *Calendar) ReferencesColumns(columns int) *Calendar {
	if columns < 1 {
		columns = 1
	}
	if columns > 3 {
		columns = 3
	}
	c.Set("references_columns", columns)
	return c
}
