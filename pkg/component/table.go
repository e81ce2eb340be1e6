package component

// Table is a paginated data table. Rows and header rows are child nodes;
// pagination state (current page, page size, total rows) lives in config so
// page changes diff as a handful of keys instead of a tree rebuild.
type Table struct {
	containerBase
}

func (t *Table) Add(child Node) *Table        { t.ConnectChild(child); return t }
func (t *Table) PerPage(n int) *Table         { t.Set("per_page", n); return t }
func (t *Table) CurrentPage(n int) *Table     { t.Set("current_page", n); return t }
func (t *Table) TotalRows(n int) *Table       { t.Set("total_rows", n); return t }
func (t *Table) Width(w string) *Table        { t.Set("width", w); return t }
func (t *Table) Striped(s bool) *Table        { t.Set("striped", s); return t }

// PageCount derives the page count from config.
func (t *Table) PageCount() int {
	total, _ := asInt(t.Get("total_rows", 0))
	per, _ := asInt(t.Get("per_page", 10))
	if per <= 0 {
		return 1
	}
	pages := (total + per - 1) / per
	if pages < 1 {
		pages = 1
	}
	return pages
}

// PostConnect keeps the derived total_pages key consistent after the tree is
// rewired from a snapshot.
func (t *Table) PostConnect() {
	t.Set("total_pages", t.PageCount())
}

// TableHeaderRow holds header cells.
type TableHeaderRow struct {
	containerBase
}

func (r *TableHeaderRow) Add(child Node) *TableHeaderRow {
	r.ConnectChild(child)
	return r
}

// TableHeaderCell is one column header.
type TableHeaderCell struct {
	base
}

func (c *TableHeaderCell) Text(text string) *TableHeaderCell { c.Set("text", text); return c }
func (c *TableHeaderCell) MinWidth(px int) *TableHeaderCell  { c.Set("min_width", px); return c }
func (c *TableHeaderCell) MaxWidth(px int) *TableHeaderCell  { c.Set("max_width", px); return c }

// TableRow holds the cells of one data row.
type TableRow struct {
	containerBase
}

func (r *TableRow) Add(child Node) *TableRow { r.ConnectChild(child); return r }

// TableCell renders either plain text or an embedded action button.
type TableCell struct {
	base
}

func (c *TableCell) Text(text string) *TableCell { c.Set("text", text); return c }

// ActionButton turns the cell into a small button that dispatches an action
// with fixed parameters (e.g. the row's entity id).
func (c *TableCell) ActionButton(label, action string, params map[string]any) *TableCell {
	c.Set("button", map[string]any{
		"label":      label,
		"action":     action,
		"parameters": params,
	})
	return c
}
