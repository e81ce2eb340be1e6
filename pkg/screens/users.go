package screens

import (
	"context"
	"fmt"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/userdir"
)

const usersPerPage = 10

// UsersTable is the paginated data-table demo over the user directory.
// Page changes rebuild the row nodes; row names carry the account id so row
// ids stay deterministic across requests.
type UsersTable struct {
	dir *userdir.Directory
}

// NewUsersTable returns the users screen.
func NewUsersTable(dir *userdir.Directory) *UsersTable {
	return &UsersTable{dir: dir}
}

func (s *UsersTable) Name() string { return "users-table" }

func (s *UsersTable) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	page := bag.Int("store_users_page", 1)
	users, total, err := s.dir.List(context.Background(), page, usersPerPage)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	root := f.Root("users_root", "main")
	card := f.Card("users_card").Title("Users").Padding(20)

	table := f.Table("users_table").
		PerPage(usersPerPage).
		CurrentPage(page).
		TotalRows(total).
		Width("100%")
	fillUsersTable(f, table, users)

	card.Add(table)
	root.Add(card)
	return root, nil
}

func (s *UsersTable) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"change_page": s.onChangePage}
}

func (s *UsersTable) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "users_table"}}
}

func (s *UsersTable) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_users_page": 1}
}

func (s *UsersTable) onChangePage(ctx context.Context, ec *engine.EventContext) error {
	table, ok := ec.Node("users_table").(*component.Table)
	if !ok {
		return engine.ContractViolationf("users_table is not a table")
	}

	page := ec.ParamInt("page", 1)
	if page < 1 {
		page = 1
	}
	users, total, err := s.dir.List(ctx, page, usersPerPage)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	ec.State["store_users_page"] = page
	table.Clear()
	table.CurrentPage(page).TotalRows(total)
	fillUsersTable(ec.UI, table, users)
	table.Set("total_pages", table.PageCount())
	return nil
}

// fillUsersTable adds the header and one row per account. Names derive from
// stable account ids, so the same data always yields the same node ids.
func fillUsersTable(f *component.Factory, table *component.Table, users []*userdir.User) {
	header := f.TableHeaderRow("users_header")
	header.Add(f.TableHeaderCell("users_header_name").Text("Name"))
	header.Add(f.TableHeaderCell("users_header_email").Text("Email"))
	header.Add(f.TableHeaderCell("users_header_roles").Text("Roles"))
	table.Add(header)

	for _, u := range users {
		row := f.TableRow(fmt.Sprintf("user_row_%d", u.ID))
		row.Add(f.TableCell(fmt.Sprintf("user_cell_%d_name", u.ID)).Text(u.Name))
		row.Add(f.TableCell(fmt.Sprintf("user_cell_%d_email", u.ID)).Text(u.Email))
		row.Add(f.TableCell(fmt.Sprintf("user_cell_%d_roles", u.ID)).Text(u.Roles))
		table.Add(row)
	}
}
