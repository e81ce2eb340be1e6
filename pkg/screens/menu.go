package screens

import (
	"context"

	"github.com/idei-labs/usim/pkg/auth"
	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

// Menu is the navigation dropdown mounted at the "menu" slot. Its items
// depend on auth state, which can change while a snapshot sits in the cache,
// so PostLoad revalidates the token and reshapes the menu on every reload.
type Menu struct {
	tokens *auth.TokenManager
}

// NewMenu returns the menu screen.
func NewMenu(tokens *auth.TokenManager) *Menu {
	return &Menu{tokens: tokens}
}

func (s *Menu) Name() string { return "menu" }

func (s *Menu) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	root := f.Root("menu_root", "menu").Padding(0)
	menu := f.MenuDropdown("main_menu").Position("bottom-left").Width("240px")
	s.shapeMenu(menu, s.claimsFor(bag))
	root.Add(menu)
	return root, nil
}

func (s *Menu) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"logout": s.onLogout}
}

func (s *Menu) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "main_menu"}}
}

func (s *Menu) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_token": ""}
}

// PostLoad runs on every full reload: the cached menu may predate a login or
// logout, so the items are rebuilt from the current token.
func (s *Menu) PostLoad(_ context.Context, ec *engine.EventContext) error {
	menu, ok := ec.Node("main_menu").(*component.MenuDropdown)
	if !ok {
		return engine.ContractViolationf("main_menu is not a menu dropdown")
	}
	menu.Set("items", []any{})
	s.shapeMenu(menu, s.claimsFor(ec.State))
	return nil
}

func (s *Menu) onLogout(_ context.Context, ec *engine.EventContext) error {
	ec.State["store_token"] = ""
	menu, ok := ec.Node("main_menu").(*component.MenuDropdown)
	if !ok {
		return engine.ContractViolationf("main_menu is not a menu dropdown")
	}
	menu.Set("items", []any{})
	s.shapeMenu(menu, nil)
	ec.Changes.Toast("Signed out", "info", 2000)
	ec.Changes.Redirect("/")
	return nil
}

// claimsFor validates the bag's token; nil means no authenticated user.
func (s *Menu) claimsFor(bag clientstate.Bag) *auth.UserClaims {
	token := bag.String("store_token", "")
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	return claims
}

func (s *Menu) shapeMenu(menu *component.MenuDropdown, claims *auth.UserClaims) {
	menu.Link("Home", "/", "home", "")
	menu.Link("Calendar", "/screens/calendar-demo", "calendar", "")

	if claims == nil {
		menu.Trigger("Guest", "user", "default")
		menu.UserPermissions(nil)
		menu.Separator()
		menu.Link("Log in", "/screens/login-screen", "login", "")
		return
	}

	menu.Trigger(claims.Name, "user", "primary")
	menu.UserPermissions(claims.Roles)
	menu.Link("Users", "/screens/users-table", "users", "admin")
	menu.Separator()
	menu.Item(component.MenuItem{Label: "Log out", Action: "logout", Icon: "logout", Permission: "auth"})
}
