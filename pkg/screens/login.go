package screens

import (
	"context"
	"errors"
	"strings"

	"github.com/idei-labs/usim/pkg/auth"
	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/userdir"
)

// Login checks credentials against the user directory and hands the client
// a signed token through the round-tripped state bag.
type Login struct {
	dir    *userdir.Directory
	tokens *auth.TokenManager
}

// NewLogin returns the login screen.
func NewLogin(dir *userdir.Directory, tokens *auth.TokenManager) *Login {
	return &Login{dir: dir, tokens: tokens}
}

func (s *Login) Name() string { return "login-screen" }

func (s *Login) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	root := f.Root("login_root", "main")
	card := f.Card("login_card").Title("Log in").Padding(20)

	form := f.Form("login_form").Gap("12px")
	form.Add(f.Input("login_email").Label("Email").InputType("email").Required(true))
	form.Add(f.Input("login_password").Label("Password").InputType("password").Required(true))
	form.Add(f.Button("login_button").Label("Log in").Action("login"))

	card.Add(form)
	root.Add(card)
	return root, nil
}

func (s *Login) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"login": s.onLogin}
}

func (s *Login) Bindings() []engine.Binding {
	return []engine.Binding{
		{Name: "login_email"},
		{Name: "login_password"},
	}
}

func (s *Login) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_token": ""}
}

func (s *Login) onLogin(ctx context.Context, ec *engine.EventContext) error {
	email := strings.TrimSpace(ec.ParamString("email", ""))
	password := ec.ParamString("password", "")

	emailNode := ec.Node("login_email")
	passwordNode := ec.Node("login_password")
	emailNode.Set("error", nil)
	passwordNode.Set("error", nil)

	if email == "" {
		emailNode.Set("error", "Email is required")
		return nil
	}
	if password == "" {
		passwordNode.Set("error", "Password is required")
		return nil
	}

	user, err := s.dir.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, userdir.ErrBadCredentials) {
			passwordNode.Set("error", "Invalid email or password")
			return nil
		}
		return err
	}

	var roles []string
	if user.Roles != "" {
		roles = strings.Split(user.Roles, ",")
	}
	token, err := s.tokens.Issue(user.Email, user.Name, roles)
	if err != nil {
		return err
	}

	ec.State["store_token"] = token
	ec.Changes.Toast("Welcome back, "+user.Name, "success", 3000)
	ec.Changes.Redirect("/")
	return nil
}
