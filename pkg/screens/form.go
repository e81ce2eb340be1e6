package screens

import (
	"context"
	"net/mail"
	"strings"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

// FormDemo validates a small signup form server-side; errors land in each
// input's error config key and diff back to the client.
type FormDemo struct{}

// NewFormDemo returns the form screen.
func NewFormDemo() *FormDemo { return &FormDemo{} }

func (s *FormDemo) Name() string { return "form-demo" }

func (s *FormDemo) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	root := f.Root("form_root", "main")
	card := f.Card("form_card").Title("Sign up").Padding(20)

	form := f.Form("signup_form").Gap("12px")
	form.Add(f.Input("input_name").Label("Name").Placeholder("Jane Doe").Required(true))
	form.Add(f.Input("input_email").Label("Email").InputType("email").
		Placeholder("jane@example.com").Required(true))
	form.Add(f.Button("submit_button").Label("Submit").Action("submit_form"))

	card.Add(form)
	root.Add(card)
	return root, nil
}

func (s *FormDemo) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"submit_form": s.onSubmitForm}
}

func (s *FormDemo) Bindings() []engine.Binding {
	return []engine.Binding{
		{Name: "input_name"},
		{Name: "input_email"},
	}
}

func (s *FormDemo) StateDefaults() clientstate.Bag { return nil }

func (s *FormDemo) onSubmitForm(_ context.Context, ec *engine.EventContext) error {
	name := strings.TrimSpace(ec.ParamString("name", ""))
	email := strings.TrimSpace(ec.ParamString("email", ""))

	nameNode := ec.Node("input_name")
	emailNode := ec.Node("input_email")
	valid := true

	if name == "" {
		nameNode.Set("error", "Name is required")
		valid = false
	} else {
		nameNode.Set("error", nil)
	}

	if email == "" {
		emailNode.Set("error", "Email is required")
		valid = false
	} else if _, err := mail.ParseAddress(email); err != nil {
		emailNode.Set("error", "Email address is not valid")
		valid = false
	} else {
		emailNode.Set("error", nil)
	}

	if !valid {
		return nil
	}

	nameNode.Set("value", name)
	emailNode.Set("value", email)
	ec.Changes.Toast("Thanks, "+name+"!", "success", 3000)
	return nil
}
