package screens

import (
	"context"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

// CheckboxDemo mirrors a checkbox into client state and a status label.
type CheckboxDemo struct{}

// NewCheckboxDemo returns the checkbox screen.
func NewCheckboxDemo() *CheckboxDemo { return &CheckboxDemo{} }

func (s *CheckboxDemo) Name() string { return "checkbox-demo" }

func (s *CheckboxDemo) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	subscribed := bag.Bool("store_subscribed", false)

	root := f.Root("checkbox_root", "main")
	card := f.Card("checkbox_card").Title("Newsletter").Padding(20)
	card.Add(f.Checkbox("subscribe_checkbox").
		Label("Subscribe to the newsletter").
		Checked(subscribed))
	card.Add(f.Label("subscribe_status").Text(subscribeText(subscribed)))
	root.Add(card)
	return root, nil
}

func (s *CheckboxDemo) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"toggle_subscribe": s.onToggleSubscribe}
}

func (s *CheckboxDemo) Bindings() []engine.Binding {
	return []engine.Binding{
		{Name: "subscribe_checkbox"},
		{Name: "subscribe_status"},
	}
}

func (s *CheckboxDemo) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_subscribed": false}
}

func (s *CheckboxDemo) onToggleSubscribe(_ context.Context, ec *engine.EventContext) error {
	subscribed := ec.ParamBool("checked", false)
	ec.State["store_subscribed"] = subscribed
	ec.Node("subscribe_checkbox").Set("checked", subscribed)
	ec.Node("subscribe_status").Set("text", subscribeText(subscribed))
	return nil
}

func subscribeText(subscribed bool) string {
	if subscribed {
		return "You are subscribed."
	}
	return "You are not subscribed."
}
