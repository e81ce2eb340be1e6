package screens

import (
	"context"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

// ButtonDemo toggles a button's own label between on and off.
type ButtonDemo struct{}

// NewButtonDemo returns the button screen.
func NewButtonDemo() *ButtonDemo { return &ButtonDemo{} }

func (s *ButtonDemo) Name() string { return "button-demo" }

func (s *ButtonDemo) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	root := f.Root("button_root", "main")
	card := f.Card("button_card").Title("Buttons").Padding(20)
	card.Add(f.Label("toggle_status").Text(toggleText(bag.Bool("store_enabled", false))))
	card.Add(f.Button("toggle_button").
		Label("Toggle").
		Style(toggleStyle(bag.Bool("store_enabled", false))).
		Action("toggle_button"))
	root.Add(card)
	return root, nil
}

func (s *ButtonDemo) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"toggle_button": s.onToggleButton}
}

func (s *ButtonDemo) Bindings() []engine.Binding {
	return []engine.Binding{
		{Name: "toggle_status"},
		{Name: "toggle_button"},
	}
}

func (s *ButtonDemo) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_enabled": false}
}

func (s *ButtonDemo) onToggleButton(_ context.Context, ec *engine.EventContext) error {
	enabled := !ec.State.Bool("store_enabled", false)
	ec.State["store_enabled"] = enabled
	ec.Node("toggle_status").Set("text", toggleText(enabled))
	ec.Node("toggle_button").Set("style", toggleStyle(enabled))
	return nil
}

func toggleText(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}

func toggleStyle(enabled bool) string {
	if enabled {
		return "success"
	}
	return "default"
}
