package screens

import (
	"context"
	"strconv"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

const counterStart = 1000

// Counter is the canonical demo: a number held in client state, shown in a
// label, moved by increment/decrement buttons.
type Counter struct{}

// NewCounter returns the counter screen.
func NewCounter() *Counter { return &Counter{} }

func (s *Counter) Name() string { return "counter-demo" }

func (s *Counter) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	count := bag.Int("store_counter", counterStart)

	root := f.Root("counter_root", "main")
	card := f.Card("counter_card").Title("Counter").Padding(20)
	card.Add(f.Label("counter_label").
		Text(strconv.Itoa(count)).
		Style(counterStyle(count)))

	buttons := f.Container("counter_buttons").
		Layout(component.LayoutHorizontal).
		Gap("10px")
	buttons.Add(f.Button("decrement_button").Label("-").Action("decrement_counter"))
	buttons.Add(f.Button("increment_button").Label("+").Action("increment_counter"))
	buttons.Add(f.Button("reset_button").Label("Reset").Variant("outlined").Action("reset_counter"))
	card.Add(buttons)

	root.Add(card)
	return root, nil
}

func (s *Counter) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{
		"increment_counter": s.onIncrementCounter,
		"decrement_counter": s.onDecrementCounter,
		"reset_counter":     s.onResetCounter,
	}
}

func (s *Counter) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "counter_label"}}
}

func (s *Counter) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_counter": counterStart}
}

func (s *Counter) onIncrementCounter(_ context.Context, ec *engine.EventContext) error {
	return s.setCount(ec, ec.State.Int("store_counter", counterStart)+1)
}

func (s *Counter) onDecrementCounter(_ context.Context, ec *engine.EventContext) error {
	return s.setCount(ec, ec.State.Int("store_counter", counterStart)-1)
}

func (s *Counter) onResetCounter(_ context.Context, ec *engine.EventContext) error {
	ec.Changes.Toast("Counter reset", "info", 2000)
	return s.setCount(ec, counterStart)
}

func (s *Counter) setCount(ec *engine.EventContext, count int) error {
	ec.State["store_counter"] = count
	label := ec.Node("counter_label")
	label.Set("text", strconv.Itoa(count))
	label.Set("style", counterStyle(count))
	return nil
}

// counterStyle colors the label by distance from the starting value.
func counterStyle(count int) string {
	switch {
	case count < counterStart:
		return "danger"
	case count >= counterStart+10:
		return "success"
	default:
		return "default"
	}
}
