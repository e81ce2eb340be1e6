package engine_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/nodeid"
	"github.com/idei-labs/usim/pkg/state"
)

// counterService is the canonical demo: a label showing a number held in
// client state, and a button that increments it.
type counterService struct{}

func (s *counterService) Name() string { return "counter-demo" }

func (s *counterService) BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error) {
	root := f.Root("counter_root", "main")
	root.Add(f.Label("counter_label").Text(strconv.Itoa(bag.Int("store_counter", 1000))))
	root.Add(f.Button("increment_button").Label("+").Action("increment_counter"))
	return root, nil
}

func (s *counterService) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{
		"increment_counter": s.onIncrementCounter,
		"panic_please":      func(context.Context, *engine.EventContext) error { panic("boom") },
		"fail_please": func(context.Context, *engine.EventContext) error {
			return errors.New("database exploded")
		},
	}
}

func (s *counterService) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "counter_label"}}
}

func (s *counterService) StateDefaults() clientstate.Bag {
	return clientstate.Bag{"store_counter": 1000}
}

func (s *counterService) onIncrementCounter(_ context.Context, ec *engine.EventContext) error {
	count := ec.State.Int("store_counter", 1000) + 1
	ec.State["store_counter"] = count
	ec.Node("counter_label").Set("text", strconv.Itoa(count))
	return nil
}

// formService validates a submitted name and reports errors through the
// input node's error config key.
type formService struct{}

func (s *formService) Name() string { return "form-demo" }

func (s *formService) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	root := f.Root("form_root", "main")
	form := f.Form("signup_form")
	form.Add(f.Input("input_name").Label("Name").Required(true))
	form.Add(f.Button("submit_button").Label("Submit").Action("submit_form"))
	root.Add(form)
	return root, nil
}

func (s *formService) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"submit_form": s.onSubmitForm}
}

func (s *formService) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "input_name"}}
}

func (s *formService) StateDefaults() clientstate.Bag { return nil }

func (s *formService) onSubmitForm(_ context.Context, ec *engine.EventContext) error {
	if ec.ParamString("name", "") == "" {
		ec.Node("input_name").Set("error", "Name is required")
		return nil
	}
	ec.Node("input_name").Set("error", nil)
	ec.Changes.Toast("Saved", "success", 3000)
	return nil
}

// modalHostService opens a confirm dialog whose buttons route back to it via
// caller indirection; confirmed holds whether the handler ran.
type modalHostService struct {
	confirmed bool
}

func (s *modalHostService) Name() string { return "modal-demo" }

func (s *modalHostService) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	root := f.Root("modal_root", "main")
	root.Add(f.Button("open_button").Label("Delete").Action("open_confirm_dialog"))
	return root, nil
}

func (s *modalHostService) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{
		"open_confirm_dialog": s.onOpenConfirmDialog,
		"confirm_delete":      s.onConfirmDelete,
	}
}

func (s *modalHostService) Bindings() []engine.Binding      { return nil }
func (s *modalHostService) StateDefaults() clientstate.Bag { return nil }

func (s *modalHostService) onOpenConfirmDialog(_ context.Context, ec *engine.EventContext) error {
	callerID := ec.Tree.Root.ID()
	f := component.NewFactory(nodeid.NewGenerator("confirm-dialog"))
	dialog := f.Root("dialog_root", "modal")
	dialog.Add(f.Label("dialog_text").Text("Are you sure?"))
	dialog.Add(f.Button("confirm_button").Label("Yes").
		Action("confirm_delete").CallerServiceID(callerID))
	ec.ShowModal(dialog)
	return nil
}

func (s *modalHostService) onConfirmDelete(_ context.Context, ec *engine.EventContext) error {
	s.confirmed = true
	ec.Changes.CloseModal()
	ec.Changes.Toast("Deleted", "success", 3000)
	return nil
}

// brokenService declares a binding its tree never satisfies.
type brokenService struct{}

func (s *brokenService) Name() string { return "broken-demo" }

func (s *brokenService) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	return f.Root("broken_root", "main"), nil
}

func (s *brokenService) Handlers() map[string]engine.HandlerFunc { return nil }

func (s *brokenService) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "ghost_node"}}
}

func (s *brokenService) StateDefaults() clientstate.Bag { return nil }

func newEngine(t *testing.T, services ...engine.Service) *engine.Engine {
	t.Helper()
	e := engine.New(state.New(state.NewMemoryBackend()))
	for _, svc := range services {
		require.NoError(t, e.Register(svc))
	}
	return e
}

func nodeID(service, name string) int {
	return nodeid.NewGenerator(service).ID(name)
}

func entryFor(t *testing.T, payload map[string]any, id int) map[string]any {
	t.Helper()
	entry, ok := payload[strconv.Itoa(id)].(map[string]any)
	require.True(t, ok, "payload has no entry for node %d", id)
	return entry
}

func TestLoadScreen_InitialPaint(t *testing.T) {
	e := newEngine(t, &counterService{})
	ctx := context.Background()

	res, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)

	label := entryFor(t, res.Payload, nodeID("counter-demo", "counter_label"))
	assert.Equal(t, "1000", label["text"])
	assert.Equal(t, "label", label["type"])
	assert.Equal(t, 1000, res.State.Int("store_counter", 0))
}

func TestDispatch_CounterScenario(t *testing.T) {
	e := newEngine(t, &counterService{})
	ctx := context.Background()
	labelID := nodeID("counter-demo", "counter_label")
	buttonID := nodeID("counter-demo", "increment_button")

	res, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)
	bag := res.State

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "increment_counter",
	}, bag)
	require.NoError(t, err)

	// Exactly one node changed, with exactly its text key plus _id and type.
	require.Len(t, res.Payload, 1)
	label := entryFor(t, res.Payload, labelID)
	assert.Equal(t, "1001", label["text"])
	assert.Equal(t, labelID, label["_id"])
	assert.Equal(t, "label", label["type"])
	bag = res.State

	for i := 0; i < 9; i++ {
		res, err = e.Dispatch(ctx, "sess-1", engine.Event{
			ComponentID: buttonID, Trigger: "click", Action: "increment_counter",
		}, bag)
		require.NoError(t, err)
		bag = res.State
	}
	label = entryFor(t, res.Payload, labelID)
	assert.Equal(t, "1010", label["text"])
	assert.Equal(t, 1010, bag.Int("store_counter", 0))
}

func TestDispatch_FormValidationScenario(t *testing.T) {
	e := newEngine(t, &formService{})
	ctx := context.Background()

	_, err := e.LoadScreen(ctx, "sess-1", "form-demo", false, nil)
	require.NoError(t, err)

	res, err := e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("form-demo", "submit_button"),
		Trigger:     "click",
		Action:      "submit_form",
		Params:      map[string]any{"name": ""},
	}, nil)
	require.NoError(t, err)

	input := entryFor(t, res.Payload, nodeID("form-demo", "input_name"))
	assert.NotEmpty(t, input["error"])
	assert.NotContains(t, res.Payload, "action")
	assert.NotContains(t, res.Payload, "redirect")
}

func TestDispatch_ModalIndirection(t *testing.T) {
	host := &modalHostService{}
	e := newEngine(t, host)
	ctx := context.Background()

	_, err := e.LoadScreen(ctx, "sess-1", "modal-demo", false, nil)
	require.NoError(t, err)

	res, err := e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("modal-demo", "open_button"),
		Trigger:     "click",
		Action:      "open_confirm_dialog",
	}, nil)
	require.NoError(t, err)

	// The dialog tree rides along with the diff, full records included.
	confirmID := nodeID("confirm-dialog", "confirm_button")
	confirm := entryFor(t, res.Payload, confirmID)
	params, ok := confirm["action_params"].(map[string]any)
	require.True(t, ok)
	callerID, ok := params[engine.CallerServiceKey].(int)
	require.True(t, ok)

	// The dialog's own service was never registered or cached; dispatching
	// its button with the caller id resolves the host's handler.
	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: confirmID,
		Trigger:     "click",
		Action:      "confirm_delete",
		Params:      map[string]any{engine.CallerServiceKey: callerID},
	}, nil)
	require.NoError(t, err)
	assert.True(t, host.confirmed)
	assert.Equal(t, "close_modal", res.Payload["action"])
}

func TestLoadScreen_ResetScenario(t *testing.T) {
	e := newEngine(t, &counterService{})
	ctx := context.Background()
	labelID := nodeID("counter-demo", "counter_label")
	buttonID := nodeID("counter-demo", "increment_button")

	res, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)
	bag := res.State

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "increment_counter",
	}, bag)
	require.NoError(t, err)

	// Reset discards the cached snapshot and the client state defaults win
	// again: the label is back at 1000 with the complete tree emitted.
	res, err = e.LoadScreen(ctx, "sess-1", "counter-demo", true, nil)
	require.NoError(t, err)
	label := entryFor(t, res.Payload, labelID)
	assert.Equal(t, "1000", label["text"])
	assert.Contains(t, res.Payload, strconv.Itoa(buttonID))
}

func TestDispatch_UnknownComponent(t *testing.T) {
	e := newEngine(t, &counterService{})

	_, err := e.Dispatch(context.Background(), "sess-1", engine.Event{
		ComponentID: 123456789, Trigger: "click", Action: "increment_counter",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, engine.KindNotFound, engine.KindOf(err))
}

func TestDispatch_UnknownAction(t *testing.T) {
	e := newEngine(t, &counterService{})
	ctx := context.Background()

	_, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)

	_, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("counter-demo", "increment_button"),
		Trigger:     "click",
		Action:      "self_destruct",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, engine.KindNotFound, engine.KindOf(err))
}

func TestDispatch_HandlerPanicIsContained(t *testing.T) {
	e := newEngine(t, &counterService{})
	ctx := context.Background()

	_, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)

	_, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("counter-demo", "increment_button"),
		Trigger:     "click",
		Action:      "panic_please",
	}, nil)
	require.Error(t, err)
	assert.Equal(t, engine.KindHandlerFailure, engine.KindOf(err))
}

// A failed handler persists nothing: the last stored snapshot stays
// authoritative and the next event sees pre-failure state.
func TestDispatch_FailedHandlerDoesNotPersist(t *testing.T) {
	e := newEngine(t, &counterService{})
	ctx := context.Background()
	labelID := nodeID("counter-demo", "counter_label")
	buttonID := nodeID("counter-demo", "increment_button")

	res, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)
	bag := res.State

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "increment_counter",
	}, bag)
	require.NoError(t, err)
	bag = res.State

	_, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "fail_please",
	}, bag)
	require.Error(t, err)

	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: buttonID, Trigger: "click", Action: "increment_counter",
	}, bag)
	require.NoError(t, err)
	label := entryFor(t, res.Payload, labelID)
	assert.Equal(t, "1002", label["text"])
}

func TestLoadScreen_MissingBindingIsContractViolation(t *testing.T) {
	e := newEngine(t, &brokenService{})

	_, err := e.LoadScreen(context.Background(), "sess-1", "broken-demo", false, nil)
	require.Error(t, err)
	assert.Equal(t, engine.KindContractViolation, engine.KindOf(err))
}

func TestLoadScreen_UnknownScreen(t *testing.T) {
	e := newEngine(t)

	_, err := e.LoadScreen(context.Background(), "sess-1", "nope", false, nil)
	require.Error(t, err)
	assert.Equal(t, engine.KindNotFound, engine.KindOf(err))
}

func TestRegister_RejectsDuplicate(t *testing.T) {
	e := newEngine(t, &counterService{})
	assert.Error(t, e.Register(&counterService{}))
}

func TestLoadScreen_ThemeOverlay(t *testing.T) {
	e := newEngine(t, &counterService{})
	e.SetTheme("counter-demo", component.Theme{
		MaxWidth: "640px",
		Padding:  24,
		Defaults: map[string]any{"banner": "Welcome"},
	})
	ctx := context.Background()

	res, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)

	root := entryFor(t, res.Payload, nodeID("counter-demo", "counter_root"))
	assert.Equal(t, "640px", root["max_width"])
	assert.Equal(t, 24, root["padding"])
	assert.Equal(t, "Welcome", root["banner"])

	// Themed values are part of the fresh build, not a mutation: the first
	// event diffs only the node the handler touched.
	res, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: nodeID("counter-demo", "increment_button"),
		Trigger:     "click", Action: "increment_counter",
	}, res.State)
	require.NoError(t, err)
	require.Len(t, res.Payload, 1)
}

// passRecorder captures the lifecycle passes the engine reports.
type passRecorder struct {
	names []string
	errs  []error
}

func (r *passRecorder) TrackDispatch(ctx context.Context, name string, _ ...attribute.KeyValue) (context.Context, func(error)) {
	r.names = append(r.names, name)
	return ctx, func(err error) { r.errs = append(r.errs, err) }
}

func TestEngine_RecorderObservesEveryPass(t *testing.T) {
	rec := &passRecorder{}
	e := engine.New(state.New(state.NewMemoryBackend()), engine.WithRecorder(rec))
	require.NoError(t, e.Register(&counterService{}))
	ctx := context.Background()

	_, err := e.LoadScreen(ctx, "sess-1", "counter-demo", false, nil)
	require.NoError(t, err)

	_, err = e.Dispatch(ctx, "sess-1", engine.Event{
		ComponentID: 424242, Trigger: "click", Action: "increment_counter",
	}, nil)
	require.Error(t, err)

	require.Equal(t, []string{"engine.load_screen", "engine.dispatch"}, rec.names)
	require.Len(t, rec.errs, 2)
	assert.NoError(t, rec.errs[0])
	assert.Error(t, rec.errs[1])
}

func TestNaming_RoundTrip(t *testing.T) {
	assert.Equal(t, "OnSubmitForm", engine.HandlerName("submit_form"))
	assert.Equal(t, "OnIncrementCounter", engine.HandlerName("increment_counter"))
	assert.Equal(t, "submit_form", engine.ActionName("OnSubmitForm"))
}
