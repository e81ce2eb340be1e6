// Package engine orchestrates the event lifecycle: load the cached tree,
// invoke the handler, diff the mutation, persist, respond. One request is
// one synchronous pass; concurrent events on the same service race on the
// cache with last-writer-wins semantics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/diff"
	"github.com/idei-labs/usim/pkg/nodeid"
	"github.com/idei-labs/usim/pkg/state"
)

// CallerServiceKey is the event parameter carrying the modal indirection
// target: when present, routing resolves the handler from this id instead of
// the clicked component's id.
const CallerServiceKey = "_caller_service_id"

// Event is one incoming UI event.
type Event struct {
	ComponentID int
	Trigger     string
	Action      string
	Params      map[string]any
}

// Result is the merged outcome of one lifecycle pass: per-node diff entries
// plus side-effect commands in Payload, and the harvested client-held state.
type Result struct {
	Payload map[string]any
	State   clientstate.Bag
}

// Recorder observes one lifecycle pass for tracing and RED metrics. The
// returned finish func receives the pass outcome.
type Recorder interface {
	TrackDispatch(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error))
}

// Engine wires services, the snapshot store and the id registry together.
type Engine struct {
	mu       sync.RWMutex
	services map[string]Service
	themes   map[string]component.Theme

	store    *state.Store
	registry *nodeid.Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRecorder routes every Dispatch and LoadScreen pass through the given
// recorder instead of the bare tracer.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine over the given snapshot store.
func New(store *state.Store, opts ...Option) *Engine {
	e := &Engine{
		services: make(map[string]Service),
		themes:   make(map[string]component.Theme),
		store:    store,
		registry: nodeid.NewRegistry(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("usim/engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetTheme registers a deployment profile overlay for a screen, applied
// whenever that screen's tree is built fresh.
func (e *Engine) SetTheme(screen string, theme component.Theme) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.themes[screen] = theme
}

func (e *Engine) theme(screen string) (component.Theme, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	theme, ok := e.themes[screen]
	return theme, ok
}

// Register adds a service. Names must be unique.
func (e *Engine) Register(svc Service) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.services[svc.Name()]; ok {
		return fmt.Errorf("service %q already registered", svc.Name())
	}
	e.services[svc.Name()] = svc
	return nil
}

// Service looks a registered service up by name.
func (e *Engine) Service(name string) (Service, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	svc, ok := e.services[name]
	return svc, ok
}

// Registry exposes the component-id reverse index.
func (e *Engine) Registry() *nodeid.Registry {
	return e.registry
}

// Dispatch runs one event through the lifecycle: resolve the owning service
// (honoring modal caller indirection), load or build its tree, invoke the
// handler, persist the mutated snapshot and return the diff plus side
// effects. A failed handler persists nothing; the last stored snapshot stays
// authoritative.
func (e *Engine) Dispatch(ctx context.Context, session string, ev Event, bag clientstate.Bag) (res *Result, err error) {
	ctx, done := e.track(ctx, "engine.dispatch",
		attribute.String("ui.action", ev.Action),
		attribute.Int("ui.component_id", ev.ComponentID),
	)
	defer func() { done(err) }()

	targetID := ev.ComponentID
	if caller, ok := paramInt(ev.Params[CallerServiceKey]); ok {
		targetID = caller
	}
	serviceName, ok := e.registry.ServiceFor(targetID)
	if !ok {
		return nil, NotFoundf("no service owns component %d", targetID)
	}
	svc, ok := e.Service(serviceName)
	if !ok {
		return nil, NotFoundf("service %q is not registered", serviceName)
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("ui.service", serviceName))

	ec, preSnap, err := e.loadContext(ctx, svc, session, ev, bag)
	if err != nil {
		return nil, err
	}

	handler, ok := svc.Handlers()[ev.Action]
	if !ok {
		return nil, NotFoundf("unknown action %q on %s (no %s handler registered)",
			ev.Action, serviceName, HandlerName(ev.Action))
	}

	if err := e.invoke(ctx, ec, handler); err != nil {
		return nil, err
	}

	postSnap := component.Flatten(ec.Tree.Root)
	if err := e.store.Store(ctx, svc.Name(), session, postSnap); err != nil {
		return nil, fmt.Errorf("persist snapshot for %s: %w", svc.Name(), err)
	}

	return e.respond(ec, diff.Compare(preSnap, postSnap), postSnap), nil
}

// LoadScreen runs the full-reload path: build or load the screen's tree,
// run its PostLoad hook and emit the entire tree as a diff against empty.
// Reload responses are not persisted; the next event rebuilds from the same
// deterministic inputs.
func (e *Engine) LoadScreen(ctx context.Context, session, screen string, reset bool, bag clientstate.Bag) (res *Result, err error) {
	ctx, done := e.track(ctx, "engine.load_screen",
		attribute.String("ui.screen", screen),
		attribute.Bool("ui.reset", reset),
	)
	defer func() { done(err) }()

	svc, ok := e.Service(screen)
	if !ok {
		return nil, NotFoundf("unknown screen %q", screen)
	}

	if reset {
		if err := e.store.Clear(ctx, svc.Name(), session); err != nil {
			return nil, fmt.Errorf("reset snapshot for %s: %w", svc.Name(), err)
		}
	}

	ec, _, err := e.loadContext(ctx, svc, session, Event{Trigger: "load"}, bag)
	if err != nil {
		return nil, err
	}

	if pl, ok := svc.(PostLoader); ok {
		if err := e.invoke(ctx, ec, pl.PostLoad); err != nil {
			return nil, err
		}
	}

	postSnap := component.Flatten(ec.Tree.Root)
	return e.respond(ec, diff.Compare(component.Snapshot{}, postSnap), postSnap), nil
}

// loadContext performs the ContextLoaded phase: fetch or build the tree,
// repopulate the id registry, snapshot the pre-mutation state and bind the
// declared nodes and client-state fields.
func (e *Engine) loadContext(ctx context.Context, svc Service, session string, ev Event, bag clientstate.Bag) (*EventContext, component.Snapshot, error) {
	picked := clientstate.Pick(svc.StateDefaults(), bag)

	tree, err := e.loadTree(ctx, svc, session, picked)
	if err != nil {
		return nil, nil, err
	}
	for id := range tree.Nodes {
		e.registry.Register(id, svc.Name())
	}

	preSnap := component.Flatten(tree.Root)

	ec := &EventContext{
		Session: session,
		Action:  ev.Action,
		Trigger: ev.Trigger,
		Params:  ev.Params,
		State:   picked,
		Changes: NewChanges(),
		Tree:    tree,
		UI:      component.NewFactory(nodeid.NewGenerator(svc.Name())),
		service: svc.Name(),
		nodes:   make(map[string]component.Node),
	}

	for _, b := range svc.Bindings() {
		n := tree.FindByName(b.Name)
		if n == nil {
			if b.Optional {
				continue
			}
			e.logger.Error("required binding has no matching node",
				"service", svc.Name(), "binding", b.Name,
				"cache_key", state.Key(svc.Name(), session))
			return nil, nil, ContractViolationf("binding %q has no matching node in %s", b.Name, svc.Name())
		}
		ec.nodes[b.Name] = n
	}

	return ec, preSnap, nil
}

// loadTree returns the live tree: reconstructed from the cached snapshot
// when one exists, built fresh through the service's BuildUI otherwise. A
// corrupted cache entry is a contract violation, never silently skipped.
func (e *Engine) loadTree(ctx context.Context, svc Service, session string, bag clientstate.Bag) (*component.Tree, error) {
	snap, err := e.store.Get(ctx, svc.Name(), session)
	if err != nil {
		if !errors.Is(err, state.ErrNotFound) {
			return nil, fmt.Errorf("load snapshot for %s: %w", svc.Name(), err)
		}
		f := component.NewFactory(nodeid.NewGenerator(svc.Name()))
		root, err := svc.BuildUI(f, bag)
		if err != nil {
			return nil, fmt.Errorf("build ui for %s: %w", svc.Name(), err)
		}
		if theme, ok := e.theme(svc.Name()); ok {
			component.ApplyTheme(root, theme)
		}
		snap = component.Flatten(root)
	}

	// Reconstruct on both paths so PostConnect has always run before the
	// pre-mutation snapshot is taken; derived keys (a table's total_pages)
	// would otherwise show up as phantom diffs on the first event.
	tree, err := component.Reconstruct(snap)
	if err != nil {
		e.logger.Error("snapshot reconstruction failed",
			"service", svc.Name(),
			"cache_key", state.Key(svc.Name(), session),
			"error", err)
		return nil, &Error{
			Kind:    KindContractViolation,
			Message: fmt.Sprintf("snapshot for %s is not reconstructable", svc.Name()),
			Err:     err,
		}
	}
	return tree, nil
}

// track opens one observed lifecycle pass: through the recorder when one is
// configured (span plus RED metrics), through the bare tracer otherwise.
func (e *Engine) track(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if e.recorder != nil {
		return e.recorder.TrackDispatch(ctx, name, attrs...)
	}
	ctx, span := e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

// invoke runs a handler with panic containment. Errors that are not already
// engine errors are classified as handler failures.
func (e *Engine) invoke(ctx context.Context, ec *EventContext, h HandlerFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("handler panicked",
				"service", ec.ServiceName(), "action", ec.Action,
				"panic", r, "stack", string(debug.Stack()))
			err = &Error{
				Kind:    KindHandlerFailure,
				Message: fmt.Sprintf("handler for %q panicked", ec.Action),
			}
		}
	}()

	if herr := h(ctx, ec); herr != nil {
		var ee *Error
		if errors.As(herr, &ee) {
			return ee
		}
		e.logger.Error("handler failed",
			"service", ec.ServiceName(), "action", ec.Action, "error", herr)
		return HandlerFailed(ec.Action, herr)
	}
	return nil
}

// respond merges the diff entries, any ephemeral modal tree and the
// side-effect commands into one payload, and sanitizes the state bag for
// the round trip back to the client.
func (e *Engine) respond(ec *EventContext, changed map[int]component.Record, snap component.Snapshot) *Result {
	payload := make(map[string]any, len(changed)+len(ec.modal)+2)
	for id, rec := range changed {
		payload[strconv.Itoa(id)] = diffEntry(id, rec, snap[id])
	}
	for id, rec := range ec.modal {
		payload[strconv.Itoa(id)] = diffEntry(id, rec, rec)
	}
	ec.Changes.Merge(payload)
	return &Result{Payload: payload, State: ec.State.Sanitize()}
}

// diffEntry shapes one per-node response entry: the changed keys plus _id
// and the node's type, so the renderer can dispatch without a second lookup.
func diffEntry(id int, rec component.Record, full component.Record) map[string]any {
	entry := make(map[string]any, len(rec)+2)
	for k, v := range rec {
		entry[k] = v
	}
	entry["_id"] = id
	if typ, ok := full["type"]; ok {
		entry["type"] = typ
	}
	return entry
}

func paramInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
