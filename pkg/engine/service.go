package engine

import (
	"context"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
)

// HandlerFunc is one event handler. It mutates the tree through the event
// context and pushes side effects into the changes collector; business-level
// failures (bad input, missing records) are surfaced as tree content or
// toasts, not as returned errors.
type HandlerFunc func(ctx context.Context, ec *EventContext) error

// Service is one screen definition: it owns one component tree and the
// handlers for the events that tree emits.
type Service interface {
	// Name is the stable service identity used for cache keys, id
	// generation and screen routing. Kebab-case by convention.
	Name() string

	// BuildUI constructs the tree from scratch. Called on a cold cache or
	// after a reset; the bag holds the client-held state fields so initial
	// renders reflect what the client last saw.
	BuildUI(f *component.Factory, bag clientstate.Bag) (component.Parent, error)

	// Handlers is the action table: wire action name to handler. A lookup
	// miss is a NotFound, never a fatal error.
	Handlers() map[string]HandlerFunc

	// Bindings declares the named nodes the handlers expect to address. A
	// required binding with no matching node aborts the request before any
	// handler runs.
	Bindings() []Binding

	// StateDefaults declares the client-held state fields with their
	// defaults. Only declared fields round-trip; everything else in the
	// incoming bag is dropped.
	StateDefaults() clientstate.Bag
}

// Binding declares one named-node dependency of a service's handlers.
type Binding struct {
	Name     string
	Optional bool
}

// PostLoader is implemented by services that must revalidate their tree on a
// full reload, for server-side state that may have changed since the
// snapshot was cached (auth state swapping a menu, for instance).
type PostLoader interface {
	PostLoad(ctx context.Context, ec *EventContext) error
}
