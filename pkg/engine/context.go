package engine

import (
	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
)

// EventContext carries everything a handler may touch during one request:
// the live tree, the bound named nodes, the client-held state bag and the
// side-effect collector. It replaces field injection with explicit lookup.
type EventContext struct {
	// Session identifies the client; snapshots are cached per session.
	Session string
	// Action is the wire action being dispatched; empty on screen loads.
	Action string
	// Trigger is the client event that fired ("click", "change", "load").
	Trigger string
	// Params are the free-form event parameters.
	Params map[string]any
	// State is the client-held bag, already filtered to the service's
	// declared fields. Handlers mutate it in place; the engine re-encrypts
	// it into the response.
	State clientstate.Bag
	// Changes collects side-effect commands.
	Changes *Changes
	// Tree is the live reconstructed tree. Handlers may mutate any node.
	Tree *component.Tree
	// UI mints nodes with the owning service's deterministic ids, for
	// handlers that grow the tree (table rows and the like).
	UI *component.Factory

	service string
	nodes   map[string]component.Node
	modal   component.Snapshot
}

// ServiceName is the owning service's identity.
func (ec *EventContext) ServiceName() string { return ec.service }

// Node returns a bound named node. Bindings are validated during context
// load, so a declared required binding is always non-nil here; optional
// bindings may return nil.
func (ec *EventContext) Node(name string) component.Node {
	return ec.nodes[name]
}

// ShowModal attaches an ephemeral dialog tree to the response. The dialog's
// full tree rides along with the diff; it is never cached, so its action
// buttons must carry the caller's service id for routing.
func (ec *EventContext) ShowModal(root component.Node) {
	ec.modal = component.Flatten(root)
}

// ParamString reads a string event parameter.
func (ec *EventContext) ParamString(key, def string) string {
	if v, ok := ec.Params[key].(string); ok {
		return v
	}
	return def
}

// ParamInt reads an int event parameter. JSON numbers decode as float64, so
// both shapes are accepted.
func (ec *EventContext) ParamInt(key string, def int) int {
	switch v := ec.Params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// ParamBool reads a bool event parameter.
func (ec *EventContext) ParamBool(key string, def bool) bool {
	if v, ok := ec.Params[key].(bool); ok {
		return v
	}
	return def
}
