// Package nodeid provides deterministic component identity and the reverse
// index that routes an incoming event (which names only a component id) back
// to the service that owns it.
package nodeid

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// Generator mints component ids for one service during one tree build.
// Ids are deterministic: the same (service, name) pair always yields the same
// id, across requests and across processes. A Generator is request-scoped;
// create one per build and thread it through construction.
type Generator struct {
	service string
	seq     map[string]int
}

// NewGenerator returns a generator scoped to the given service name.
func NewGenerator(service string) *Generator {
	return &Generator{
		service: service,
		seq:     make(map[string]int),
	}
}

// Service returns the service name this generator is scoped to.
func (g *Generator) Service() string {
	return g.service
}

// ID derives the id for a named component. Same inputs, same id;
// a different service never collides on the same name.
func (g *Generator) ID(name string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(g.service))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(name))
	// Fold to a positive 31-bit value so ids survive JSON number round-trips
	// and fit the wire contract (component_id is an int).
	sum := h.Sum64()
	return int((sum ^ sum>>31) & 0x7fffffff)
}

// Anonymous names an unnamed component of the given type. The sequence is
// per-generator, so build order alone determines the synthetic name, which
// keeps anonymous ids stable as long as the build is deterministic.
func (g *Generator) Anonymous(typ string) string {
	g.seq[typ]++
	return fmt.Sprintf("%s_%d", typ, g.seq[typ])
}

// Registry maps component ids back to the owning service. The engine
// repopulates it from the snapshot on every reconstruction, so routing
// survives process restarts as long as the cache entry does.
type Registry struct {
	mu sync.RWMutex
	m  map[int]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[int]string)}
}

// Register records that id belongs to service. Later registrations of the
// same id overwrite earlier ones.
func (r *Registry) Register(id int, service string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[id] = service
}

// ServiceFor resolves the owning service for a component id.
func (r *Registry) ServiceFor(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.m[id]
	return s, ok
}

// Reset drops every registration. Used by tests and full cache resets.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = make(map[int]string)
}
