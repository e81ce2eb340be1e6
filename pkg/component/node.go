package component

// Node is the polymorphic tree node. Concrete builders (Label, Button,
// Container, ...) embed the shared base and add fluent config setters.
type Node interface {
	ID() int
	Type() Type
	Name() string
	// ParentID is the owning node's id; zero for a root node, whose parent
	// is the external mount point instead.
	ParentID() int
	// Mount is the external mount-point name ("main", "modal", "menu").
	// Only meaningful on the root node.
	Mount() string
	IsRoot() bool
	IsContainer() bool
	// Get reads a config key, returning def when absent.
	Get(key string, def any) any
	// Set writes a config key. Handlers mutate nodes through this (or the
	// typed fluent setters, which delegate here).
	Set(key string, value any)
	Config() map[string]any
	// Serialize flattens the node to its wire record. Deserialize is the
	// exact inverse; round-trip equality is a core invariant.
	Serialize() Record
	// PostConnect runs after the whole tree is wired, for nodes that need
	// cross-references (a table sizing itself to its container, etc.).
	PostConnect()

	attach(parentID int)
	restore(rec Record)
}

// Parent is the container capability: ordered children plus tree surgery.
type Parent interface {
	Node
	ConnectChild(child Node)
	Children() []Node
	Clear()
	FindByName(name string) Node
}

type base struct {
	id       int
	typ      Type
	name     string
	parentID int
	mount    string
	root     bool
	config   map[string]any
}

func newBase(id int, typ Type, name string, defaults map[string]any) base {
	cfg := make(map[string]any, len(defaults))
	for k, v := range defaults {
		cfg[k] = v
	}
	return base{id: id, typ: typ, name: name, config: cfg}
}

func (b *base) ID() int            { return b.id }
func (b *base) Type() Type         { return b.typ }
func (b *base) Name() string       { return b.name }
func (b *base) ParentID() int      { return b.parentID }
func (b *base) Mount() string      { return b.mount }
func (b *base) IsRoot() bool       { return b.root }
func (b *base) IsContainer() bool  { return false }
func (b *base) PostConnect()       {}
func (b *base) attach(parentID int) {
	b.parentID = parentID
}

func (b *base) Get(key string, def any) any {
	if v, ok := b.config[key]; ok {
		return v
	}
	return def
}

func (b *base) Set(key string, value any) {
	b.config[key] = value
}

func (b *base) Config() map[string]any { return b.config }

func (b *base) Serialize() Record {
	rec := make(Record, len(b.config)+4)
	for k, v := range b.config {
		rec[k] = v
	}
	rec[keyType] = string(b.typ)
	if b.root {
		rec[keyRoot] = true
		rec[keyParent] = b.mount
	} else {
		rec[keyParent] = b.parentID
	}
	if b.name != "" {
		rec[keyName] = b.name
	}
	return rec
}

// restore rebuilds the base fields from a record, leaving the remaining keys
// as config. The inverse of Serialize.
func (b *base) restore(rec Record) {
	b.config = make(map[string]any, len(rec))
	for k, v := range rec {
		switch k {
		case keyType, keyParent, keyName, keyRoot, keyChildren:
			continue
		}
		b.config[k] = v
	}
	if name, ok := rec[keyName].(string); ok {
		b.name = name
	}
	if root, ok := rec[keyRoot].(bool); ok && root {
		b.root = true
		if mount, ok := rec[keyParent].(string); ok {
			b.mount = mount
		}
		return
	}
	if pid, ok := asInt(rec[keyParent]); ok {
		b.parentID = pid
	}
}

// containerBase extends base with ordered children. Card, Form, Table and the
// row types reuse it; they serialize a "children" list like plain containers.
type containerBase struct {
	base
	children []Node
}

func (c *containerBase) IsContainer() bool { return true }

// ConnectChild appends a child and points its parent reference here. Used
// both by the fluent Add methods and by snapshot reconstruction.
func (c *containerBase) ConnectChild(child Node) {
	child.attach(c.id)
	c.children = append(c.children, child)
}

func (c *containerBase) Children() []Node { return c.children }

func (c *containerBase) Clear() { c.children = nil }

// FindByName searches this subtree for a node with the given logical name.
func (c *containerBase) FindByName(name string) Node {
	for _, child := range c.children {
		if child.Name() == name {
			return child
		}
		if p, ok := child.(Parent); ok {
			if found := p.FindByName(name); found != nil {
				return found
			}
		}
	}
	return nil
}

func (c *containerBase) Serialize() Record {
	rec := c.base.Serialize()
	ids := make([]int, len(c.children))
	for i, child := range c.children {
		ids[i] = child.ID()
	}
	rec[keyChildren] = ids
	return rec
}
