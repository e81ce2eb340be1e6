package component

import (
	"fmt"
)

// Deserialize rebuilds a single node from its record. It is the exact
// inverse of Serialize. An unknown type is fatal: it signals a corrupted
// cache entry or version skew, and the caller must abort the whole tree.
func Deserialize(id int, rec Record) (Node, error) {
	typStr, _ := rec[keyType].(string)
	n := newNode(Type(typStr), id, "")
	if n == nil {
		return nil, fmt.Errorf("%w: %q (node %d)", ErrUnknownType, typStr, id)
	}
	n.restore(rec)
	return n, nil
}

// Flatten serializes a wired tree into the flat snapshot format, walking
// depth-first from the root.
func Flatten(root Node) Snapshot {
	snap := make(Snapshot)
	var walk func(n Node)
	walk = func(n Node) {
		snap[n.ID()] = n.Serialize()
		if p, ok := n.(Parent); ok {
			for _, child := range p.Children() {
				walk(child)
			}
		}
	}
	walk(root)
	return snap
}

// Tree is a reconstructed live tree: the root container plus an id index
// for direct node access.
type Tree struct {
	Root  Parent
	Nodes map[int]Node
}

// FindByName looks a node up by its logical name anywhere in the tree.
func (t *Tree) FindByName(name string) Node {
	if t.Root.Name() == name {
		return t.Root
	}
	return t.Root.FindByName(name)
}

// Reconstruct rebuilds a live tree from a snapshot in three passes:
// instantiate every node, wire parent/child links (children lists carry the
// order), then run the PostConnect hooks. Exactly one root is required.
func Reconstruct(snap Snapshot) (*Tree, error) {
	nodes := make(map[int]Node, len(snap))
	for id, rec := range snap {
		n, err := Deserialize(id, rec)
		if err != nil {
			return nil, err
		}
		nodes[id] = n
	}

	var root Parent
	for id, n := range nodes {
		if n.IsRoot() {
			p, ok := n.(Parent)
			if !ok {
				return nil, fmt.Errorf("%w: node %d (%s)", ErrBadRoot, id, n.Type())
			}
			if root != nil {
				return nil, fmt.Errorf("snapshot has more than one root (%d and %d)", root.ID(), id)
			}
			root = p
			continue
		}
		if _, ok := snap[id][keyParent]; !ok {
			return nil, fmt.Errorf("%w: node %d", ErrNoParent, id)
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	for id, rec := range snap {
		parent, ok := nodes[id].(Parent)
		if !ok {
			continue
		}
		children, ok := rec[keyChildren].([]any)
		if !ok {
			// Marshal round-trips may also leave []int in place.
			if ints, isInts := rec[keyChildren].([]int); isInts {
				for _, cid := range ints {
					if child, exists := nodes[cid]; exists {
						parent.ConnectChild(child)
					}
				}
			}
			continue
		}
		for _, raw := range children {
			cid, ok := asInt(raw)
			if !ok {
				continue
			}
			if child, exists := nodes[cid]; exists {
				parent.ConnectChild(child)
			}
		}
	}

	for _, n := range nodes {
		n.PostConnect()
	}

	return &Tree{Root: root, Nodes: nodes}, nil
}
