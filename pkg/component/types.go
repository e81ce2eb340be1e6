// Package component implements the server-side UI component tree: typed
// nodes with a stable identity, an open config bag, parent/child wiring, and
// the flat snapshot format used on the wire and in the state cache.
package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Type tags a node with its concrete behavior. The enumeration is closed:
// deserializing a record with an unknown type aborts reconstruction of the
// whole tree, because children may depend on the node existing.
type Type string

const (
	TypeLabel           Type = "label"
	TypeButton          Type = "button"
	TypeInput           Type = "input"
	TypeSelect          Type = "select"
	TypeCheckbox        Type = "checkbox"
	TypeCard            Type = "card"
	TypeTable           Type = "table"
	TypeContainer       Type = "container"
	TypeTableRow        Type = "tablerow"
	TypeTableCell       Type = "tablecell"
	TypeTableHeaderCell Type = "tableheadercell"
	TypeTableHeaderRow  Type = "tableheaderrow"
	TypeForm            Type = "form"
	TypeMenuDropdown    Type = "menudropdown"
	TypeUploader        Type = "uploader"
	TypeCalendar        Type = "calendar"
)

// Reserved record keys. Everything else in a record is config.
const (
	keyType     = "type"
	keyParent   = "parent"
	keyName     = "name"
	keyRoot     = "root"
	keyChildren = "children"
)

var (
	// ErrUnknownType signals a record whose type is outside the closed
	// enumeration, a corrupted cache entry or version skew.
	ErrUnknownType = errors.New("unknown component type")
	// ErrNoRoot signals a snapshot without a root container.
	ErrNoRoot = errors.New("no root container in snapshot")
	// ErrBadRoot signals a root-flagged record whose type is not a container.
	ErrBadRoot = errors.New("root node is not a container")
	// ErrNoParent signals a non-root record without a parent reference.
	ErrNoParent = errors.New("component has no parent")
)

// Record is the serialized form of one node: type, parent, optional name and
// root flag, plus every config key flattened alongside them. Container
// records additionally carry an ordered "children" id list.
type Record map[string]any

// Snapshot is the flat wire/cache representation of a whole tree, keyed by
// node id. It is never nested: traversal happens on demand via the parent
// pointers and children lists.
type Snapshot map[int]Record

// MarshalJSON emits the snapshot with string keys, as the frontend expects.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]Record, len(s))
	for id, rec := range s {
		out[strconv.Itoa(id)] = rec
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses string node ids back to ints.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Snapshot, len(raw))
	for k, rec := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("snapshot key %q is not a node id: %w", k, err)
		}
		out[id] = rec
	}
	*s = out
	return nil
}

// Clone returns a deep-enough copy for diffing: records are copied, values
// are shared (handlers replace values, they do not mutate them in place).
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, rec := range s {
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// Root returns the id and record of the snapshot's root node.
func (s Snapshot) Root() (int, Record, bool) {
	for id, rec := range s {
		if b, _ := rec[keyRoot].(bool); b {
			return id, rec, true
		}
	}
	return 0, nil, false
}

// asInt coerces JSON-decoded id values (float64 after a decode, int when
// built in process) to int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
