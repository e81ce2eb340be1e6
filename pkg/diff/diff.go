// Package diff reconciles two component-tree snapshots into a minimal
// per-node patch. Pure: no I/O, no side effects.
package diff

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
	"github.com/idei-labs/usim/pkg/component"
)

// Compare walks every node present in the new snapshot and reports what a
// renderer must repaint:
//
//   - node absent from old: its entire record (an insert),
//   - node present in both: only the keys whose values changed.
//
// Comparing against an empty old snapshot therefore yields the whole tree,
// that is the full-reload mechanism for the initial page paint.
//
// Nodes absent from the new snapshot are not reported: removal is expressed
// by the parent's shrunken children list, and renderers clear rather than
// delete. Keys dropped from a surviving node's record are likewise silent.
func Compare(prev, next component.Snapshot) map[int]component.Record {
	out := make(map[int]component.Record)
	for id, newRec := range next {
		oldRec, exists := prev[id]
		if !exists {
			out[id] = cloneRecord(newRec)
			continue
		}
		var changed component.Record
		for key, newVal := range newRec {
			if oldVal, ok := oldRec[key]; ok && Equal(oldVal, newVal) {
				continue
			}
			if changed == nil {
				changed = make(component.Record)
			}
			changed[key] = newVal
		}
		if changed != nil {
			out[id] = changed
		}
	}
	return out
}

// Equal reports deep structural equality of two config values. Values are
// compared through canonical JSON (RFC 8785), which makes 1, int64(1) and
// 1.0 equal (exactly what a value that round-tripped through the cache
// looks like) and compares arrays and maps by structure, not identity.
func Equal(a, b any) bool {
	ca, aok := canonical(a)
	cb, bok := canonical(b)
	if !aok || !bok {
		return false
	}
	return string(ca) == string(cb)
}

func canonical(v any) ([]byte, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	c, err := jcs.Transform(raw)
	if err != nil {
		return nil, false
	}
	return c, true
}

func cloneRecord(rec component.Record) component.Record {
	cp := make(component.Record, len(rec))
	for k, v := range rec {
		cp[k] = v
	}
	return cp
}
