package funnel

import "github.com/reviewhut/reviewhut/forms"

// Snapshot is the complete current set of field values for one in-progress
// form. The key set is fixed at wizard mount; only values change.
type Snapshot map[string]string

// NewSnapshot seeds a snapshot with every field the form declares.
func NewSnapshot(def forms.FormDefinition) Snapshot {
	snap := make(Snapshot)
	for _, name := range def.FieldNames() {
		snap[name] = ""
	}
	return snap
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for name, value := range s {
		out[name] = value
	}
	return out
}

// ErrorMap maps field names to human-readable validation messages.
type ErrorMap map[string]string

// Clone returns an independent copy of the error map.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for name, msg := range m {
		out[name] = msg
	}
	return out
}
