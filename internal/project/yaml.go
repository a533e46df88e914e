package project

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// EncodeSnapshot marshals a ProjectSnapshot to YAML, the reference
// on-disk shape spec.md §4.O names (projects, migration, and the
// container format itself stay external per its Non-goals).
func EncodeSnapshot(s ProjectSnapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

// DecodeSnapshot parses YAML produced by EncodeSnapshot back into a
// ProjectSnapshot.
func DecodeSnapshot(data []byte) (ProjectSnapshot, error) {
	var s ProjectSnapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return ProjectSnapshot{}, fmt.Errorf("decode project snapshot: %w", err)
	}
	return s, nil
}

// parameterEdit is one ParameterChanged call captured by
// YamlRecorder. Edits are kept in arrival order, one per call.
type parameterEdit struct {
	id    string
	value float32
}

// YamlRecorder is the reference Recorder implementation: it buffers
// note and parameter events in memory and encodes its base snapshot as
// YAML; captured parameter edits are held in memory only and are not
// merged into the encoded snapshot. Grounded
// on `doismellburning-samoyed`'s deviceid.go use of gopkg.in/yaml.v3
// for reading structured config off disk.
type YamlRecorder struct {
	mu       sync.Mutex
	notes    []MidiEventTimed
	params   []parameterEdit
	snapshot ProjectSnapshot
}

// NewYamlRecorder returns a recorder whose encoded snapshot is base.
func NewYamlRecorder(base ProjectSnapshot) *YamlRecorder {
	return &YamlRecorder{snapshot: base}
}

// NotePlayed implements Recorder.
func (r *YamlRecorder) NotePlayed(ev MidiEventTimed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, ev)
}

// ParameterChanged implements Recorder.
func (r *YamlRecorder) ParameterChanged(id string, value float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params = append(r.params, parameterEdit{id: id, value: value})
}

// Notes returns every NotePlayed event recorded so far, in arrival
// order.
func (r *YamlRecorder) Notes() []MidiEventTimed {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MidiEventTimed, len(r.notes))
	copy(out, r.notes)
	return out
}

// Encode marshals the recorder's base snapshot to YAML. Captured
// parameter edits are not applied to it, and no method returns them;
// captured note events are available through Notes.
func (r *YamlRecorder) Encode() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return EncodeSnapshot(r.snapshot)
}

// WriteFile encodes the recorder's snapshot to YAML and writes it to
// path.
func (r *YamlRecorder) WriteFile(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var _ Recorder = (*YamlRecorder)(nil)
