// Package session persists in-progress wizard sessions so an interrupted
// intake survives a process restart.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/reviewhut/reviewhut/internal/funnel"
)

// ErrNotFound is returned when no persisted session exists yet.
var ErrNotFound = errors.New("session: state not found")

// State is the persisted snapshot of one wizard session.
type State struct {
	SessionID string            `json:"session_id"`
	FormID    string            `json:"form_id"`
	StepIndex int               `json:"step_index"`
	Reviewing bool              `json:"reviewing"`
	Values    map[string]string `json:"values"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store persists wizard session snapshots.
type Store interface {
	Load() (State, error)
	Save(State) error
	Clear() error
}

// Repository stores session state as JSON inside the state directory.
type Repository struct {
	path string
}

// NewRepository creates a repository rooted at the given state directory.
func NewRepository(stateDir string) *Repository {
	return &Repository{path: filepath.Join(stateDir, "intake.json")}
}

// Load reads the persisted session if present.
func (r *Repository) Load() (State, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, ErrNotFound
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Save writes the session state to disk with best-effort atomicity.
func (r *Repository) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, append(encoded, '\n'), 0o644)
}

// Clear removes the persisted session. A missing file is not an error —
// successful submission and discard both land here.
func (r *Repository) Clear() error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Capture snapshots a live wizard into persistable state. A fresh session
// ID is minted when the caller has none yet.
func Capture(sessionID string, w *funnel.Wizard) State {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return State{
		SessionID: sessionID,
		FormID:    w.Form().ID,
		StepIndex: w.StepIndex(),
		Reviewing: w.Reviewing(),
		Values:    w.Snapshot(),
		UpdatedAt: time.Now().UTC(),
	}
}

// Restore rehydrates a wizard from persisted state. The wizard must be
// mounted over the same form the state was captured from.
func Restore(state State, w *funnel.Wizard) error {
	if state.FormID != w.Form().ID {
		return fmt.Errorf("session: state belongs to form %s, wizard has %s", state.FormID, w.Form().ID)
	}
	return w.Restore(state.StepIndex, state.Reviewing, state.Values)
}
