// Package store persists encounter state to disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thraizz/combat-tracker/internal/encounter"
	"go.uber.org/zap"
)

// Load reads the encounter stored at path. A missing, unreadable or invalid
// file yields a fresh empty engine; it is never an error.
func Load(path string, logger *zap.Logger) *encounter.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read encounter state, starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return encounter.NewEngine(logger)
	}

	state, err := Decode(data)
	if err != nil {
		logger.Warn("discarding corrupt encounter state",
			zap.String("path", path),
			zap.Error(err),
		)
		return encounter.NewEngine(logger)
	}

	logger.Debug("loaded encounter state",
		zap.String("path", path),
		zap.Int("round", state.Round),
		zap.Int("participants", len(state.Entities)),
		zap.Int("history_len", len(state.History)),
	)
	return encounter.Restore(state, logger)
}

// Save writes the full engine state to path, creating the parent directory
// if needed. The file is replaced atomically.
func Save(e *encounter.Engine, path string) error {
	data, err := Encode(e.Snapshot())
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Encode renders state as indented JSON.
func Encode(state encounter.State) ([]byte, error) {
	if state.Entities == nil {
		state.Entities = []encounter.Participant{}
	}
	if state.History == nil {
		state.History = []encounter.Event{}
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a state document.
func Decode(data []byte) (encounter.State, error) {
	var state encounter.State
	if err := json.Unmarshal(data, &state); err != nil {
		return encounter.State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	if err := validate(state); err != nil {
		return encounter.State{}, err
	}
	return state, nil
}

func validate(state encounter.State) error {
	if state.Round < 0 {
		return fmt.Errorf("invalid round %d", state.Round)
	}
	if state.Turn < 0 || (len(state.Entities) > 0 && state.Turn >= len(state.Entities)) {
		return fmt.Errorf("turn %d out of range for %d participants", state.Turn, len(state.Entities))
	}
	for i, p := range state.Entities {
		if (p.MaxHP == nil) != (p.CurrentHP == nil) {
			return fmt.Errorf("participant %d (%s): max_hp and current_hp must be set together", i, p.Name)
		}
		if p.MaxHP != nil && (*p.MaxHP < 0 || *p.CurrentHP < 0 || *p.CurrentHP > *p.MaxHP) {
			return fmt.Errorf("participant %d (%s): current_hp %d outside 0..%d", i, p.Name, *p.CurrentHP, *p.MaxHP)
		}
	}
	return nil
}
