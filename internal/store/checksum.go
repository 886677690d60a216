package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/thraizz/combat-tracker/internal/encounter"
)

// Checksum computes a SHA-256 digest of a canonical text rendering of the
// state. Roster and history order are significant and kept as-is.
func Checksum(state encounter.State) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "ENCOUNTER:%d|%d\n", state.Round, state.Turn)

	for _, p := range state.Entities {
		fmt.Fprintf(&buf, "PARTICIPANT:%s|%d|%s\n", p.Name, p.Initiative, healthKey(p))
	}

	for i, evt := range state.History {
		action, err := encounter.MarshalCommand(evt.Command)
		if err != nil {
			return "", fmt.Errorf("failed to encode event %d: %w", i, err)
		}
		fmt.Fprintf(&buf, "EVENT:%d|%d|%s\n", i, evt.Round, action)
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

func healthKey(p encounter.Participant) string {
	if !p.TracksHealth() {
		return "-"
	}
	return p.DisplayHealth()
}
