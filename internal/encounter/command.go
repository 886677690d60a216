package encounter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind names a Command variant. The value doubles as the JSON tag.
type Kind string

const (
	KindDamage         Kind = "Damage"
	KindHeal           Kind = "Heal"
	KindAddParticipant Kind = "AddParticipant"
	KindNudge          Kind = "Nudge"
	KindAdvanceTurn    Kind = "AdvanceTurn"
	KindStartEncounter Kind = "StartEncounter"
)

// Command is a user intent applied to an Engine. The set of variants is
// closed: only the types in this file implement it.
type Command interface {
	Kind() Kind
	isCommand()
}

// Damage lowers a participant's health.
type Damage struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// Heal raises a participant's health.
type Heal struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// AddParticipant adds a player, or a monster when HP is set.
type AddParticipant struct {
	Name       string `json:"name"`
	Initiative int    `json:"initiative"`
	HP         *int   `json:"hp,omitempty"`
}

// Nudge moves a participant ahead of an equal-initiative predecessor.
type Nudge struct {
	Name string `json:"name"`
}

// AdvanceTurn moves the turn pointer to the next living participant.
type AdvanceTurn struct{}

// StartEncounter puts the encounter at round 1, first participant.
type StartEncounter struct{}

func (Damage) Kind() Kind { return KindDamage }
func (Heal) Kind() Kind { return KindHeal }
func (AddParticipant) Kind() Kind { return KindAddParticipant }
func (Nudge) Kind() Kind { return KindNudge }
func (AdvanceTurn) Kind() Kind { return KindAdvanceTurn }
func (StartEncounter) Kind() Kind { return KindStartEncounter }

func (Damage) isCommand() {}
func (Heal) isCommand() {}
func (AddParticipant) isCommand() {}
func (Nudge) isCommand() {}
func (AdvanceTurn) isCommand() {}
func (StartEncounter) isCommand() {}

// isValueCommand reports whether cmd is one of the value variants above.
// Pointers to variants satisfy Command too but are never stored.
func isValueCommand(cmd Command) bool {
	switch cmd.(type) {
	case Damage, Heal, AddParticipant, Nudge, AdvanceTurn, StartEncounter:
		return true
	default:
		return false
	}
}

// cloneCommand copies a command by value, including the optional HP.
func cloneCommand(cmd Command) Command {
	if add, ok := cmd.(AddParticipant); ok && add.HP != nil {
		hp := *add.HP
		add.HP = &hp
		return add
	}
	return cmd
}

// MarshalCommand encodes a command as an object keyed by its Kind,
// e.g. {"Damage":{"name":"Goblin","amount":4}} or {"AdvanceTurn":{}}.
func MarshalCommand(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("marshal command: nil command")
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", cmd.Kind(), err)
	}
	return json.Marshal(map[Kind]json.RawMessage{cmd.Kind(): payload})
}

// UnmarshalCommand decodes the tagged object written by MarshalCommand.
// Payload-free variants may also be written as a bare string tag.
func UnmarshalCommand(data []byte) (Command, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var tag Kind
		if err := json.Unmarshal(data, &tag); err != nil {
			return nil, fmt.Errorf("decode command tag: %w", err)
		}
		switch tag {
		case KindAdvanceTurn:
			return AdvanceTurn{}, nil
		case KindStartEncounter:
			return StartEncounter{}, nil
		default:
			return nil, fmt.Errorf("command %q requires a payload", tag)
		}
	}

	var tagged map[Kind]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("decode command: expected exactly one tag, got %d", len(tagged))
	}

	for tag, payload := range tagged {
		switch tag {
		case KindDamage:
			return decodePayload[Damage](tag, payload)
		case KindHeal:
			return decodePayload[Heal](tag, payload)
		case KindAddParticipant:
			return decodePayload[AddParticipant](tag, payload)
		case KindNudge:
			return decodePayload[Nudge](tag, payload)
		case KindAdvanceTurn:
			return AdvanceTurn{}, nil
		case KindStartEncounter:
			return StartEncounter{}, nil
		default:
			return nil, fmt.Errorf("unknown command kind: %s", tag)
		}
	}
	return nil, fmt.Errorf("decode command: empty object")
}

func decodePayload[T Command](tag Kind, payload json.RawMessage) (Command, error) {
	var cmd T
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", tag, err)
	}
	return cmd, nil
}
