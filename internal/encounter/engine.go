package encounter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no participant has the requested name.
	ErrNotFound = errors.New("participant not found")
	// ErrEmptyRoster is returned when a turn operation needs participants.
	ErrEmptyRoster = errors.New("roster is empty")
	// ErrNoLivingParticipant is returned when advancing finds nobody to act.
	ErrNoLivingParticipant = errors.New("no living participant")
	// ErrUndoUnsupported is returned when the last event has no inverse.
	ErrUndoUnsupported = errors.New("undo not supported")
)

// State is the plain-data form of an Engine, used for persistence.
type State struct {
	Round    int           `json:"round"`
	Turn     int           `json:"turn"`
	Entities []Participant `json:"entities"`
	History  []Event       `json:"history"`
}

// Engine owns the roster, the turn pointer and the event log of one
// encounter. It is not safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	turns   *TurnTracker
	roster  []Participant
	history *History
}

// NewEngine creates an empty engine: round 0, turn 0, no participants.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:  logger,
		turns:   NewTurnTracker(0, 0),
		roster:  make([]Participant, 0),
		history: NewHistory(),
	}
}

// Restore creates an engine from persisted state.
func Restore(state State, logger *zap.Logger) *Engine {
	e := NewEngine(logger)
	e.turns = NewTurnTracker(state.Round, state.Turn)
	for _, p := range state.Entities {
		e.roster = append(e.roster, p.clone())
	}
	e.history = NewHistory(state.History...)
	return e
}

// Snapshot returns a deep copy of the engine state.
func (e *Engine) Snapshot() State {
	return State{
		Round:    e.turns.Round(),
		Turn:     e.turns.Turn(),
		Entities: e.Roster(),
		History:  e.history.List(),
	}
}

// Round returns the current round; 0 before the encounter starts.
func (e *Engine) Round() int {
	return e.turns.Round()
}

// Turn returns the index of the active roster slot.
func (e *Engine) Turn() int {
	return e.turns.Turn()
}

// Started reports whether StartEncounter has been applied.
func (e *Engine) Started() bool {
	return e.turns.Started()
}

// Roster returns a copy of the participants in turn order.
func (e *Engine) Roster() []Participant {
	cpy := make([]Participant, len(e.roster))
	for i, p := range e.roster {
		cpy[i] = p.clone()
	}
	return cpy
}

// History returns a copy of the event log, oldest first.
func (e *Engine) History() []Event {
	return e.history.List()
}

// Participant looks up a participant by exact name.
func (e *Engine) Participant(name string) (Participant, error) {
	idx := e.indexOf(name)
	if idx < 0 {
		return Participant{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e.roster[idx].clone(), nil
}

// Current returns the participant whose turn is active.
func (e *Engine) Current() (Participant, error) {
	if len(e.roster) == 0 {
		return Participant{}, ErrEmptyRoster
	}
	idx := e.turns.Turn()
	if idx < 0 || idx >= len(e.roster) {
		return Participant{}, fmt.Errorf("turn %d out of range for %d participants", idx, len(e.roster))
	}
	return e.roster[idx].clone(), nil
}

func (e *Engine) indexOf(name string) int {
	for i := range e.roster {
		if e.roster[i].Name == name {
			return i
		}
	}
	return -1
}

// AddParticipant inserts p before the first participant with strictly lower
// initiative, so equal initiatives keep insertion order.
func (e *Engine) AddParticipant(p Participant) {
	p = p.clone()
	pos := len(e.roster)
	for i := range e.roster {
		if e.roster[i].Initiative < p.Initiative {
			pos = i
			break
		}
	}
	e.roster = append(e.roster, Participant{})
	copy(e.roster[pos+1:], e.roster[pos:])
	e.roster[pos] = p
}

// Nudge swaps name with its predecessor when both share an initiative.
// Only the first qualifying pair is swapped; otherwise it is a no-op.
// The returned bool reports whether a swap happened.
func (e *Engine) Nudge(name string) bool {
	for i := 1; i < len(e.roster); i++ {
		prev, cur := &e.roster[i-1], &e.roster[i]
		if cur.Name == name && prev.Initiative == cur.Initiative {
			e.roster[i-1], e.roster[i] = e.roster[i], e.roster[i-1]
			return true
		}
	}
	return false
}

// ApplyDamage damages the named participant and returns its new state.
func (e *Engine) ApplyDamage(name string, amount int) (Participant, error) {
	idx := e.indexOf(name)
	if idx < 0 {
		return Participant{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	e.roster[idx].ApplyDamage(amount)
	return e.roster[idx].clone(), nil
}

// ApplyHeal heals the named participant and returns its new state.
func (e *Engine) ApplyHeal(name string, amount int) (Participant, error) {
	idx := e.indexOf(name)
	if idx < 0 {
		return Participant{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	e.roster[idx].ApplyHeal(amount)
	return e.roster[idx].clone(), nil
}

// StartEncounter moves to round 1 and returns the first participant.
func (e *Engine) StartEncounter() (Participant, error) {
	e.turns.Start()
	return e.Current()
}

// AdvanceTurn moves to the next participant that is not dead. When every
// other participant is dead it returns ErrNoLivingParticipant; the round
// still counts any wrap made while scanning.
func (e *Engine) AdvanceTurn() (Participant, error) {
	if len(e.roster) == 0 {
		return Participant{}, ErrEmptyRoster
	}
	idx, ok := e.turns.Advance(len(e.roster), func(i int) bool {
		return e.roster[i].IsDead()
	})
	if !ok {
		return Participant{}, ErrNoLivingParticipant
	}
	return e.roster[idx].clone(), nil
}

func (e *Engine) remove(name string) bool {
	idx := e.indexOf(name)
	if idx < 0 {
		return false
	}
	e.roster = append(e.roster[:idx], e.roster[idx+1:]...)
	e.turns.clampTo(len(e.roster))
	return true
}

// Result describes the effect of a processed command for display.
type Result struct {
	// Participant is the participant affected or now active, when any.
	Participant *Participant
	// Swapped reports whether a Nudge reordered the roster.
	Swapped bool
}

// ProcessCommand accepts only the value variants (Damage, not *Damage);
// anything else is rejected before it reaches the history.
//
// ProcessCommand logs cmd in the history and then applies it. The event is
// logged even when the effect is a no-op; the returned error only describes
// the effect (e.g. ErrNotFound) and never removes the event.
func (e *Engine) ProcessCommand(cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, fmt.Errorf("process command: nil command")
	}
	if !isValueCommand(cmd) {
		return Result{}, fmt.Errorf("process command: unsupported command type %T", cmd)
	}
	e.history.Push(Event{Round: e.turns.Round(), Command: cmd})

	e.logger.Debug("processing command",
		zap.String("kind", string(cmd.Kind())),
		zap.Int("round", e.turns.Round()),
		zap.Int("history_len", e.history.Len()),
	)

	var (
		p   Participant
		err error
	)
	switch c := cmd.(type) {
	case Damage:
		p, err = e.ApplyDamage(c.Name, c.Amount)
	case AddParticipant:
		if c.HP != nil {
			p = NewMonster(c.Name, c.Initiative, *c.HP)
		} else {
			p = NewPlayer(c.Name, c.Initiative)
		}
		e.AddParticipant(p)
	case Heal:
		p, err = e.ApplyHeal(c.Name, c.Amount)
	case Nudge:
		if e.indexOf(c.Name) < 0 {
			return Result{}, fmt.Errorf("%w: %s", ErrNotFound, c.Name)
		}
		return Result{Swapped: e.Nudge(c.Name)}, nil
	case AdvanceTurn:
		p, err = e.AdvanceTurn()
	case StartEncounter:
		p, err = e.StartEncounter()
	default:
		return Result{}, fmt.Errorf("unknown command kind: %s", cmd.Kind())
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Participant: &p}, nil
}

// Undo pops the last event and applies its inverse. With an empty history it
// does nothing and returns ok=false. Events without an inverse (Nudge,
// StartEncounter) are pushed back unchanged and ErrUndoUnsupported is
// returned.
//
// Undoing AdvanceTurn only steps the pointer back one slot; it does not
// account for dead participants skipped by the original advance.
func (e *Engine) Undo() (evt Event, ok bool, err error) {
	evt, ok = e.history.Pop()
	if !ok {
		return Event{}, false, nil
	}

	switch c := evt.Command.(type) {
	case Damage:
		_, err = e.ApplyHeal(c.Name, c.Amount)
	case Heal:
		_, err = e.ApplyDamage(c.Name, c.Amount)
	case AddParticipant:
		if !e.remove(c.Name) {
			err = fmt.Errorf("%w: %s", ErrNotFound, c.Name)
		}
	case AdvanceTurn:
		e.turns.Rewind(len(e.roster))
	case Nudge, StartEncounter:
		e.history.Push(evt)
		e.logger.Warn("undo not supported for event",
			zap.String("kind", string(evt.Command.Kind())),
			zap.Int("round", evt.Round),
		)
		return evt, true, fmt.Errorf("%w: %s", ErrUndoUnsupported, evt.Command.Kind())
	default:
		e.history.Push(evt)
		return evt, true, fmt.Errorf("%w: %s", ErrUndoUnsupported, evt.Command.Kind())
	}

	e.logger.Debug("undid event",
		zap.String("kind", string(evt.Command.Kind())),
		zap.Int("round", evt.Round),
		zap.Int("history_len", e.history.Len()),
	)
	return evt, true, err
}
