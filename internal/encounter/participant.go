package encounter

import "fmt"

// Participant is a single combatant in an encounter.
// Players do not track health; monsters do.
type Participant struct {
	Name       string `json:"name"`
	Initiative int    `json:"initiative"`
	MaxHP      *int   `json:"max_hp,omitempty"`
	CurrentHP  *int   `json:"current_hp,omitempty"`
}

// NewPlayer creates a participant without tracked health.
func NewPlayer(name string, initiative int) Participant {
	return Participant{
		Name:       name,
		Initiative: initiative,
	}
}

// NewMonster creates a participant at full health.
func NewMonster(name string, initiative, maxHP int) Participant {
	current := maxHP
	return Participant{
		Name:       name,
		Initiative: initiative,
		MaxHP:      &maxHP,
		CurrentHP:  &current,
	}
}

// TracksHealth reports whether the participant has health fields.
func (p *Participant) TracksHealth() bool {
	return p.MaxHP != nil && p.CurrentHP != nil
}

// DisplayHealth returns "current/max", or an empty string for untracked health.
func (p *Participant) DisplayHealth() string {
	if !p.TracksHealth() {
		return ""
	}
	return fmt.Sprintf("%d/%d", *p.CurrentHP, *p.MaxHP)
}

// ApplyDamage lowers current health, never below zero.
func (p *Participant) ApplyDamage(amount int) {
	if !p.TracksHealth() {
		return
	}
	*p.CurrentHP = max(0, *p.CurrentHP-amount)
}

// ApplyHeal raises current health, never above max health.
func (p *Participant) ApplyHeal(amount int) {
	if !p.TracksHealth() {
		return
	}
	*p.CurrentHP = min(*p.MaxHP, *p.CurrentHP+amount)
}

// IsDead is true only for participants with tracked health at or below zero.
func (p *Participant) IsDead() bool {
	return p.TracksHealth() && *p.CurrentHP <= 0
}

// clone returns a deep copy so callers never alias roster health pointers.
func (p Participant) clone() Participant {
	if p.MaxHP != nil {
		maxHP := *p.MaxHP
		p.MaxHP = &maxHP
	}
	if p.CurrentHP != nil {
		current := *p.CurrentHP
		p.CurrentHP = &current
	}
	return p
}
