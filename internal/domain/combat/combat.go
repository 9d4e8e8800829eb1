// Package combat holds the Combat aggregate. The aggregate is a plain
// value owned by the caller between operations; services clone it before
// mutating so every operation is a functional update.
package combat

import (
	"fmt"

	"github.com/fivetorches/encounter-engine/internal/domain/shared"
)

// CombatantType represents the side a combatant fights for
type CombatantType string

const (
	CombatantTypePlayerCharacter CombatantType = "player_character"
	CombatantTypeEnemy           CombatantType = "enemy"
	CombatantTypeAlly            CombatantType = "ally"
	CombatantTypeNeutral         CombatantType = "neutral"
)

// CombatantStatus represents the current state of a combatant.
// Exactly one status holds at a time.
type CombatantStatus string

const (
	CombatantStatusActive   CombatantStatus = "active"
	CombatantStatusDefeated CombatantStatus = "defeated"
	CombatantStatusFled     CombatantStatus = "fled"
)

// Initiative records how a combatant's turn position was rolled
type Initiative struct {
	Roll     int `json:"roll"`
	Modifier int `json:"modifier"`
	Total    int `json:"total"`
}

// TurnResources is the per-turn action economy, reset at the start of
// each of the combatant's turns
type TurnResources struct {
	ActionAvailable      bool `json:"action_available"`
	BonusActionAvailable bool `json:"bonus_action_available"`
	ReactionAvailable    bool `json:"reaction_available"`
	MovementRemaining    int  `json:"movement_remaining"`
}

// Reset restores full resources for a new turn
func (tr *TurnResources) Reset(speed int) {
	tr.ActionAvailable = true
	tr.BonusActionAvailable = true
	tr.ReactionAvailable = true
	tr.MovementRemaining = speed
}

// ActiveCondition is a condition currently affecting a combatant
type ActiveCondition struct {
	Type     shared.ConditionType `json:"type"`
	Source   string               `json:"source"`
	Duration shared.Duration      `json:"duration"`
}

// Combatant is the mutable per-encounter projection of a character or monster
type Combatant struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       CombatantType     `json:"type"`
	Initiative Initiative        `json:"initiative"`
	HP         shared.HPResource `json:"hp"`
	AC         int               `json:"ac"`
	Speed      int               `json:"speed"`
	Conditions []ActiveCondition `json:"conditions,omitempty"`
	Status     CombatantStatus   `json:"status"`
	Resources  TurnResources     `json:"resources"`
	SourceID   string            `json:"source_id,omitempty"` // character id or monster name
	IsPlayer   bool              `json:"is_player"`
	XPValue    int               `json:"xp_value,omitempty"` // award when defeated, enemies only
}

// HasCondition reports whether a condition of the given type is active
func (c *Combatant) HasCondition(condType shared.ConditionType) bool {
	for i := range c.Conditions {
		if c.Conditions[i].Type == condType {
			return true
		}
	}
	return false
}

// ApplyCondition adds a condition, enforcing the no-stacking rule: at most
// one entry per condition type. Re-adding only replaces an existing
// round-counted entry when the new round count is strictly greater.
// Returns true if the condition list changed.
func (c *Combatant) ApplyCondition(cond ActiveCondition) bool {
	for i := range c.Conditions {
		if c.Conditions[i].Type != cond.Type {
			continue
		}
		existing := c.Conditions[i].Duration
		if existing.Type == shared.DurationRounds && cond.Duration.Type == shared.DurationRounds &&
			cond.Duration.Rounds > existing.Rounds {
			c.Conditions[i] = cond
			return true
		}
		return false
	}

	c.Conditions = append(c.Conditions, cond)
	return true
}

// RemoveCondition removes any condition of the given type.
// Returns true if one was present.
func (c *Combatant) RemoveCondition(condType shared.ConditionType) bool {
	for i := range c.Conditions {
		if c.Conditions[i].Type == condType {
			c.Conditions = append(c.Conditions[:i], c.Conditions[i+1:]...)
			return true
		}
	}
	return false
}

// TickConditions decrements round-counted conditions and drops the ones
// that hit zero. Open-ended conditions are untouched.
func (c *Combatant) TickConditions() {
	remaining := c.Conditions[:0]
	for _, cond := range c.Conditions {
		if cond.Duration.Type == shared.DurationRounds {
			cond.Duration.Rounds--
			if cond.Duration.Rounds <= 0 {
				continue
			}
		}
		remaining = append(remaining, cond)
	}
	c.Conditions = remaining
	if len(c.Conditions) == 0 {
		c.Conditions = nil
	}
}

// IsBloodied reports whether current HP is at or below half of max
func (c *Combatant) IsBloodied() bool {
	return c.Status == CombatantStatusActive && c.HP.IsBloodied()
}

// Clone returns a deep copy of the combatant
func (c *Combatant) Clone() *Combatant {
	clone := *c
	if c.Conditions != nil {
		clone.Conditions = make([]ActiveCondition, len(c.Conditions))
		copy(clone.Conditions, c.Conditions)
	}
	return &clone
}

// Combat is the authoritative state of one encounter
type Combat struct {
	ID                    string       `json:"id"`
	Round                 int          `json:"round"`
	InitiativeOrder       []*Combatant `json:"initiative_order"` // fixed at encounter start
	CurrentTurnIndex      int          `json:"current_turn_index"`
	SurprisedCombatantIDs []string     `json:"surprised_combatant_ids,omitempty"` // meaningful during round 1 only
	EnvironmentalEffects  []string     `json:"environmental_effects,omitempty"`
	IsActive              bool         `json:"is_active"`
	CombatLog             []string     `json:"combat_log,omitempty"`
}

// FindCombatant returns the combatant with the given id, or nil
func (cb *Combat) FindCombatant(id string) *Combatant {
	for _, c := range cb.InitiativeOrder {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HasActiveCombatants reports whether anyone can still act
func (cb *Combat) HasActiveCombatants() bool {
	for _, c := range cb.InitiativeOrder {
		if c.Status == CombatantStatusActive {
			return true
		}
	}
	return false
}

// IsSurprised reports whether a combatant is in the surprise set
func (cb *Combat) IsSurprised(id string) bool {
	for _, surprised := range cb.SurprisedCombatantIDs {
		if surprised == id {
			return true
		}
	}
	return false
}

// AddLogEntry appends a round-prefixed entry to the combat log.
// The log is display-only and bounded to the last 50 entries.
func (cb *Combat) AddLogEntry(entry string) {
	cb.CombatLog = append(cb.CombatLog, fmt.Sprintf("Round %d: %s", cb.Round, entry))
	if len(cb.CombatLog) > 50 {
		cb.CombatLog = cb.CombatLog[len(cb.CombatLog)-50:]
	}
}

// Clone returns a deep copy of the combat state
func (cb *Combat) Clone() *Combat {
	clone := *cb

	clone.InitiativeOrder = make([]*Combatant, len(cb.InitiativeOrder))
	for i, c := range cb.InitiativeOrder {
		clone.InitiativeOrder[i] = c.Clone()
	}
	if cb.SurprisedCombatantIDs != nil {
		clone.SurprisedCombatantIDs = append([]string(nil), cb.SurprisedCombatantIDs...)
	}
	if cb.EnvironmentalEffects != nil {
		clone.EnvironmentalEffects = append([]string(nil), cb.EnvironmentalEffects...)
	}
	if cb.CombatLog != nil {
		clone.CombatLog = append([]string(nil), cb.CombatLog...)
	}

	return &clone
}
