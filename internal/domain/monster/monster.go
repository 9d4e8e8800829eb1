// Package monster holds the caller-owned monster stat block.
package monster

import (
	"github.com/fivetorches/encounter-engine/internal/domain/shared"
)

// Action is one attack or special action on a stat block
type Action struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AttackBonus int    `json:"attack_bonus,omitempty"`
	Damage      string `json:"damage,omitempty"` // dice notation
	DamageType  string `json:"damage_type,omitempty"`
}

// StatBlock is a read-only snapshot of a monster
type StatBlock struct {
	Name        string               `json:"name"`
	Size        string               `json:"size,omitempty"`
	Type        string               `json:"type,omitempty"`
	Alignment   string               `json:"alignment,omitempty"`
	AC          int                  `json:"ac"`
	HP          int                  `json:"hp"`
	Speeds      map[string]int       `json:"speeds,omitempty"` // walk, fly, swim...
	Abilities   shared.AbilityScores `json:"abilities"`
	Resistances []string             `json:"resistances,omitempty"`
	Immunities  []string             `json:"immunities,omitempty"`
	Actions     []Action             `json:"actions,omitempty"`
	CR          float64              `json:"cr"`
	XP          int                  `json:"xp"`
}

// DexterityModifier is the monster's initiative modifier
func (s *StatBlock) DexterityModifier() int {
	return shared.AbilityModifier(s.Abilities.Dexterity)
}

// WalkSpeed returns the walking speed, defaulting to 30 when unset
func (s *StatBlock) WalkSpeed() int {
	if speed, ok := s.Speeds["walk"]; ok {
		return speed
	}
	return 30
}

// PrimaryAction returns the first action that deals damage, or nil
func (s *StatBlock) PrimaryAction() *Action {
	for i := range s.Actions {
		if s.Actions[i].Damage != "" {
			return &s.Actions[i]
		}
	}
	return nil
}
