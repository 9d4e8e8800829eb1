// Package character holds the caller-owned character snapshot. The engine
// reads these values and never mutates them; upstream validation has
// already enforced score and level ranges.
package character

import (
	"github.com/fivetorches/encounter-engine/internal/domain/shared"
)

// Proficiencies lists what the character is trained in. Expertise implies
// the skill proficiency bonus is doubled.
type Proficiencies struct {
	SavingThrows []shared.Attribute `json:"saving_throws"`
	Skills       []shared.Skill     `json:"skills"`
	Expertise    []shared.Skill     `json:"expertise"`
}

// Character is a read-only snapshot of a player character
type Character struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Level         int                    `json:"level"` // 1-20
	Abilities     shared.AbilityScores   `json:"abilities"`
	HP            shared.HPResource      `json:"hp"`
	AC            int                    `json:"ac"`
	Speed         int                    `json:"speed"`
	Proficiencies Proficiencies          `json:"proficiencies"`
	Conditions    []shared.ConditionType `json:"conditions,omitempty"`
}

// ProficiencyBonus is ceil(level/4)+1
func (c *Character) ProficiencyBonus() int {
	return (c.Level-1)/4 + 2
}

// DexterityModifier is the character's initiative modifier
func (c *Character) DexterityModifier() int {
	return c.Abilities.Modifier(shared.AttributeDexterity)
}

// IsProficientInSave reports saving throw proficiency for an ability
func (c *Character) IsProficientInSave(attr shared.Attribute) bool {
	for _, a := range c.Proficiencies.SavingThrows {
		if a == attr {
			return true
		}
	}
	return false
}

// IsProficientInSkill reports skill proficiency (expertise counts)
func (c *Character) IsProficientInSkill(skill shared.Skill) bool {
	if c.HasExpertise(skill) {
		return true
	}
	for _, s := range c.Proficiencies.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// HasExpertise reports whether the skill proficiency bonus is doubled
func (c *Character) HasExpertise(skill shared.Skill) bool {
	for _, s := range c.Proficiencies.Expertise {
		if s == skill {
			return true
		}
	}
	return false
}
