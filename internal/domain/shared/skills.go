package shared

// Skill is one of the eighteen SRD skills
type Skill string

const (
	SkillAcrobatics     Skill = "acrobatics"
	SkillAnimalHandling Skill = "animal-handling"
	SkillArcana         Skill = "arcana"
	SkillAthletics      Skill = "athletics"
	SkillDeception      Skill = "deception"
	SkillHistory        Skill = "history"
	SkillInsight        Skill = "insight"
	SkillIntimidation   Skill = "intimidation"
	SkillInvestigation  Skill = "investigation"
	SkillMedicine       Skill = "medicine"
	SkillNature         Skill = "nature"
	SkillPerception     Skill = "perception"
	SkillPerformance    Skill = "performance"
	SkillPersuasion     Skill = "persuasion"
	SkillReligion       Skill = "religion"
	SkillSleightOfHand  Skill = "sleight-of-hand"
	SkillStealth        Skill = "stealth"
	SkillSurvival       Skill = "survival"
)

// skillAbilities maps each skill to its governing ability
var skillAbilities = map[Skill]Attribute{
	SkillAcrobatics:     AttributeDexterity,
	SkillAnimalHandling: AttributeWisdom,
	SkillArcana:         AttributeIntelligence,
	SkillAthletics:      AttributeStrength,
	SkillDeception:      AttributeCharisma,
	SkillHistory:        AttributeIntelligence,
	SkillInsight:        AttributeWisdom,
	SkillIntimidation:   AttributeCharisma,
	SkillInvestigation:  AttributeIntelligence,
	SkillMedicine:       AttributeWisdom,
	SkillNature:         AttributeIntelligence,
	SkillPerception:     AttributeWisdom,
	SkillPerformance:    AttributeCharisma,
	SkillPersuasion:     AttributeCharisma,
	SkillReligion:       AttributeIntelligence,
	SkillSleightOfHand:  AttributeDexterity,
	SkillStealth:        AttributeDexterity,
	SkillSurvival:       AttributeWisdom,
}

// GoverningAbility returns the ability a skill check is based on.
// Unknown skills map to AttributeNone.
func (s Skill) GoverningAbility() Attribute {
	return skillAbilities[s]
}
