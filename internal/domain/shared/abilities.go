package shared

// Attribute is one of the six ability score names
type Attribute string

var Attributes = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeIntelligence, AttributeWisdom, AttributeCharisma}

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "Str"
	AttributeDexterity    Attribute = "Dex"
	AttributeConstitution Attribute = "Con"
	AttributeIntelligence Attribute = "Int"
	AttributeWisdom       Attribute = "Wis"
	AttributeCharisma     Attribute = "Cha"
)

func (a Attribute) Short() string {
	return string(a)
}

// AbilityScores holds the six ability scores, each 1-30
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Score returns the raw score for an attribute
func (a AbilityScores) Score(attr Attribute) int {
	switch attr {
	case AttributeStrength:
		return a.Strength
	case AttributeDexterity:
		return a.Dexterity
	case AttributeConstitution:
		return a.Constitution
	case AttributeIntelligence:
		return a.Intelligence
	case AttributeWisdom:
		return a.Wisdom
	case AttributeCharisma:
		return a.Charisma
	}
	return 0
}

// Modifier returns floor((score-10)/2) for an attribute
func (a AbilityScores) Modifier(attr Attribute) int {
	return AbilityModifier(a.Score(attr))
}

// AbilityModifier converts a raw score to its modifier.
// Go integer division truncates toward zero, so negative modifiers
// need the floor adjusted by hand.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// AdvantageStatus controls how a d20 is rolled
type AdvantageStatus string

const (
	AdvantageStatusNormal       AdvantageStatus = "normal"
	AdvantageStatusAdvantage    AdvantageStatus = "advantage"
	AdvantageStatusDisadvantage AdvantageStatus = "disadvantage"
)
