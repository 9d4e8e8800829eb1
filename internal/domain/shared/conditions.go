package shared

// ConditionType represents standard D&D 5e conditions
type ConditionType string

const (
	ConditionBlinded       ConditionType = "blinded"
	ConditionCharmed       ConditionType = "charmed"
	ConditionDeafened      ConditionType = "deafened"
	ConditionFrightened    ConditionType = "frightened"
	ConditionGrappled      ConditionType = "grappled"
	ConditionIncapacitated ConditionType = "incapacitated"
	ConditionInvisible     ConditionType = "invisible"
	ConditionParalyzed     ConditionType = "paralyzed"
	ConditionPetrified     ConditionType = "petrified"
	ConditionPoisoned      ConditionType = "poisoned"
	ConditionProne         ConditionType = "prone"
	ConditionRestrained    ConditionType = "restrained"
	ConditionStunned       ConditionType = "stunned"
	ConditionUnconscious   ConditionType = "unconscious"
	ConditionExhaustion    ConditionType = "exhaustion"
)

// DurationType says how a condition expires
type DurationType string

const (
	// DurationRounds expires after a counted number of rounds
	DurationRounds DurationType = "rounds"

	// DurationUntilSave lasts until a successful saving throw
	DurationUntilSave DurationType = "until_save"

	// DurationUntilDispelled lasts until explicitly removed
	DurationUntilDispelled DurationType = "until_dispelled"

	// DurationUntilRest lasts until the next rest
	DurationUntilRest DurationType = "until_rest"
)

// Duration is either round-counted or open-ended. Rounds is only
// meaningful when Type is DurationRounds.
type Duration struct {
	Type   DurationType `json:"type"`
	Rounds int          `json:"rounds,omitempty"`
}

// RoundDuration builds a round-counted duration
func RoundDuration(rounds int) Duration {
	return Duration{Type: DurationRounds, Rounds: rounds}
}

// OpenEnded reports whether the duration is not round-counted
func (d Duration) OpenEnded() bool {
	return d.Type != DurationRounds
}
