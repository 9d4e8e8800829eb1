package roll

import (
	"sort"

	"github.com/fivetorches/encounter-engine/internal/dice"
	"github.com/fivetorches/encounter-engine/internal/domain/character"
	"github.com/fivetorches/encounter-engine/internal/domain/shared"
	dnderr "github.com/fivetorches/encounter-engine/internal/errors"
)

// Service is the dice resolution subsystem: every typed roll the combat
// engine or its callers need. All randomness goes through the injected
// Roller so results can be scripted in tests.
type Service interface {
	// Roll resolves a raw notation expression. reason is an opaque annotation.
	Roll(notation, reason string) (*dice.BasicRollResult, error)

	// RollD20 rolls a d20 honoring advantage/disadvantage
	RollD20(status shared.AdvantageStatus) (*D20Result, error)

	// RollAbilityCheck resolves an ability (or skill) check against a DC
	RollAbilityCheck(char *character.Character, ability shared.Attribute, dc int, opts *CheckOptions) (*AbilityCheckResult, error)

	// RollSavingThrow resolves a saving throw against a DC
	RollSavingThrow(char *character.Character, ability shared.Attribute, dc int, status shared.AdvantageStatus) (*SavingThrowResult, error)

	// RollAttack resolves an attack roll against a target AC
	RollAttack(input *AttackInput) (*AttackRollResult, error)

	// RollDamage resolves a damage roll, doubling die counts on a critical
	RollDamage(input *DamageInput) (*DamageRollResult, error)

	// RollInitiative rolls initiative for every entry and returns the
	// sorted turn order
	RollInitiative(entries []InitiativeEntry) ([]InitiativeResult, error)

	// RollDeathSave advances a death-save tally by one roll
	RollDeathSave(successes, failures int) (*DeathSaveResult, error)

	// RollAbilityScore rolls 4d6 drop lowest
	RollAbilityScore() (*AbilityScoreRoll, error)

	// RollAbilityScoreSet rolls a full set of six ability scores
	RollAbilityScoreSet() ([]*AbilityScoreRoll, error)
}

// CheckOptions carries the optional parts of an ability check
type CheckOptions struct {
	Skill           shared.Skill
	AdvantageStatus shared.AdvantageStatus
}

// D20Result is a single d20 resolution with both raw rolls retained
type D20Result struct {
	Roll            int   `json:"roll"`
	Rolls           []int `json:"rolls"`
	HadAdvantage    bool  `json:"had_advantage"`
	HadDisadvantage bool  `json:"had_disadvantage"`
}

// AbilityCheckResult is the outcome of an ability or skill check
type AbilityCheckResult struct {
	Ability          shared.Attribute `json:"ability"`
	Skill            shared.Skill     `json:"skill,omitempty"`
	D20              *D20Result       `json:"d20"`
	AbilityModifier  int              `json:"ability_modifier"`
	ProficiencyBonus int              `json:"proficiency_bonus"`
	Total            int              `json:"total"`
	DC               int              `json:"dc"`
	Success          bool             `json:"success"`
	CriticalSuccess  bool             `json:"critical_success"`
	CriticalFailure  bool             `json:"critical_failure"`
}

// SavingThrowResult is the outcome of a saving throw
type SavingThrowResult struct {
	Ability          shared.Attribute `json:"ability"`
	D20              *D20Result       `json:"d20"`
	AbilityModifier  int              `json:"ability_modifier"`
	ProficiencyBonus int              `json:"proficiency_bonus"`
	Total            int              `json:"total"`
	DC               int              `json:"dc"`
	Success          bool             `json:"success"`
	CriticalSuccess  bool             `json:"critical_success"`
	CriticalFailure  bool             `json:"critical_failure"`
}

// AttackInput describes one attack roll
type AttackInput struct {
	Attacker        string
	Target          string
	TargetAC        int
	AttackBonus     int
	Weapon          string
	AdvantageStatus shared.AdvantageStatus
}

// AttackRollResult is the outcome of an attack roll
type AttackRollResult struct {
	Attacker          string     `json:"attacker"`
	Target            string     `json:"target"`
	Weapon            string     `json:"weapon,omitempty"`
	D20               *D20Result `json:"d20"`
	AttackBonus       int        `json:"attack_bonus"`
	Total             int        `json:"total"`
	TargetAC          int        `json:"target_ac"`
	Hit               bool       `json:"hit"`
	IsCritical        bool       `json:"is_critical"`
	IsCriticalFailure bool       `json:"is_critical_failure"`
}

// DamageSource is an extra damage rider on top of the base roll
type DamageSource struct {
	Notation   string
	DamageType string
	Source     string
}

// DamageInput describes one damage roll
type DamageInput struct {
	Notation          string
	DamageType        string
	Modifier          int
	IsCritical        bool
	AdditionalSources []DamageSource
}

// AdditionalDamageResult is the resolved value of one extra damage source
type AdditionalDamageResult struct {
	Source     string `json:"source,omitempty"`
	Notation   string `json:"notation"`
	DamageType string `json:"damage_type"`
	Rolls      []int  `json:"rolls"`
	Total      int    `json:"total"`
}

// DamageRollResult is the outcome of a damage roll
type DamageRollResult struct {
	Notation         string                   `json:"notation"`
	DamageType       string                   `json:"damage_type"`
	Rolls            []int                    `json:"rolls"`
	Modifier         int                      `json:"modifier"`
	BaseDamage       int                      `json:"base_damage"`
	AdditionalDamage []AdditionalDamageResult `json:"additional_damage,omitempty"`
	TotalDamage      int                      `json:"total_damage"`
	IsCritical       bool                     `json:"is_critical"`
}

// InitiativeEntry is one participant's initiative request
type InitiativeEntry struct {
	ID          string
	Name        string
	DexModifier int
}

// InitiativeResult is one participant's rolled initiative
type InitiativeResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Roll     int    `json:"roll"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
}

// DeathSaveResult is the outcome of a single death saving throw
type DeathSaveResult struct {
	Roll            int  `json:"roll"`
	NewSuccesses    int  `json:"new_successes"`
	NewFailures     int  `json:"new_failures"`
	Stable          bool `json:"stable"`
	Dead            bool `json:"dead"`
	CriticalSuccess bool `json:"critical_success"` // natural 20, regains consciousness
	CriticalFailure bool `json:"critical_failure"` // natural 1, two failures
}

// DeathSaveState tracks a dying combatant's running tally between turns
type DeathSaveState struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Apply folds one roll result into the tally
func (d *DeathSaveState) Apply(result *DeathSaveResult) {
	d.Successes = result.NewSuccesses
	d.Failures = result.NewFailures
}

// Resolved reports whether the tally has reached an outcome
func (d *DeathSaveState) Resolved() bool {
	return d.Successes >= 3 || d.Failures >= 3
}

// AbilityScoreRoll is one 4d6-drop-lowest generation
type AbilityScoreRoll struct {
	Rolls   []int `json:"rolls"` // all four dice
	Dropped int   `json:"dropped"`
	Total   int   `json:"total"` // sum of the kept three, 3-18
}

type service struct {
	roller dice.Roller
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Roller dice.Roller
}

// NewService creates a new roll service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Roller == nil {
		panic("roller is required")
	}
	return &service{roller: cfg.Roller}
}

func (s *service) Roll(notation, reason string) (*dice.BasicRollResult, error) {
	return dice.RollString(s.roller, notation, reason)
}

func (s *service) RollD20(status shared.AdvantageStatus) (*D20Result, error) {
	var result *dice.RollResult
	var err error

	switch status {
	case shared.AdvantageStatusAdvantage:
		result, err = s.roller.RollWithAdvantage(20, 0)
	case shared.AdvantageStatusDisadvantage:
		result, err = s.roller.RollWithDisadvantage(20, 0)
	default:
		result, err = s.roller.Roll(1, 20, 0)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll d20")
	}

	return &D20Result{
		Roll:            result.RawTotal,
		Rolls:           result.Rolls,
		HadAdvantage:    status == shared.AdvantageStatusAdvantage,
		HadDisadvantage: status == shared.AdvantageStatusDisadvantage,
	}, nil
}

func (s *service) RollAbilityCheck(char *character.Character, ability shared.Attribute, dc int, opts *CheckOptions) (*AbilityCheckResult, error) {
	if opts == nil {
		opts = &CheckOptions{}
	}

	d20, err := s.RollD20(opts.AdvantageStatus)
	if err != nil {
		return nil, err
	}

	// Base modifier comes from the stated ability unless a skill with a
	// different governing ability was supplied.
	abilityMod := char.Abilities.Modifier(ability)
	proficiency := 0
	if opts.Skill != "" {
		if governing := opts.Skill.GoverningAbility(); governing != shared.AttributeNone && governing != ability {
			abilityMod = char.Abilities.Modifier(governing)
		}
		switch {
		case char.HasExpertise(opts.Skill):
			proficiency = 2 * char.ProficiencyBonus()
		case char.IsProficientInSkill(opts.Skill):
			proficiency = char.ProficiencyBonus()
		}
	}

	total := d20.Roll + abilityMod + proficiency
	success := total >= dc
	// Natural 20 always succeeds, natural 1 always fails
	if d20.Roll == 20 {
		success = true
	}
	if d20.Roll == 1 {
		success = false
	}

	return &AbilityCheckResult{
		Ability:          ability,
		Skill:            opts.Skill,
		D20:              d20,
		AbilityModifier:  abilityMod,
		ProficiencyBonus: proficiency,
		Total:            total,
		DC:               dc,
		Success:          success,
		CriticalSuccess:  d20.Roll == 20,
		CriticalFailure:  d20.Roll == 1,
	}, nil
}

func (s *service) RollSavingThrow(char *character.Character, ability shared.Attribute, dc int, status shared.AdvantageStatus) (*SavingThrowResult, error) {
	d20, err := s.RollD20(status)
	if err != nil {
		return nil, err
	}

	abilityMod := char.Abilities.Modifier(ability)
	proficiency := 0
	if char.IsProficientInSave(ability) {
		proficiency = char.ProficiencyBonus()
	}

	total := d20.Roll + abilityMod + proficiency
	success := total >= dc
	if d20.Roll == 20 {
		success = true
	}
	if d20.Roll == 1 {
		success = false
	}

	return &SavingThrowResult{
		Ability:          ability,
		D20:              d20,
		AbilityModifier:  abilityMod,
		ProficiencyBonus: proficiency,
		Total:            total,
		DC:               dc,
		Success:          success,
		CriticalSuccess:  d20.Roll == 20,
		CriticalFailure:  d20.Roll == 1,
	}, nil
}

func (s *service) RollAttack(input *AttackInput) (*AttackRollResult, error) {
	d20, err := s.RollD20(input.AdvantageStatus)
	if err != nil {
		return nil, err
	}

	total := d20.Roll + input.AttackBonus
	hit := total >= input.TargetAC
	// Natural 20 always hits, natural 1 always misses, regardless of AC
	if d20.Roll == 20 {
		hit = true
	}
	if d20.Roll == 1 {
		hit = false
	}

	return &AttackRollResult{
		Attacker:          input.Attacker,
		Target:            input.Target,
		Weapon:            input.Weapon,
		D20:               d20,
		AttackBonus:       input.AttackBonus,
		Total:             total,
		TargetAC:          input.TargetAC,
		Hit:               hit,
		IsCritical:        d20.Roll == 20,
		IsCriticalFailure: d20.Roll == 1,
	}, nil
}

func (s *service) RollDamage(input *DamageInput) (*DamageRollResult, error) {
	rolls, diceTotal, modifier, err := s.rollDamageDice(input.Notation, input.IsCritical)
	if err != nil {
		return nil, err
	}

	baseDamage := diceTotal + modifier + input.Modifier
	total := baseDamage

	var additional []AdditionalDamageResult
	for _, src := range input.AdditionalSources {
		srcRolls, srcTotal, srcModifier, srcErr := s.rollDamageDice(src.Notation, input.IsCritical)
		if srcErr != nil {
			return nil, srcErr
		}
		resolved := AdditionalDamageResult{
			Source:     src.Source,
			Notation:   src.Notation,
			DamageType: src.DamageType,
			Rolls:      srcRolls,
			Total:      srcTotal + srcModifier,
		}
		additional = append(additional, resolved)
		total += resolved.Total
	}

	// Damage is never negative
	if total < 0 {
		total = 0
	}

	return &DamageRollResult{
		Notation:         input.Notation,
		DamageType:       input.DamageType,
		Rolls:            rolls,
		Modifier:         modifier + input.Modifier,
		BaseDamage:       baseDamage,
		AdditionalDamage: additional,
		TotalDamage:      total,
		IsCritical:       input.IsCritical,
	}, nil
}

// rollDamageDice rolls a damage notation, doubling the die count (not the
// sides, not the modifier) on a critical hit.
func (s *service) rollDamageDice(notation string, isCritical bool) (rolls []int, diceTotal, modifier int, err error) {
	spec, err := dice.Parse(notation)
	if err != nil {
		return nil, 0, 0, err
	}

	count := spec.Count
	if isCritical {
		count *= 2
	}

	result, err := s.roller.Roll(count, spec.Sides, 0)
	if err != nil {
		return nil, 0, 0, dnderr.Wrapf(err, "failed to roll damage %q", notation)
	}

	return result.Rolls, result.RawTotal, spec.Modifier, nil
}

func (s *service) RollInitiative(entries []InitiativeEntry) ([]InitiativeResult, error) {
	results := make([]InitiativeResult, 0, len(entries))
	for _, entry := range entries {
		roll, err := s.roller.Roll(1, 20, 0)
		if err != nil {
			return nil, dnderr.Wrap(err, "failed to roll initiative")
		}
		results = append(results, InitiativeResult{
			ID:       entry.ID,
			Name:     entry.Name,
			Roll:     roll.RawTotal,
			Modifier: entry.DexModifier,
			Total:    roll.RawTotal + entry.DexModifier,
		})
	}

	// Descending by total, ties broken by descending modifier; the stable
	// sort leaves equal keys in original input order as the final tiebreak.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Total != results[j].Total {
			return results[i].Total > results[j].Total
		}
		return results[i].Modifier > results[j].Modifier
	})

	return results, nil
}

func (s *service) RollDeathSave(successes, failures int) (*DeathSaveResult, error) {
	roll, err := s.roller.Roll(1, 20, 0)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll death save")
	}

	result := &DeathSaveResult{
		Roll:         roll.RawTotal,
		NewSuccesses: clampSaves(successes),
		NewFailures:  clampSaves(failures),
	}

	switch {
	case result.Roll == 20:
		// Regains consciousness: forced to three successes and stable
		result.NewSuccesses = 3
		result.Stable = true
		result.CriticalSuccess = true
	case result.Roll == 1:
		result.NewFailures = clampSaves(result.NewFailures + 2)
		result.CriticalFailure = true
	case result.Roll >= 10:
		result.NewSuccesses = clampSaves(result.NewSuccesses + 1)
	default:
		result.NewFailures = clampSaves(result.NewFailures + 1)
	}

	if !result.CriticalSuccess {
		if result.NewFailures >= 3 {
			result.Dead = true
		}
		if !result.Dead && result.NewSuccesses >= 3 {
			result.Stable = true
		}
	}

	return result, nil
}

func (s *service) RollAbilityScore() (*AbilityScoreRoll, error) {
	result, err := s.roller.Roll(4, 6, 0)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll ability score")
	}

	dropped := result.Rolls[0]
	for _, roll := range result.Rolls[1:] {
		if roll < dropped {
			dropped = roll
		}
	}

	return &AbilityScoreRoll{
		Rolls:   result.Rolls,
		Dropped: dropped,
		Total:   result.RawTotal - dropped,
	}, nil
}

func (s *service) RollAbilityScoreSet() ([]*AbilityScoreRoll, error) {
	set := make([]*AbilityScoreRoll, 0, 6)
	for i := 0; i < 6; i++ {
		score, err := s.RollAbilityScore()
		if err != nil {
			return nil, err
		}
		set = append(set, score)
	}
	return set, nil
}

func clampSaves(n int) int {
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}
