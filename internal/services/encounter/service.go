package encounter

import (
	"fmt"

	"github.com/fivetorches/encounter-engine/internal/domain/character"
	"github.com/fivetorches/encounter-engine/internal/domain/combat"
	"github.com/fivetorches/encounter-engine/internal/domain/monster"
	"github.com/fivetorches/encounter-engine/internal/domain/shared"
	dnderr "github.com/fivetorches/encounter-engine/internal/errors"
	"github.com/fivetorches/encounter-engine/internal/services/roll"
	"github.com/fivetorches/encounter-engine/internal/uuid"
)

// Outcome is the advisory result of an encounter
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// Service is the combat state machine. Every operation takes the current
// Combat value and returns a new one; the input is never mutated, so the
// caller owns serialization and concurrency (one encounter, one writer).
type Service interface {
	// StartCombat rolls initiative and builds the fixed turn order
	StartCombat(input *StartCombatInput) (*combat.Combat, error)

	// GetCurrentCombatant returns the combatant whose turn it is, or nil
	// if combat has ended or the order is empty
	GetCurrentCombatant(cb *combat.Combat) *combat.Combatant

	// NextTurn advances to the next active combatant, processing end of
	// round whenever the order wraps
	NextTurn(cb *combat.Combat) *combat.Combat

	// ProcessEndOfRound ticks condition durations and increments the round
	ProcessEndOfRound(cb *combat.Combat) *combat.Combat

	// ApplyDamage deals damage to a combatant, temp HP first
	ApplyDamage(cb *combat.Combat, input *ApplyDamageInput) (*ApplyDamageOutput, error)

	// ApplyHealing heals a combatant up to max HP
	ApplyHealing(cb *combat.Combat, targetID string, amount int, source string) (*ApplyHealingOutput, error)

	// AddCondition applies a condition. No stacking: an existing entry of
	// the same type is only replaced by a strictly longer round count.
	AddCondition(cb *combat.Combat, targetID string, cond combat.ActiveCondition) (*combat.Combat, error)

	// RemoveCondition removes any condition of the given type
	RemoveCondition(cb *combat.Combat, targetID string, condType shared.ConditionType) (*combat.Combat, error)

	// HasCondition reports whether a combatant has a condition
	HasCondition(cb *combat.Combat, targetID string, condType shared.ConditionType) bool

	// UseAction marks the combatant's action as spent. Unknown ids are a
	// silent no-op; the command may simply no longer apply.
	UseAction(cb *combat.Combat, combatantID string) *combat.Combat

	// UseBonusAction marks the bonus action as spent
	UseBonusAction(cb *combat.Combat, combatantID string) *combat.Combat

	// UseReaction marks the reaction as spent
	UseReaction(cb *combat.Combat, combatantID string) *combat.Combat

	// UseMovement spends movement, floored at zero
	UseMovement(cb *combat.Combat, combatantID string, amount int) *combat.Combat

	// AddTempHP grants temporary hit points (higher value wins, no stacking)
	AddTempHP(cb *combat.Combat, targetID string, amount int) *combat.Combat

	// Flee marks a combatant as having left combat
	Flee(cb *combat.Combat, combatantID string) *combat.Combat

	// CheckCombatEnd advises whether combat should end and how
	CheckCombatEnd(cb *combat.Combat) *CombatEndCheck

	// EndCombat closes the encounter and tallies XP and survivors
	EndCombat(cb *combat.Combat, outcome Outcome) *EndCombatOutput

	// AddEnvironmentalEffect appends an environmental effect description
	AddEnvironmentalEffect(cb *combat.Combat, effect string) *combat.Combat

	// RemoveEnvironmentalEffect removes an effect by exact text match
	RemoveEnvironmentalEffect(cb *combat.Combat, effect string) *combat.Combat

	// CombatSummary renders the encounter state as human-readable text
	CombatSummary(cb *combat.Combat) string
}

// StartCombatInput contains the participants of a new encounter.
// SurprisedIDs refer to source ids (character id or monster name) and are
// translated to combatant ids when the order is built.
type StartCombatInput struct {
	Characters   []*character.Character
	Monsters     []*monster.StatBlock
	AllyMonsters []*monster.StatBlock
	SurprisedIDs []string
}

// ApplyDamageInput describes one application of damage
type ApplyDamageInput struct {
	TargetID   string
	Amount     int
	DamageType string
	Source     string
}

// ApplyDamageOutput reports what the damage actually did
type ApplyDamageOutput struct {
	Combat        *combat.Combat `json:"combat"`
	ActualDamage  int            `json:"actual_damage"`
	WasKnockedOut bool           `json:"was_knocked_out"`
	WasDowned     bool           `json:"was_downed"`
}

// ApplyHealingOutput reports what the healing actually did
type ApplyHealingOutput struct {
	Combat        *combat.Combat `json:"combat"`
	ActualHealing int            `json:"actual_healing"`
	WasRevived    bool           `json:"was_revived"`
}

// CombatEndCheck is advisory; callers decide whether to call EndCombat
type CombatEndCheck struct {
	ShouldEnd        bool    `json:"should_end"`
	SuggestedOutcome Outcome `json:"suggested_outcome,omitempty"`
}

// EndCombatOutput is the final tally of an encounter
type EndCombatOutput struct {
	Combat           *combat.Combat `json:"combat"`
	Outcome          Outcome        `json:"outcome"`
	XPEarned         int            `json:"xp_earned"`
	SurvivingPlayers []string       `json:"surviving_players"`
}

type service struct {
	rollService   roll.Service
	uuidGenerator uuid.Generator
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	RollService   roll.Service
	UUIDGenerator uuid.Generator
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.RollService == nil {
		panic("roll service is required")
	}

	svc := &service{rollService: cfg.RollService}
	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	return svc
}

func (s *service) StartCombat(input *StartCombatInput) (*combat.Combat, error) {
	combatants := make([]*combat.Combatant, 0, len(input.Characters)+len(input.Monsters)+len(input.AllyMonsters))

	for _, char := range input.Characters {
		c := &combat.Combatant{
			ID:       s.uuidGenerator.New(),
			Name:     char.Name,
			Type:     combat.CombatantTypePlayerCharacter,
			HP:       char.HP,
			AC:       char.AC,
			Speed:    char.Speed,
			Status:   combat.CombatantStatusActive,
			SourceID: char.ID,
			IsPlayer: true,
		}
		c.Initiative.Modifier = char.DexterityModifier()
		for _, cond := range char.Conditions {
			c.Conditions = append(c.Conditions, combat.ActiveCondition{
				Type:     cond,
				Source:   "pre-existing",
				Duration: shared.Duration{Type: shared.DurationUntilDispelled},
			})
		}
		combatants = append(combatants, c)
	}

	// Duplicate enemy names get a 1-based ordinal so the display can tell
	// Goblin 1 from Goblin 2
	nameCounts := make(map[string]int)
	for _, m := range input.Monsters {
		nameCounts[m.Name]++
	}
	nameOrdinals := make(map[string]int)
	for _, m := range input.Monsters {
		name := m.Name
		if nameCounts[m.Name] > 1 {
			nameOrdinals[m.Name]++
			name = fmt.Sprintf("%s %d", m.Name, nameOrdinals[m.Name])
		}
		combatants = append(combatants, monsterCombatant(s.uuidGenerator.New(), name, m, combat.CombatantTypeEnemy))
	}

	for _, m := range input.AllyMonsters {
		name := m.Name + " (Ally)"
		combatants = append(combatants, monsterCombatant(s.uuidGenerator.New(), name, m, combat.CombatantTypeAlly))
	}

	entries := make([]roll.InitiativeEntry, 0, len(combatants))
	for _, c := range combatants {
		entries = append(entries, roll.InitiativeEntry{
			ID:          c.ID,
			Name:        c.Name,
			DexModifier: c.Initiative.Modifier,
		})
	}

	results, err := s.rollService.RollInitiative(entries)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to roll initiative")
	}

	byID := make(map[string]*combat.Combatant, len(combatants))
	for _, c := range combatants {
		byID[c.ID] = c
	}

	order := make([]*combat.Combatant, 0, len(results))
	for _, result := range results {
		c := byID[result.ID]
		c.Initiative = combat.Initiative{
			Roll:     result.Roll,
			Modifier: result.Modifier,
			Total:    result.Total,
		}
		c.Resources.Reset(c.Speed)
		order = append(order, c)
	}

	cb := &combat.Combat{
		ID:               s.uuidGenerator.New(),
		Round:            1,
		InitiativeOrder:  order,
		CurrentTurnIndex: 0,
		IsActive:         true,
	}

	// Surprise set arrives as source ids; store the generated combatant ids
	for _, sourceID := range input.SurprisedIDs {
		for _, c := range order {
			if c.SourceID == sourceID {
				cb.SurprisedCombatantIDs = append(cb.SurprisedCombatantIDs, c.ID)
			}
		}
	}

	cb.AddLogEntry(fmt.Sprintf("Combat begins with %d combatants", len(order)))

	return cb, nil
}

func monsterCombatant(id, name string, m *monster.StatBlock, ctype combat.CombatantType) *combat.Combatant {
	return &combat.Combatant{
		ID:   id,
		Name: name,
		Type: ctype,
		Initiative: combat.Initiative{
			Modifier: m.DexterityModifier(),
		},
		HP:       shared.HPResource{Current: m.HP, Max: m.HP},
		AC:       m.AC,
		Speed:    m.WalkSpeed(),
		Status:   combat.CombatantStatusActive,
		SourceID: m.Name,
		XPValue:  m.XP,
	}
}

func (s *service) GetCurrentCombatant(cb *combat.Combat) *combat.Combatant {
	if !cb.IsActive || len(cb.InitiativeOrder) == 0 {
		return nil
	}
	if cb.CurrentTurnIndex < 0 || cb.CurrentTurnIndex >= len(cb.InitiativeOrder) {
		return nil
	}
	return cb.InitiativeOrder[cb.CurrentTurnIndex]
}

func (s *service) NextTurn(cb *combat.Combat) *combat.Combat {
	next := cb.Clone()

	if !next.HasActiveCombatants() {
		next.IsActive = false
		return next
	}

	for {
		landed := false
		// One full pass of the order bounds the search; every step that
		// wraps to index 0 closes out the round first.
		for steps := 0; steps < len(next.InitiativeOrder); steps++ {
			next.CurrentTurnIndex = (next.CurrentTurnIndex + 1) % len(next.InitiativeOrder)
			if next.CurrentTurnIndex == 0 {
				endOfRound(next)
			}
			if next.InitiativeOrder[next.CurrentTurnIndex].Status == combat.CombatantStatusActive {
				landed = true
				break
			}
		}
		if !landed {
			next.IsActive = false
			return next
		}

		current := next.InitiativeOrder[next.CurrentTurnIndex]
		current.Resources.Reset(current.Speed)

		// Surprised combatants never act during round 1
		if next.Round == 1 && next.IsSurprised(current.ID) {
			next.AddLogEntry(fmt.Sprintf("%s is surprised and loses their turn", current.Name))
			continue
		}

		return next
	}
}

func (s *service) ProcessEndOfRound(cb *combat.Combat) *combat.Combat {
	next := cb.Clone()
	endOfRound(next)
	return next
}

// endOfRound ticks round-counted conditions on every combatant and
// advances the round counter. Mutates in place; callers pass a clone.
func endOfRound(cb *combat.Combat) {
	for _, c := range cb.InitiativeOrder {
		c.TickConditions()
	}
	cb.Round++
}

func (s *service) ApplyDamage(cb *combat.Combat, input *ApplyDamageInput) (*ApplyDamageOutput, error) {
	next := cb.Clone()
	target := next.FindCombatant(input.TargetID)
	if target == nil {
		return nil, dnderr.NotFoundf("combatant %q not found", input.TargetID)
	}

	amount := input.Amount
	if amount < 0 {
		amount = 0
	}

	hpBefore := target.HP.Current
	actual := target.HP.Damage(amount)

	knockedOut := hpBefore > 0 && target.HP.Current == 0
	downed := knockedOut && target.IsPlayer

	if target.HP.Current == 0 {
		if target.IsPlayer {
			// Players stay active at 0 HP; the unconscious condition is
			// the signal, removed again on revival
			target.ApplyCondition(combat.ActiveCondition{
				Type:     shared.ConditionUnconscious,
				Source:   "damage",
				Duration: shared.Duration{Type: shared.DurationUntilDispelled},
			})
		} else {
			target.Status = combat.CombatantStatusDefeated
		}
	}

	entry := fmt.Sprintf("%s takes %d %s damage", target.Name, actual, input.DamageType)
	if input.Source != "" {
		entry += " from " + input.Source
	}
	if downed {
		entry += " and falls unconscious"
	} else if knockedOut {
		entry += " and is defeated"
	}
	next.AddLogEntry(entry)

	return &ApplyDamageOutput{
		Combat:        next,
		ActualDamage:  actual,
		WasKnockedOut: knockedOut,
		WasDowned:     downed,
	}, nil
}

func (s *service) ApplyHealing(cb *combat.Combat, targetID string, amount int, source string) (*ApplyHealingOutput, error) {
	next := cb.Clone()
	target := next.FindCombatant(targetID)
	if target == nil {
		return nil, dnderr.NotFoundf("combatant %q not found", targetID)
	}

	wasAtZero := target.HP.Current == 0
	actual := target.HP.Heal(amount)
	revived := wasAtZero && target.HP.Current > 0

	if revived {
		target.RemoveCondition(shared.ConditionUnconscious)
		target.Status = combat.CombatantStatusActive
	}

	entry := fmt.Sprintf("%s regains %d HP", target.Name, actual)
	if source != "" {
		entry += " from " + source
	}
	if revived {
		entry += " and is back on their feet"
	}
	next.AddLogEntry(entry)

	return &ApplyHealingOutput{
		Combat:        next,
		ActualHealing: actual,
		WasRevived:    revived,
	}, nil
}

func (s *service) AddCondition(cb *combat.Combat, targetID string, cond combat.ActiveCondition) (*combat.Combat, error) {
	next := cb.Clone()
	target := next.FindCombatant(targetID)
	if target == nil {
		return nil, dnderr.NotFoundf("combatant %q not found", targetID)
	}

	if target.ApplyCondition(cond) {
		next.AddLogEntry(fmt.Sprintf("%s is now %s (%s)", target.Name, cond.Type, cond.Source))
	}
	return next, nil
}

func (s *service) RemoveCondition(cb *combat.Combat, targetID string, condType shared.ConditionType) (*combat.Combat, error) {
	next := cb.Clone()
	target := next.FindCombatant(targetID)
	if target == nil {
		return nil, dnderr.NotFoundf("combatant %q not found", targetID)
	}

	if target.RemoveCondition(condType) {
		next.AddLogEntry(fmt.Sprintf("%s is no longer %s", target.Name, condType))
	}
	return next, nil
}

func (s *service) HasCondition(cb *combat.Combat, targetID string, condType shared.ConditionType) bool {
	target := cb.FindCombatant(targetID)
	return target != nil && target.HasCondition(condType)
}

func (s *service) UseAction(cb *combat.Combat, combatantID string) *combat.Combat {
	return s.updateResources(cb, combatantID, func(tr *combat.TurnResources) {
		tr.ActionAvailable = false
	})
}

func (s *service) UseBonusAction(cb *combat.Combat, combatantID string) *combat.Combat {
	return s.updateResources(cb, combatantID, func(tr *combat.TurnResources) {
		tr.BonusActionAvailable = false
	})
}

func (s *service) UseReaction(cb *combat.Combat, combatantID string) *combat.Combat {
	return s.updateResources(cb, combatantID, func(tr *combat.TurnResources) {
		tr.ReactionAvailable = false
	})
}

func (s *service) UseMovement(cb *combat.Combat, combatantID string, amount int) *combat.Combat {
	return s.updateResources(cb, combatantID, func(tr *combat.TurnResources) {
		tr.MovementRemaining -= amount
		if tr.MovementRemaining < 0 {
			tr.MovementRemaining = 0
		}
	})
}

// updateResources applies a resource mutation. Unknown ids are a silent
// no-op rather than an error: the command may target a combatant who has
// already left combat.
func (s *service) updateResources(cb *combat.Combat, combatantID string, fn func(*combat.TurnResources)) *combat.Combat {
	next := cb.Clone()
	if target := next.FindCombatant(combatantID); target != nil {
		fn(&target.Resources)
	}
	return next
}

func (s *service) AddTempHP(cb *combat.Combat, targetID string, amount int) *combat.Combat {
	next := cb.Clone()
	if target := next.FindCombatant(targetID); target != nil {
		target.HP.AddTemporaryHP(amount)
		next.AddLogEntry(fmt.Sprintf("%s gains %d temporary HP", target.Name, target.HP.Temporary))
	}
	return next
}

func (s *service) Flee(cb *combat.Combat, combatantID string) *combat.Combat {
	next := cb.Clone()
	if target := next.FindCombatant(combatantID); target != nil {
		target.Status = combat.CombatantStatusFled
		next.AddLogEntry(fmt.Sprintf("%s flees from combat", target.Name))
	}
	return next
}

func (s *service) CheckCombatEnd(cb *combat.Combat) *CombatEndCheck {
	activePlayers := 0
	activeEnemies := 0
	for _, c := range cb.InitiativeOrder {
		if c.Status != combat.CombatantStatusActive {
			continue
		}
		if c.IsPlayer {
			activePlayers++
		}
		if c.Type == combat.CombatantTypeEnemy {
			activeEnemies++
		}
	}

	switch {
	case activeEnemies == 0 && activePlayers > 0:
		return &CombatEndCheck{ShouldEnd: true, SuggestedOutcome: OutcomeVictory}
	case activePlayers == 0 && activeEnemies > 0:
		return &CombatEndCheck{ShouldEnd: true, SuggestedOutcome: OutcomeDefeat}
	case activePlayers == 0 && activeEnemies == 0:
		// Stalemate counts as a defeat
		return &CombatEndCheck{ShouldEnd: true, SuggestedOutcome: OutcomeDefeat}
	default:
		return &CombatEndCheck{ShouldEnd: false}
	}
}

func (s *service) EndCombat(cb *combat.Combat, outcome Outcome) *EndCombatOutput {
	next := cb.Clone()
	next.IsActive = false

	xp := 0
	var survivors []string
	for _, c := range next.InitiativeOrder {
		if c.Type == combat.CombatantTypeEnemy && c.Status == combat.CombatantStatusDefeated {
			xp += c.XPValue
		}
		if c.IsPlayer && c.Status == combat.CombatantStatusActive {
			survivors = append(survivors, c.ID)
		}
	}

	next.AddLogEntry(fmt.Sprintf("Combat ends in %s (%d XP earned)", outcome, xp))

	return &EndCombatOutput{
		Combat:           next,
		Outcome:          outcome,
		XPEarned:         xp,
		SurvivingPlayers: survivors,
	}
}

func (s *service) AddEnvironmentalEffect(cb *combat.Combat, effect string) *combat.Combat {
	next := cb.Clone()
	next.EnvironmentalEffects = append(next.EnvironmentalEffects, effect)
	return next
}

func (s *service) RemoveEnvironmentalEffect(cb *combat.Combat, effect string) *combat.Combat {
	next := cb.Clone()
	filtered := next.EnvironmentalEffects[:0]
	for _, e := range next.EnvironmentalEffects {
		if e != effect {
			filtered = append(filtered, e)
		}
	}
	next.EnvironmentalEffects = filtered
	if len(next.EnvironmentalEffects) == 0 {
		next.EnvironmentalEffects = nil
	}
	return next
}
