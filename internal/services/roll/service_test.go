package roll_test

import (
	"testing"

	"github.com/fivetorches/encounter-engine/internal/dice"
	mockdice "github.com/fivetorches/encounter-engine/internal/dice/mock"
	"github.com/fivetorches/encounter-engine/internal/domain/character"
	"github.com/fivetorches/encounter-engine/internal/domain/shared"
	"github.com/fivetorches/encounter-engine/internal/services/roll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(roller dice.Roller) roll.Service {
	return roll.NewService(&roll.ServiceConfig{Roller: roller})
}

func testCharacter() *character.Character {
	return &character.Character{
		ID:    "rogue-1",
		Name:  "Thia",
		Level: 5, // proficiency bonus 3
		Abilities: shared.AbilityScores{
			Strength: 8, Dexterity: 16, Constitution: 12,
			Intelligence: 10, Wisdom: 14, Charisma: 12,
		},
		HP:    shared.HPResource{Current: 32, Max: 32},
		AC:    14,
		Speed: 30,
		Proficiencies: character.Proficiencies{
			SavingThrows: []shared.Attribute{shared.AttributeDexterity, shared.AttributeIntelligence},
			Skills:       []shared.Skill{shared.SkillPerception},
			Expertise:    []shared.Skill{shared.SkillStealth},
		},
	}
}

func TestRollD20(t *testing.T) {
	tests := []struct {
		name      string
		status    shared.AdvantageStatus
		rolls     []int
		wantRoll  int
		wantCount int
	}{
		{name: "normal", status: shared.AdvantageStatusNormal, rolls: []int{12}, wantRoll: 12, wantCount: 1},
		{name: "advantage takes max", status: shared.AdvantageStatusAdvantage, rolls: []int{5, 17}, wantRoll: 17, wantCount: 2},
		{name: "disadvantage takes min", status: shared.AdvantageStatusDisadvantage, rolls: []int{5, 17}, wantRoll: 5, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.rolls)
			svc := newService(roller)

			result, err := svc.RollD20(tt.status)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRoll, result.Roll)
			assert.Len(t, result.Rolls, tt.wantCount)
			assert.Equal(t, tt.status == shared.AdvantageStatusAdvantage, result.HadAdvantage)
			assert.Equal(t, tt.status == shared.AdvantageStatusDisadvantage, result.HadDisadvantage)
		})
	}
}

func TestRollD20_GomockRoller(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRoller := mockdice.NewMockRoller(ctrl)
	mockRoller.EXPECT().Roll(1, 20, 0).Return(&dice.RollResult{
		Total: 14, RawTotal: 14, Rolls: []int{14}, Count: 1, Sides: 20,
	}, nil)

	svc := newService(mockRoller)
	result, err := svc.RollD20(shared.AdvantageStatusNormal)
	require.NoError(t, err)
	assert.Equal(t, 14, result.Roll)
}

func TestRollAbilityCheck(t *testing.T) {
	char := testCharacter()

	tests := []struct {
		name        string
		rolls       []int
		ability     shared.Attribute
		dc          int
		opts        *roll.CheckOptions
		wantTotal   int
		wantSuccess bool
	}{
		{
			name:    "plain ability check, no skill no proficiency",
			rolls:   []int{10},
			ability: shared.AttributeDexterity,
			dc:      12,
			// 10 + 3 dex
			wantTotal:   13,
			wantSuccess: true,
		},
		{
			name:    "proficient skill adds bonus",
			rolls:   []int{10},
			ability: shared.AttributeWisdom,
			dc:      16,
			opts:    &roll.CheckOptions{Skill: shared.SkillPerception},
			// 10 + 2 wis + 3 proficiency
			wantTotal:   15,
			wantSuccess: false,
		},
		{
			name:    "expertise doubles proficiency",
			rolls:   []int{10},
			ability: shared.AttributeDexterity,
			dc:      18,
			opts:    &roll.CheckOptions{Skill: shared.SkillStealth},
			// 10 + 3 dex + 6 expertise
			wantTotal:   19,
			wantSuccess: true,
		},
		{
			name:    "skill with different governing ability uses its modifier",
			rolls:   []int{10},
			ability: shared.AttributeStrength,
			dc:      10,
			opts:    &roll.CheckOptions{Skill: shared.SkillStealth},
			// stealth is dex-governed: 10 + 3 dex + 6 expertise, not -1 str
			wantTotal:   19,
			wantSuccess: true,
		},
		{
			name:    "natural 20 succeeds against impossible DC",
			rolls:   []int{20},
			ability: shared.AttributeStrength,
			dc:      30,
			// 20 - 1 str = 19 < 30, but a natural 20 always succeeds
			wantTotal:   19,
			wantSuccess: true,
		},
		{
			name:    "natural 1 fails even when total clears DC",
			rolls:   []int{1},
			ability: shared.AttributeDexterity,
			dc:      2,
			opts:    &roll.CheckOptions{Skill: shared.SkillStealth},
			// 1 + 9 = 10 >= 2, but a natural 1 always fails
			wantTotal:   10,
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.rolls)
			svc := newService(roller)

			result, err := svc.RollAbilityCheck(char, tt.ability, tt.dc, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantSuccess, result.Success)
		})
	}
}

func TestRollAbilityCheck_WithAdvantage(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{4, 15})
	svc := newService(roller)

	result, err := svc.RollAbilityCheck(testCharacter(), shared.AttributeDexterity, 15, &roll.CheckOptions{
		AdvantageStatus: shared.AdvantageStatusAdvantage,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, result.D20.Roll)
	assert.Equal(t, 18, result.Total)
	assert.True(t, result.Success)
}

func TestRollSavingThrow(t *testing.T) {
	char := testCharacter()

	t.Run("proficient save adds bonus", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{10})
		svc := newService(roller)

		result, err := svc.RollSavingThrow(char, shared.AttributeDexterity, 16, shared.AdvantageStatusNormal)
		require.NoError(t, err)

		// 10 + 3 dex + 3 proficiency
		assert.Equal(t, 16, result.Total)
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.ProficiencyBonus)
	})

	t.Run("non-proficient save has no bonus", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{10})
		svc := newService(roller)

		result, err := svc.RollSavingThrow(char, shared.AttributeWisdom, 13, shared.AdvantageStatusNormal)
		require.NoError(t, err)

		// 10 + 2 wis
		assert.Equal(t, 12, result.Total)
		assert.False(t, result.Success)
		assert.Zero(t, result.ProficiencyBonus)
	})

	t.Run("natural 20 always succeeds", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{20})
		svc := newService(roller)

		result, err := svc.RollSavingThrow(char, shared.AttributeStrength, 30, shared.AdvantageStatusNormal)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.True(t, result.CriticalSuccess)
	})
}

func TestRollAttack(t *testing.T) {
	tests := []struct {
		name     string
		rolls    []int
		bonus    int
		targetAC int
		wantHit  bool
		wantCrit bool
	}{
		{name: "clear hit", rolls: []int{15}, bonus: 5, targetAC: 16, wantHit: true},
		{name: "exact AC hits", rolls: []int{11}, bonus: 5, targetAC: 16, wantHit: true},
		{name: "miss", rolls: []int{5}, bonus: 5, targetAC: 16, wantHit: false},
		{name: "natural 20 hits impossible AC", rolls: []int{20}, bonus: 0, targetAC: 30, wantHit: true, wantCrit: true},
		{name: "natural 1 misses trivial AC", rolls: []int{1}, bonus: 20, targetAC: 1, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.rolls)
			svc := newService(roller)

			result, err := svc.RollAttack(&roll.AttackInput{
				Attacker:    "Thia",
				Target:      "Goblin",
				TargetAC:    tt.targetAC,
				AttackBonus: tt.bonus,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantHit, result.Hit)
			assert.Equal(t, tt.wantCrit, result.IsCritical)
			assert.Equal(t, tt.rolls[0] == 1, result.IsCriticalFailure)
		})
	}
}

func TestRollDamage(t *testing.T) {
	t.Run("normal damage", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{4, 6})
		svc := newService(roller)

		result, err := svc.RollDamage(&roll.DamageInput{
			Notation:   "2d6+2",
			DamageType: "slashing",
			Modifier:   1,
		})
		require.NoError(t, err)

		assert.Equal(t, []int{4, 6}, result.Rolls)
		assert.Equal(t, 13, result.TotalDamage) // 4+6 +2 notation +1 modifier
	})

	t.Run("critical doubles die count only", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		// 2d6 doubled to 4 dice; modifier is not doubled
		roller.SetRolls([]int{4, 6, 2, 5})
		svc := newService(roller)

		result, err := svc.RollDamage(&roll.DamageInput{
			Notation:   "2d6+3",
			DamageType: "slashing",
			IsCritical: true,
		})
		require.NoError(t, err)

		assert.Len(t, result.Rolls, 4)
		assert.Equal(t, 20, result.TotalDamage) // 17 dice + 3 modifier
	})

	t.Run("critical doubles every additional source independently", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		// base 1d8 -> 2 dice, sneak attack 2d6 -> 4 dice
		roller.SetRolls([]int{8, 3, 1, 2, 3, 4})
		svc := newService(roller)

		result, err := svc.RollDamage(&roll.DamageInput{
			Notation:   "1d8",
			DamageType: "piercing",
			IsCritical: true,
			AdditionalSources: []roll.DamageSource{
				{Notation: "2d6", DamageType: "piercing", Source: "sneak attack"},
			},
		})
		require.NoError(t, err)

		assert.Len(t, result.Rolls, 2)
		require.Len(t, result.AdditionalDamage, 1)
		assert.Len(t, result.AdditionalDamage[0].Rolls, 4)
		assert.Equal(t, 21, result.TotalDamage)
	})

	t.Run("damage is never negative", func(t *testing.T) {
		roller := mockdice.NewManualMockRoller()
		roller.SetRolls([]int{1})
		svc := newService(roller)

		result, err := svc.RollDamage(&roll.DamageInput{
			Notation:   "1d4",
			DamageType: "bludgeoning",
			Modifier:   -10,
		})
		require.NoError(t, err)
		assert.Zero(t, result.TotalDamage)
	})
}

func TestRollInitiative(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{10, 15, 10, 15})
	svc := newService(roller)

	results, err := svc.RollInitiative([]roll.InitiativeEntry{
		{ID: "a", Name: "Aldric", DexModifier: 2},  // 12
		{ID: "b", Name: "Brynn", DexModifier: 1},   // 16
		{ID: "c", Name: "Caelum", DexModifier: 6},  // 16, higher modifier than b
		{ID: "d", Name: "Durnan", DexModifier: -3}, // 12, lower modifier than a
	})
	require.NoError(t, err)

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	// descending total; total ties broken by descending modifier
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
}

func TestRollInitiative_StableOnFullTie(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{10, 10})
	svc := newService(roller)

	results, err := svc.RollInitiative([]roll.InitiativeEntry{
		{ID: "first", DexModifier: 2},
		{ID: "second", DexModifier: 2},
	})
	require.NoError(t, err)

	// identical total and modifier: original input order is the tiebreak
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
}

func TestRollDeathSave(t *testing.T) {
	tests := []struct {
		name          string
		roll          int
		successes     int
		failures      int
		wantSuccesses int
		wantFailures  int
		wantStable    bool
		wantDead      bool
	}{
		{name: "natural 20 stabilizes immediately", roll: 20, successes: 0, failures: 2, wantSuccesses: 3, wantFailures: 2, wantStable: true},
		{name: "natural 1 adds two failures", roll: 1, successes: 0, failures: 0, wantSuccesses: 0, wantFailures: 2},
		{name: "natural 1 at one failure kills", roll: 1, successes: 0, failures: 1, wantSuccesses: 0, wantFailures: 3, wantDead: true},
		{name: "10 counts as success", roll: 10, successes: 0, failures: 0, wantSuccesses: 1, wantFailures: 0},
		{name: "third success stabilizes", roll: 14, successes: 2, failures: 0, wantSuccesses: 3, wantFailures: 0, wantStable: true},
		{name: "9 counts as failure", roll: 9, successes: 0, failures: 0, wantSuccesses: 0, wantFailures: 1},
		{name: "third failure kills", roll: 2, successes: 0, failures: 2, wantSuccesses: 0, wantFailures: 3, wantDead: true},
		{name: "counts clamp at 3", roll: 15, successes: 7, failures: -2, wantSuccesses: 3, wantFailures: 0, wantStable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls([]int{tt.roll})
			svc := newService(roller)

			result, err := svc.RollDeathSave(tt.successes, tt.failures)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSuccesses, result.NewSuccesses)
			assert.Equal(t, tt.wantFailures, result.NewFailures)
			assert.Equal(t, tt.wantStable, result.Stable)
			assert.Equal(t, tt.wantDead, result.Dead)
		})
	}
}

func TestDeathSaveState(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{12, 4, 16, 11})
	svc := newService(roller)

	var state roll.DeathSaveState
	for !state.Resolved() {
		result, err := svc.RollDeathSave(state.Successes, state.Failures)
		require.NoError(t, err)
		state.Apply(result)
	}

	assert.Equal(t, 3, state.Successes)
	assert.Equal(t, 1, state.Failures)
}

func TestRollAbilityScore(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{4, 2, 6, 5})
	svc := newService(roller)

	result, err := svc.RollAbilityScore()
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2, 6, 5}, result.Rolls)
	assert.Equal(t, 2, result.Dropped)
	assert.Equal(t, 15, result.Total)
}

func TestRollAbilityScoreSet(t *testing.T) {
	svc := newService(dice.NewSeededRoller(42))

	set, err := svc.RollAbilityScoreSet()
	require.NoError(t, err)
	require.Len(t, set, 6)

	for _, score := range set {
		assert.GreaterOrEqual(t, score.Total, 3)
		assert.LessOrEqual(t, score.Total, 18)
		assert.Len(t, score.Rolls, 4)
	}
}

func TestRoll_PassesThroughNotation(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{3, 4})
	svc := newService(roller)

	result, err := svc.Roll("2d6+1", "trap damage")
	require.NoError(t, err)
	assert.Equal(t, 8, result.Total)
	assert.Equal(t, "trap damage", result.Reason)
}
