package mockdice

import (
	"fmt"
	"sync"

	"github.com/fivetorches/encounter-engine/internal/dice"
)

// ManualMockRoller implements dice.Roller for testing with predetermined results
type ManualMockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewManualMockRoller creates a new mock dice roller
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{}
}

// SetRolls sets the predetermined roll sequence and resets the cursor
func (m *ManualMockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Reset clears all rolls and resets the cursor
func (m *ManualMockRoller) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = nil
	m.rollIndex = 0
}

func (m *ManualMockRoller) next(sides int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	if roll < 1 || roll > sides {
		return 0, fmt.Errorf("invalid roll %d for d%d", roll, sides)
	}
	return roll, nil
}

// Roll implements dice.Roller.Roll
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		roll, err := m.next(sides)
		if err != nil {
			return nil, err
		}
		rolls[i] = roll
		rawTotal += roll
	}

	result := &dice.RollResult{
		Total:    rawTotal + bonus,
		RawTotal: rawTotal,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
	}
	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}
	return result, nil
}

// RollWithAdvantage implements dice.Roller.RollWithAdvantage
func (m *ManualMockRoller) RollWithAdvantage(sides, bonus int) (*dice.RollResult, error) {
	return m.rollTwice(sides, bonus, true)
}

// RollWithDisadvantage implements dice.Roller.RollWithDisadvantage
func (m *ManualMockRoller) RollWithDisadvantage(sides, bonus int) (*dice.RollResult, error) {
	return m.rollTwice(sides, bonus, false)
}

func (m *ManualMockRoller) rollTwice(sides, bonus int, takeHigher bool) (*dice.RollResult, error) {
	roll1, err := m.next(sides)
	if err != nil {
		return nil, err
	}
	roll2, err := m.next(sides)
	if err != nil {
		return nil, err
	}

	selected := roll1
	if takeHigher && roll2 > roll1 {
		selected = roll2
	}
	if !takeHigher && roll2 < roll1 {
		selected = roll2
	}

	result := &dice.RollResult{
		Total:    selected + bonus,
		RawTotal: selected,
		Rolls:    []int{roll1, roll2},
		Bonus:    bonus,
		Count:    1,
		Sides:    sides,
	}
	if sides == 20 {
		result.IsCrit = selected == 20
		result.IsFumble = selected == 1
	}
	return result, nil
}
