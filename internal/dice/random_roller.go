package dice

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
)

// roller implements Roller over any single-die source
type roller struct {
	die func(sides int) int
}

// NewRandomRoller creates a roller backed by crypto/rand. If the system
// entropy source fails mid-roll it falls back to math/rand rather than
// aborting the roll; constrained environments (wasm sandboxes, some test
// harnesses) are the only place that happens in practice.
func NewRandomRoller() Roller {
	return &roller{die: cryptoDie}
}

// NewSeededRoller creates a deterministic roller from a seed. Intended for
// test harnesses and reproducible simulations.
func NewSeededRoller(seed int64) Roller {
	src := mrand.New(mrand.NewSource(seed))
	return &roller{die: func(sides int) int {
		return src.Intn(sides) + 1
	}}
}

func cryptoDie(sides int) int {
	n, err := crand.Int(crand.Reader, big.NewInt(int64(sides)))
	if err != nil {
		return mrand.Intn(sides) + 1
	}
	return int(n.Int64()) + 1
}

// Roll implements Roller.Roll
func (r *roller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, ErrInvalidDiceCount
	}
	if sides < 1 {
		return nil, ErrInvalidDiceSides
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		rolls[i] = r.die(sides)
		rawTotal += rolls[i]
	}

	result := &RollResult{
		Total:    rawTotal + bonus,
		RawTotal: rawTotal,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
	}

	// Check for crit/fumble on d20
	if count == 1 && sides == 20 {
		result.IsCrit = rolls[0] == 20
		result.IsFumble = rolls[0] == 1
	}

	return result, nil
}

// RollWithAdvantage implements Roller.RollWithAdvantage
func (r *roller) RollWithAdvantage(sides, bonus int) (*RollResult, error) {
	return r.rollTwice(sides, bonus, true)
}

// RollWithDisadvantage implements Roller.RollWithDisadvantage
func (r *roller) RollWithDisadvantage(sides, bonus int) (*RollResult, error) {
	return r.rollTwice(sides, bonus, false)
}

func (r *roller) rollTwice(sides, bonus int, takeHigher bool) (*RollResult, error) {
	if sides < 1 {
		return nil, ErrInvalidDiceSides
	}

	roll1 := r.die(sides)
	roll2 := r.die(sides)

	selected := roll1
	if takeHigher && roll2 > roll1 {
		selected = roll2
	}
	if !takeHigher && roll2 < roll1 {
		selected = roll2
	}

	result := &RollResult{
		Total:    selected + bonus,
		RawTotal: selected,
		Rolls:    []int{roll1, roll2}, // both raw rolls retained for display
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
