// Package dice is the engine's random source. It parses dice notation and
// rolls through a Roller so tests can substitute deterministic sources.
package dice

import (
	"fmt"
	"sort"
	"strings"
)

// RollResult holds the outcome of a single Roll call
type RollResult struct {
	Total    int
	RawTotal int // total before bonus
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
	IsCrit   bool // natural 20 on a single d20
	IsFumble bool // natural 1 on a single d20
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", ",")
	return fmt.Sprintf("**%d** : %s", r.Total, compact)
}

// BasicRollResult is the outcome of rolling a full notation expression.
// Rolls holds only the kept dice; Dropped holds dice discarded by kh/kl.
type BasicRollResult struct {
	Notation string `json:"notation"`
	Rolls    []int  `json:"rolls"`
	Dropped  []int  `json:"dropped,omitempty"`
	Modifier int    `json:"modifier"`
	Total    int    `json:"total"`
	Reason   string `json:"reason,omitempty"`
}

// RollString parses notation and rolls it with the given roller.
// reason is an opaque annotation carried through to the result.
func RollString(r Roller, notation, reason string) (*BasicRollResult, error) {
	spec, err := Parse(notation)
	if err != nil {
		return nil, err
	}

	result, err := r.Roll(spec.Count, spec.Sides, 0)
	if err != nil {
		return nil, err
	}

	kept, dropped := spec.applyKeep(result.Rolls)

	total := spec.Modifier
	for _, die := range kept {
		total += die
	}

	return &BasicRollResult{
		Notation: notation,
		Rolls:    kept,
		Dropped:  dropped,
		Modifier: spec.Modifier,
		Total:    total,
		Reason:   reason,
	}, nil
}

// applyKeep selects the kept dice for keep-highest/keep-lowest notation.
// Returns kept and dropped dice. With no keep clause all dice are kept.
func (s *RollSpec) applyKeep(rolls []int) (kept, dropped []int) {
	keep := 0
	highest := false
	switch {
	case s.KeepHighest > 0:
		keep = s.KeepHighest
		highest = true
	case s.KeepLowest > 0:
		keep = s.KeepLowest
	default:
		return rolls, nil
	}

	if keep > len(rolls) {
		keep = len(rolls)
	}

	sorted := make([]int, len(rolls))
	copy(sorted, rolls)
	if highest {
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	} else {
		sort.Ints(sorted)
	}

	return sorted[:keep], sorted[keep:]
}
