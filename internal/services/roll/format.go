package roll

import (
	"fmt"
	"strings"

	"github.com/fivetorches/encounter-engine/internal/dice"
)

// Display-only rendering of roll results. Nothing here feeds back into
// the rules.

// FormatBasicRoll renders a notation roll, e.g. "2d6+3: [4 5] + 3 = **12**"
func FormatBasicRoll(r *dice.BasicRollResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %v", r.Notation, r.Rolls)
	if r.Modifier > 0 {
		fmt.Fprintf(&sb, " + %d", r.Modifier)
	} else if r.Modifier < 0 {
		fmt.Fprintf(&sb, " - %d", -r.Modifier)
	}
	fmt.Fprintf(&sb, " = **%d**", r.Total)
	if r.Reason != "" {
		fmt.Fprintf(&sb, " (%s)", r.Reason)
	}
	return sb.String()
}

func formatD20(d *D20Result) string {
	switch {
	case d.HadAdvantage:
		return fmt.Sprintf("%v (advantage) → %d", d.Rolls, d.Roll)
	case d.HadDisadvantage:
		return fmt.Sprintf("%v (disadvantage) → %d", d.Rolls, d.Roll)
	default:
		return fmt.Sprintf("%d", d.Roll)
	}
}

// FormatAbilityCheck renders a check result with its outcome marker
func FormatAbilityCheck(r *AbilityCheckResult) string {
	label := string(r.Ability)
	if r.Skill != "" {
		label = fmt.Sprintf("%s (%s)", r.Skill, r.Ability)
	}

	outcome := "Failure"
	if r.Success {
		outcome = "Success"
	}
	if r.CriticalSuccess {
		outcome = "Success (natural 20)"
	}
	if r.CriticalFailure {
		outcome = "Failure (natural 1)"
	}

	return fmt.Sprintf("%s check vs DC %d: %s%+d = **%d** — %s",
		label, r.DC, formatD20(r.D20), r.AbilityModifier+r.ProficiencyBonus, r.Total, outcome)
}

// FormatSavingThrow renders a saving throw result
func FormatSavingThrow(r *SavingThrowResult) string {
	outcome := "Failure"
	if r.Success {
		outcome = "Success"
	}
	if r.CriticalSuccess {
		outcome = "Success (natural 20)"
	}
	if r.CriticalFailure {
		outcome = "Failure (natural 1)"
	}

	return fmt.Sprintf("%s save vs DC %d: %s%+d = **%d** — %s",
		r.Ability, r.DC, formatD20(r.D20), r.AbilityModifier+r.ProficiencyBonus, r.Total, outcome)
}

// FormatAttack renders an attack roll result
func FormatAttack(r *AttackRollResult) string {
	verb := "misses"
	if r.Hit {
		verb = "hits"
	}
	if r.IsCritical {
		verb = "**critically hits**"
	}
	if r.IsCriticalFailure {
		verb = "fumbles against"
	}

	weapon := ""
	if r.Weapon != "" {
		weapon = fmt.Sprintf(" with %s", r.Weapon)
	}

	return fmt.Sprintf("%s attacks %s%s: %s%+d = **%d** vs AC %d — %s",
		r.Attacker, r.Target, weapon, formatD20(r.D20), r.AttackBonus, r.Total, r.TargetAC, verb)
}

// FormatDamage renders a damage roll result
func FormatDamage(r *DamageRollResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: %v", r.Notation, r.DamageType, r.Rolls)
	if r.Modifier != 0 {
		fmt.Fprintf(&sb, "%+d", r.Modifier)
	}
	for _, add := range r.AdditionalDamage {
		fmt.Fprintf(&sb, " + %s %v", add.DamageType, add.Rolls)
	}
	fmt.Fprintf(&sb, " = **%d**", r.TotalDamage)
	if r.IsCritical {
		sb.WriteString(" (critical)")
	}
	return sb.String()
}

// FormatInitiative renders a full initiative order
func FormatInitiative(results []InitiativeResult) string {
	var sb strings.Builder
	sb.WriteString("**Initiative Order**\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s: %d%+d = **%d**\n", i+1, r.Name, r.Roll, r.Modifier, r.Total)
	}
	return sb.String()
}

// FormatDeathSave renders a death save result
func FormatDeathSave(r *DeathSaveResult) string {
	switch {
	case r.CriticalSuccess:
		return fmt.Sprintf("Death save: **%d** — regains consciousness!", r.Roll)
	case r.Dead:
		return fmt.Sprintf("Death save: **%d** — %d failures, has died", r.Roll, r.NewFailures)
	case r.Stable:
		return fmt.Sprintf("Death save: **%d** — %d successes, now stable", r.Roll, r.NewSuccesses)
	default:
		return fmt.Sprintf("Death save: **%d** — %d successes, %d failures", r.Roll, r.NewSuccesses, r.NewFailures)
	}
}

// FormatAbilityScore renders one 4d6-drop-lowest roll
func FormatAbilityScore(r *AbilityScoreRoll) string {
	return fmt.Sprintf("%v drop %d = **%d**", r.Rolls, r.Dropped, r.Total)
}
