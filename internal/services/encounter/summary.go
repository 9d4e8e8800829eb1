package encounter

import (
	"fmt"
	"strings"

	"github.com/fivetorches/encounter-engine/internal/domain/combat"
)

// CombatSummary renders the encounter state. Display-only; nothing here
// feeds back into the rules.
func (s *service) CombatSummary(cb *combat.Combat) string {
	if !cb.IsActive {
		return "Combat has ended."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Round %d**\n", cb.Round)

	if current := s.GetCurrentCombatant(cb); current != nil {
		fmt.Fprintf(&sb, "Current turn: %s\n", current.Name)
		fmt.Fprintf(&sb, "  Action: %s | Bonus: %s | Reaction: %s | Movement: %d ft\n",
			availability(current.Resources.ActionAvailable),
			availability(current.Resources.BonusActionAvailable),
			availability(current.Resources.ReactionAvailable),
			current.Resources.MovementRemaining)
		if len(current.Conditions) > 0 {
			fmt.Fprintf(&sb, "  Conditions: %s\n", conditionList(current))
		}
	}

	sb.WriteString("\n**Initiative Order**\n")
	for i, c := range cb.InitiativeOrder {
		marker := "  "
		if i == cb.CurrentTurnIndex {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%d. %s (%d)", marker, i+1, c.Name, c.Initiative.Total)

		var tags []string
		switch c.Status {
		case combat.CombatantStatusDefeated:
			tags = append(tags, "Defeated")
		case combat.CombatantStatusFled:
			tags = append(tags, "Fled")
		default:
			if c.IsBloodied() {
				tags = append(tags, "Bloodied")
			}
		}
		if len(c.Conditions) > 0 {
			tags = append(tags, conditionList(c))
		}
		if len(tags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(tags, ", "))
		}
		sb.WriteString("\n")
	}

	if len(cb.EnvironmentalEffects) > 0 {
		sb.WriteString("\n**Environment**\n")
		for _, effect := range cb.EnvironmentalEffects {
			fmt.Fprintf(&sb, "- %s\n", effect)
		}
	}

	return sb.String()
}

func availability(available bool) string {
	if available {
		return "available"
	}
	return "used"
}

func conditionList(c *combat.Combatant) string {
	names := make([]string, 0, len(c.Conditions))
	for _, cond := range c.Conditions {
		names = append(names, string(cond.Type))
	}
	return strings.Join(names, ", ")
}
