// simulate runs a batch of independent sample encounters through the
// engine and tallies the outcomes. Each encounter owns its own Combat
// value, so the batch can fan out with no shared state.
package main

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/fivetorches/encounter-engine/internal/config"
	"github.com/fivetorches/encounter-engine/internal/dice"
	"github.com/fivetorches/encounter-engine/internal/domain/character"
	"github.com/fivetorches/encounter-engine/internal/domain/combat"
	"github.com/fivetorches/encounter-engine/internal/domain/monster"
	"github.com/fivetorches/encounter-engine/internal/domain/shared"
	"github.com/fivetorches/encounter-engine/internal/services/encounter"
	"github.com/fivetorches/encounter-engine/internal/services/roll"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	sim := cfg.Simulation

	var victories, defeats, stalemates atomic.Int64

	var g errgroup.Group
	for i := 0; i < sim.Encounters; i++ {
		i := i
		g.Go(func() error {
			roller := dice.NewRandomRoller()
			if sim.Seed != 0 {
				roller = dice.NewSeededRoller(sim.Seed + int64(i))
			}

			outcome, ended, runErr := runEncounter(roller, sim)
			if runErr != nil {
				return runErr
			}
			switch {
			case !ended:
				stalemates.Add(1)
			case outcome == encounter.OutcomeVictory:
				victories.Add(1)
			default:
				defeats.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	fmt.Printf("Ran %d encounters: %d victories, %d defeats, %d stalemates\n",
		sim.Encounters, victories.Load(), defeats.Load(), stalemates.Load())
}

func runEncounter(roller dice.Roller, sim config.SimulationConfig) (encounter.Outcome, bool, error) {
	rollSvc := roll.NewService(&roll.ServiceConfig{Roller: roller})
	encSvc := encounter.NewService(&encounter.ServiceConfig{RollService: rollSvc})

	input := &encounter.StartCombatInput{
		Monsters: []*monster.StatBlock{sampleGoblin(), sampleGoblin()},
	}
	for i := 0; i < sim.PartySize; i++ {
		input.Characters = append(input.Characters, sampleFighter(fmt.Sprintf("Fighter %d", i+1)))
	}

	cb, err := encSvc.StartCombat(input)
	if err != nil {
		return "", false, err
	}

	for cb.IsActive && cb.Round <= sim.MaxRounds {
		current := encSvc.GetCurrentCombatant(cb)
		if current == nil {
			break
		}

		if target := pickTarget(cb, current); target != nil {
			cb, err = attack(encSvc, rollSvc, cb, current, target)
			if err != nil {
				return "", false, err
			}
		}

		if check := encSvc.CheckCombatEnd(cb); check.ShouldEnd {
			result := encSvc.EndCombat(cb, check.SuggestedOutcome)
			return result.Outcome, true, nil
		}

		cb = encSvc.NextTurn(cb)
	}

	return "", false, nil
}

func attack(encSvc encounter.Service, rollSvc roll.Service, cb *combat.Combat, attacker, target *combat.Combatant) (*combat.Combat, error) {
	attackResult, err := rollSvc.RollAttack(&roll.AttackInput{
		Attacker:    attacker.Name,
		Target:      target.Name,
		TargetAC:    target.AC,
		AttackBonus: 4,
	})
	if err != nil {
		return nil, err
	}

	cb = encSvc.UseAction(cb, attacker.ID)
	if !attackResult.Hit {
		return cb, nil
	}

	damageResult, err := rollSvc.RollDamage(&roll.DamageInput{
		Notation:   "1d8",
		DamageType: "slashing",
		Modifier:   2,
		IsCritical: attackResult.IsCritical,
	})
	if err != nil {
		return nil, err
	}

	output, err := encSvc.ApplyDamage(cb, &encounter.ApplyDamageInput{
		TargetID:   target.ID,
		Amount:     damageResult.TotalDamage,
		DamageType: damageResult.DamageType,
		Source:     attacker.Name,
	})
	if err != nil {
		return nil, err
	}
	return output.Combat, nil
}

// pickTarget returns the first active combatant on the other side
func pickTarget(cb *combat.Combat, attacker *combat.Combatant) *combat.Combatant {
	for _, c := range cb.InitiativeOrder {
		if c.Status != combat.CombatantStatusActive || c.ID == attacker.ID {
			continue
		}
		if c.IsPlayer != attacker.IsPlayer {
			return c
		}
	}
	return nil
}

func sampleFighter(name string) *character.Character {
	return &character.Character{
		ID:    name,
		Name:  name,
		Level: 3,
		Abilities: shared.AbilityScores{
			Strength: 16, Dexterity: 14, Constitution: 14,
			Intelligence: 10, Wisdom: 12, Charisma: 8,
		},
		HP:    shared.HPResource{Current: 28, Max: 28},
		AC:    16,
		Speed: 30,
		Proficiencies: character.Proficiencies{
			SavingThrows: []shared.Attribute{shared.AttributeStrength, shared.AttributeConstitution},
			Skills:       []shared.Skill{shared.SkillAthletics, shared.SkillIntimidation},
		},
	}
}

func sampleGoblin() *monster.StatBlock {
	return &monster.StatBlock{
		Name: "Goblin",
		Size: "Small", Type: "humanoid", Alignment: "neutral evil",
		AC:     15,
		HP:     7,
		Speeds: map[string]int{"walk": 30},
		Abilities: shared.AbilityScores{
			Strength: 8, Dexterity: 14, Constitution: 10,
			Intelligence: 10, Wisdom: 8, Charisma: 8,
		},
		Actions: []monster.Action{{
			Name:        "Scimitar",
			AttackBonus: 4,
			Damage:      "1d6+2",
			DamageType:  "slashing",
		}},
		CR: 0.25,
		XP: 50,
	}
}
