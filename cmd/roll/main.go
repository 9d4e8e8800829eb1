// roll is a small CLI for resolving dice notation from the command line.
//
//	go run ./cmd/roll 2d6+3 1d20 4d6kh3
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fivetorches/encounter-engine/internal/dice"
	"github.com/fivetorches/encounter-engine/internal/services/roll"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: roll <notation> [notation...]")
		os.Exit(1)
	}

	svc := roll.NewService(&roll.ServiceConfig{
		Roller: dice.NewRandomRoller(),
	})

	for _, notation := range os.Args[1:] {
		result, err := svc.Roll(notation, "")
		if err != nil {
			log.Fatalf("Failed to roll %q: %v", notation, err)
		}
		fmt.Println(roll.FormatBasicRoll(result))
	}
}
