package dice

import (
	"regexp"
	"strconv"
	"strings"

	dnderr "github.com/fivetorches/encounter-engine/internal/errors"
)

// Sentinel parse errors. Match with errors.Is.
var (
	ErrInvalidNotation  = dnderr.InvalidArgument("invalid dice notation")
	ErrInvalidDiceCount = dnderr.InvalidArgument("dice count must be between 1 and 100")
	ErrInvalidDiceSides = dnderr.InvalidArgument("dice sides must be between 1 and 100")
)

// RollSpec is a parsed dice expression. KeepHighest/KeepLowest are
// mutually exclusive by construction of the grammar; zero means no keep
// clause was present.
type RollSpec struct {
	Count       int
	Sides       int
	Modifier    int
	KeepHighest int
	KeepLowest  int
}

// notation grammar: [count]d<sides>[kh<N>|kl<N>][+|-modifier]
// matched case-insensitively after stripping whitespace
var notationRegex = regexp.MustCompile(`^(\d+)?d(\d+)(?:(kh|kl)(\d+))?([+-]\d+)?$`)

// Parse converts a dice notation string into a RollSpec
func Parse(notation string) (*RollSpec, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(notation), ""))

	matches := notationRegex.FindStringSubmatch(normalized)
	if matches == nil {
		return nil, dnderr.Wrapf(ErrInvalidNotation, "cannot parse %q", notation)
	}

	count := 1
	if matches[1] != "" {
		parsed, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, dnderr.Wrapf(ErrInvalidNotation, "cannot parse %q", notation)
		}
		count = parsed
	}
	if count < 1 || count > 100 {
		return nil, dnderr.Wrapf(ErrInvalidDiceCount, "got %d in %q", count, notation)
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, dnderr.Wrapf(ErrInvalidNotation, "cannot parse %q", notation)
	}
	if sides < 1 || sides > 100 {
		return nil, dnderr.Wrapf(ErrInvalidDiceSides, "got %d in %q", sides, notation)
	}

	spec := &RollSpec{
		Count: count,
		Sides: sides,
	}

	if matches[3] != "" {
		keep, keepErr := strconv.Atoi(matches[4])
		if keepErr != nil {
			return nil, dnderr.Wrapf(ErrInvalidNotation, "cannot parse %q", notation)
		}
		if matches[3] == "kh" {
			spec.KeepHighest = keep
		} else {
			spec.KeepLowest = keep
		}
	}

	if matches[5] != "" {
		modifier, modErr := strconv.Atoi(matches[5])
		if modErr != nil {
			return nil, dnderr.Wrapf(ErrInvalidNotation, "cannot parse %q", notation)
		}
		spec.Modifier = modifier
	}

	return spec, nil
}
