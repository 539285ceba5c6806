package types

import "strings"

// Direction selects which side of the threshold wins.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

func (d Direction) Valid() bool {
	return d == DirectionOver || d == DirectionUnder
}

// ParseDirection accepts "over"/"under" in any case.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", ErrInvalidGuess.Wrapf("unknown direction %q", s)
	}
	return d, nil
}
