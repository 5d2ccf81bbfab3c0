package engine

import (
	"errors"
	"fmt"
	"sort"
)

// Direction selects which end of a frequency table TopN keeps.
type Direction string

const (
	Highest Direction = "highest"
	Lowest  Direction = "lowest"
)

var (
	ErrInvalidRankSize  = errors.New("rank size must be positive")
	ErrInvalidDirection = errors.New("direction must be highest or lowest")
)

// ParseDirection reads the highest|lowest toggle.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Highest, Lowest:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// RankedTable is a frequency table trimmed to its top or bottom entries.
type RankedTable struct {
	Direction Direction
	Entries   FrequencyTable
}

// TopN keeps the n largest (Highest, counts descending) or n smallest
// (Lowest, counts ascending) entries of table. Equal counts keep their order
// in table. n larger than the table returns all of it.
func TopN(table FrequencyTable, n int, dir Direction) (RankedTable, error) {
	if n <= 0 {
		return RankedTable{}, fmt.Errorf("%w: got %d", ErrInvalidRankSize, n)
	}
	if dir != Highest && dir != Lowest {
		return RankedTable{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	sorted := make(FrequencyTable, len(table))
	copy(sorted, table)
	if dir == Highest {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	} else {
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count < sorted[j].Count })
	}

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return RankedTable{Direction: dir, Entries: sorted}, nil
}
