package model1

import (
	"fmt"
	"strings"
)

const NAValue = "n/a"

// DefaultBatchSize is the number of rows requested per window.
const DefaultBatchSize = 30

// SortType represents how a column's values are ordered.
type SortType string

const (
	SortNumber  SortType = "number"
	SortString  SortType = "string"
	SortNatural SortType = "natural"
	SortCustom  SortType = "custom"
)

// Direction represents a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid returns true if d is asc or desc.
func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// Multiplier returns +1 for asc and -1 for desc.
func (d Direction) Multiplier() int {
	if d == Desc {
		return -1
	}
	return 1
}

// ParseDirection converts a string to a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("invalid sort direction %q (expected asc or desc)", s)
	}
	return d, nil
}

// SortState tracks the active sort column and direction.
type SortState struct {
	ColumnID  string
	Direction Direction
}

// IsSet returns true if a sort column is active.
func (s SortState) IsSet() bool {
	return s.ColumnID != ""
}

func (s SortState) String() string {
	if !s.IsSet() {
		return "<none>"
	}
	return s.ColumnID + ":" + string(s.Direction)
}

// ParseSortState parses "column[:dir]" into a SortState. Direction defaults to asc.
func ParseSortState(s string) (SortState, error) {
	col, dir, found := strings.Cut(strings.TrimSpace(s), ":")
	if col == "" {
		return SortState{}, fmt.Errorf("invalid sort %q: missing column", s)
	}
	if !found {
		return SortState{ColumnID: col, Direction: Asc}, nil
	}
	d, err := ParseDirection(dir)
	if err != nil {
		return SortState{}, err
	}
	return SortState{ColumnID: col, Direction: d}, nil
}

// State represents the engine's observable load state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateEmpty
	StateExhausted
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateExhausted:
		return "exhausted"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// DecoratorFunc converts a raw field value to its display form.
type DecoratorFunc func(any) string
