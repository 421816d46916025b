package model

import "strings"

// NationID is the numeric nation identifier used by the game
type NationID uint32

// Era partitions the nations that may be picked in a lobby
type Era int

const (
	EraNone   Era = 0 // Live-roster nations carry no era
	EraEarly  Era = 1
	EraMiddle Era = 2
	EraLate   Era = 3
)

// Valid reports whether e is one of the three game eras
func (e Era) Valid() bool {
	return e >= EraEarly && e <= EraLate
}

func (e Era) String() string {
	switch e {
	case EraEarly:
		return "EA"
	case EraMiddle:
		return "MA"
	case EraLate:
		return "LA"
	default:
		return ""
	}
}

// ParseEra accepts the short (EA/MA/LA) or long (early/middle/late) era name
func ParseEra(s string) (Era, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ea", "early":
		return EraEarly, nil
	case "ma", "middle":
		return EraMiddle, nil
	case "la", "late":
		return EraLate, nil
	default:
		return EraNone, ErrInvalidEra
	}
}

// Nation is a selectable faction
type Nation struct {
	ID   NationID
	Name string
	Era  Era
}
