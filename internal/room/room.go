package room

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusVacant      Status = "Vacant"
	StatusOccupied    Status = "Occupied"
	StatusReserved    Status = "Reserved"
	StatusMaintenance Status = "Maintenance"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusVacant, StatusOccupied, StatusReserved, StatusMaintenance:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown room status: %s", s)
	}
}

type Type string

const (
	TypeSingle Type = "Single"
	TypeDouble Type = "Double"
	TypeDeluxe Type = "Deluxe"
	TypeSuite  Type = "Suite"
	TypeVIP    Type = "VIP"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeSingle, TypeDouble, TypeDeluxe, TypeSuite, TypeVIP:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown room type: %s", s)
	}
}

func Types() []Type {
	return []Type{TypeSingle, TypeDouble, TypeDeluxe, TypeSuite, TypeVIP}
}

type BedType string

const (
	BedSingle BedType = "Single"
	BedDouble BedType = "Double"
	BedMaster BedType = "Master"
)

func ParseBedType(s string) (BedType, error) {
	switch BedType(s) {
	case BedSingle, BedDouble, BedMaster:
		return BedType(s), nil
	default:
		return "", fmt.Errorf("unknown bed type: %s", s)
	}
}

type Facing string

const (
	FacingNorth Facing = "North"
	FacingSouth Facing = "South"
	FacingEast  Facing = "East"
	FacingWest  Facing = "West"
)

func ParseFacing(s string) (Facing, error) {
	switch Facing(s) {
	case FacingNorth, FacingSouth, FacingEast, FacingWest:
		return Facing(s), nil
	default:
		return "", fmt.Errorf("unknown room facing: %s", s)
	}
}

var numberRe = regexp.MustCompile(`^[0-9]{2}-[0-9]{2}$`)

// ValidNumber reports whether s is a well-formed floor-unit room number,
// e.g. "02-07".
func ValidNumber(s string) bool {
	return numberRe.MatchString(s)
}

// Room is one physical room. Number is immutable; Status and the occupant
// reference move with the booking lifecycle. Rate is the flat nightly price
// before weekend and tax adjustments.
type Room struct {
	Number          string
	Type            Type
	BedType         BedType
	Facing          Facing
	Status          Status
	HasWiFi         bool
	SmokingFree     bool
	Rate            decimal.Decimal
	OccupantContact string
}

// Matches reports whether the room has the requested type, bed type and
// facing. Candidate filtering for availability and reassignment always keys
// on these three attributes.
func (r *Room) Matches(t Type, b BedType, f Facing) bool {
	return r.Type == t && r.BedType == b && r.Facing == f
}
