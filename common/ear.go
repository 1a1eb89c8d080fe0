package common

// Ear identifies a stereo channel. The string values double as the persisted
// representation of the implant side ("L" / "R").
type Ear string

const (
	Left  Ear = "L"
	Right Ear = "R"
)

// Ears lists both channels in display order.
var Ears = [2]Ear{Left, Right}

// ParseEar converts a stored or user-supplied value to an Ear.
func ParseEar(s string) (Ear, bool) {
	switch s {
	case "L", "l":
		return Left, true
	case "R", "r":
		return Right, true
	}
	return "", false
}

// Other returns the opposite channel.
func (e Ear) Other() Ear {
	if e == Left {
		return Right
	}
	return Left
}

// Pan returns the stereo position of the ear: -1 = full left, +1 = full right.
func (e Ear) Pan() float64 {
	if e == Left {
		return -1
	}
	return 1
}

// Index returns 0 for Left and 1 for Right.
func (e Ear) Index() int {
	if e == Left {
		return 0
	}
	return 1
}

func (e Ear) String() string {
	return string(e)
}

// ActualEar maps a displayed column to the channel it controls.
//
// The first column always shows the non-implant ear. With the implant on the
// right that is the left ear, so the columns read L, R. With the implant on the
// left the columns are mirrored. Every display-to-storage translation goes
// through this function.
func ActualEar(displayed, ciSide Ear) Ear {
	if ciSide == Left {
		return displayed.Other()
	}
	return displayed
}

// DisplayedEar is the inverse of ActualEar.
func DisplayedEar(actual, ciSide Ear) Ear {
	// The mapping is an involution.
	return ActualEar(actual, ciSide)
}

// NonImplantEar returns the ear that is tuned to match the implant.
func NonImplantEar(ciSide Ear) Ear {
	return ciSide.Other()
}
