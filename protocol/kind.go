package protocol

import "strconv"

// Kind is the closed set of construction kinds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFreePoint
	KindRandomPoint
	KindIntersectionPoint
	KindMidpoint
	KindTranslatedPoint
	KindRotatedPoint
	KindDividingPoint
	KindHarmonicConjugate
	KindLineThroughTwoPoints
	KindParallelLine
	KindPerpendicularLine
	KindPerpendicularBisector
	KindTangentLine
	KindCircleWithCenterAndPoint
	KindCircleThroughThreePoints
	KindConicThroughFivePoints
	numKinds
)

// Family groups kinds by the shape they construct.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyPoint
	FamilyLine
	FamilyCircle
	FamilyConic
)

var kindNames = [numKinds]string{
	KindUnknown:                  "unknown",
	KindFreePoint:                "free-point",
	KindRandomPoint:              "random-point",
	KindIntersectionPoint:        "intersection-point",
	KindMidpoint:                 "midpoint",
	KindTranslatedPoint:          "translated-point",
	KindRotatedPoint:             "rotated-point",
	KindDividingPoint:            "dividing-point",
	KindHarmonicConjugate:        "harmonic-conjugate",
	KindLineThroughTwoPoints:     "line",
	KindParallelLine:             "parallel-line",
	KindPerpendicularLine:        "perpendicular-line",
	KindPerpendicularBisector:    "perpendicular-bisector",
	KindTangentLine:              "tangent-line",
	KindCircleWithCenterAndPoint: "circle",
	KindCircleThroughThreePoints: "circumcircle",
	KindConicThroughFivePoints:   "conic",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for i := KindFreePoint; i < numKinds; i++ {
		if kindNames[i] == name {
			return i, true
		}
	}
	return KindUnknown, false
}

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := KindFreePoint; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Family reports which shape family k belongs to.
func (k Kind) Family() Family {
	switch {
	case k >= KindFreePoint && k <= KindHarmonicConjugate:
		return FamilyPoint
	case k >= KindLineThroughTwoPoints && k <= KindTangentLine:
		return FamilyLine
	case k == KindCircleWithCenterAndPoint || k == KindCircleThroughThreePoints:
		return FamilyCircle
	case k == KindConicThroughFivePoints:
		return FamilyConic
	}
	return FamilyUnknown
}
