package algebra

import "strconv"

// ============================================================
// Kind, Axis, Slot
// ============================================================

// Kind tags a Variable.
type Kind uint8

const (
	Symbolic Kind = iota
	Free
	Dependent
)

func (k Kind) String() string {
	switch k {
	case Symbolic:
		return "symbolic"
	case Free:
		return "free"
	case Dependent:
		return "dependent"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Axis selects the x or y coordinate of a point.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Slot is a template role. SlotM is the point being constructed; the
// remaining slots name reference points.
type Slot uint8

const (
	SlotM Slot = iota
	SlotA
	SlotB
	SlotC
	SlotD
	SlotE
	SlotF
	SlotG
	SlotH
	numSlots
)

var slotNames = [numSlots]string{"0", "A", "B", "C", "D", "E", "F", "G", "H"}

func (s Slot) String() string {
	if s < numSlots {
		return slotNames[s]
	}
	return "slot(" + strconv.Itoa(int(s)) + ")"
}

// Slots returns every valid slot in order.
func Slots() []Slot {
	out := make([]Slot, numSlots)
	for i := range out {
		out[i] = Slot(i)
	}
	return out
}

// ============================================================
// Variable
// ============================================================

// Variable is a tagged union: symbolic coordinates use Axis and Slot,
// free and dependent variables use Index.
type Variable struct {
	Kind  Kind
	Axis  Axis
	Slot  Slot
	Index int
}

// U returns the free parameter u<i>.
func U(i int) Variable { return Variable{Kind: Free, Index: i} }

// X returns the dependent variable x<i>.
func X(i int) Variable { return Variable{Kind: Dependent, Index: i} }

// SX returns the symbolic x coordinate of slot s.
func SX(s Slot) Variable { return Variable{Kind: Symbolic, Axis: AxisX, Slot: s} }

// SY returns the symbolic y coordinate of slot s.
func SY(s Slot) Variable { return Variable{Kind: Symbolic, Axis: AxisY, Slot: s} }

func (v Variable) IsFree() bool      { return v.Kind == Free }
func (v Variable) IsDependent() bool { return v.Kind == Dependent }
func (v Variable) IsSymbolic() bool  { return v.Kind == Symbolic }

func (v Variable) String() string {
	switch v.Kind {
	case Free:
		return "u" + strconv.Itoa(v.Index)
	case Dependent:
		return "x" + strconv.Itoa(v.Index)
	}
	return v.Axis.String() + v.Slot.String()
}

// compareVars orders symbolic < free < dependent, then by slot/axis or index.
func compareVars(a, b Variable) int {
	if a.Kind != b.Kind {
		return cmpInt(int(a.Kind), int(b.Kind))
	}
	if a.Kind == Symbolic {
		if a.Slot != b.Slot {
			return cmpInt(int(a.Slot), int(b.Slot))
		}
		return cmpInt(int(a.Axis), int(b.Axis))
	}
	return cmpInt(a.Index, b.Index)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
