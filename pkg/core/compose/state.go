package compose

// State is a step of one generation pass.
type State int

const (
	Idle State = iota
	RootHashResolved
	ShapeCountResolved
	Generating
	Composed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RootHashResolved:
		return "root-hash-resolved"
	case ShapeCountResolved:
		return "shape-count-resolved"
	case Generating:
		return "generating"
	case Composed:
		return "composed"
	}
	return "unknown"
}
