// Package dnd is the drag-and-drop state machine. It only routes pointer
// events; what a completed drop means is decided by the caller.
package dnd

import "fmt"

// Phase is the state of a drag.
type Phase uint8

const (
	NotDragging Phase = iota
	Dragging
	DraggedOver
)

func (p Phase) String() string {
	switch p {
	case NotDragging:
		return "not-dragging"
	case Dragging:
		return "dragging"
	case DraggedOver:
		return "dragged-over"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// State is the machine state. Drag is set while dragging, Drop while the
// pointer is over a target.
type State[ID comparable] struct {
	Phase Phase
	Drag  ID
	Drop  ID
}

// EventKind enumerates the events the machine reacts to.
type EventKind uint8

const (
	DragStart EventKind = iota
	DragEnd
	DragEnter
	DragLeave
	DragOver
	Drop
)

// Event is one pointer event. Target names the element involved: the
// dragged element for DragStart, the hovered element otherwise.
type Event[ID comparable] struct {
	Kind   EventKind
	Target ID
}

// Completed is a finished drop of Drag onto Drop.
type Completed[ID comparable] struct {
	Drag ID
	Drop ID
}

// Idle returns the initial state.
func Idle[ID comparable]() State[ID] {
	return State[ID]{}
}

// Step applies ev to s and returns the new state plus the completed drop,
// if ev finished one. Events that make no sense in the current phase leave
// it unchanged.
func Step[ID comparable](s State[ID], ev Event[ID]) (State[ID], *Completed[ID]) {
	var zero ID
	switch ev.Kind {
	case DragStart:
		if s.Phase == NotDragging {
			return State[ID]{Phase: Dragging, Drag: ev.Target}, nil
		}
	case DragEnd:
		return Idle[ID](), nil
	case DragEnter, DragOver:
		if s.Phase == Dragging || s.Phase == DraggedOver {
			return State[ID]{Phase: DraggedOver, Drag: s.Drag, Drop: ev.Target}, nil
		}
	case DragLeave:
		if s.Phase == DraggedOver && s.Drop == ev.Target {
			return State[ID]{Phase: Dragging, Drag: s.Drag, Drop: zero}, nil
		}
	case Drop:
		switch s.Phase {
		case DraggedOver:
			return Idle[ID](), &Completed[ID]{Drag: s.Drag, Drop: s.Drop}
		case Dragging:
			return Idle[ID](), nil
		}
	}
	return s, nil
}

// Machine wraps Step for callers that keep the state in one place.
type Machine[ID comparable] struct {
	state State[ID]
}

// State returns the current state.
func (m *Machine[ID]) State() State[ID] { return m.state }

// Handle feeds ev into the machine and reports a completed drop.
func (m *Machine[ID]) Handle(ev Event[ID]) (Completed[ID], bool) {
	next, done := Step(m.state, ev)
	m.state = next
	if done == nil {
		return Completed[ID]{}, false
	}
	return *done, true
}
