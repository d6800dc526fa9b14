package encodegif

import "fmt"

// State is a node in the encoder's event-driven state machine (spec §4.2).
type State int

const (
	StateIdle State = iota
	StateWritingHeader
	StateWritingFrame
	StateFlushingFrame
	StateFinalizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateWritingHeader:
		return "WritingHeader"
	case StateWritingFrame:
		return "WritingFrame"
	case StateFlushingFrame:
		return "FlushingFrame"
	case StateFinalizing:
		return "Finalizing"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Event is one of the six transitions a caller can drive the encoder with.
type Event int

const (
	EventStartGif Event = iota
	EventStartFrame
	EventWriteImageChunk
	EventFlushFrame
	EventEndFrame
	EventEndGif
)

func (e Event) String() string {
	switch e {
	case EventStartGif:
		return "StartGif"
	case EventStartFrame:
		return "StartFrame"
	case EventWriteImageChunk:
		return "WriteImageChunk"
	case EventFlushFrame:
		return "FlushFrame"
	case EventEndFrame:
		return "EndFrame"
	case EventEndGif:
		return "EndGif"
	default:
		return "Unknown"
	}
}

// InvalidTransitionError is returned whenever an event is fed to the
// encoder in a state that does not accept it (spec §4.2: "Any other
// ordering is a programmer error and must be rejected, not silently
// tolerated").
type InvalidTransitionError struct {
	State State
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("gif: encoder: %s is not valid in state %s", e.Event, e.State)
}

// transitions is the full legal-ordering table. A state/event pair absent
// from this map is rejected.
//
//	Idle ---StartGif---> WritingHeader
//	WritingHeader ---StartFrame---> WritingFrame
//	WritingFrame ---WriteImageChunk---> WritingFrame
//	WritingFrame ---FlushFrame---> FlushingFrame
//	WritingFrame ---EndFrame---> WritingHeader
//	FlushingFrame ---EndFrame---> WritingHeader
//	WritingHeader ---EndGif---> Finalizing
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventStartGif: StateWritingHeader,
	},
	StateWritingHeader: {
		EventStartFrame: StateWritingFrame,
		EventEndGif:     StateFinalizing,
	},
	StateWritingFrame: {
		EventWriteImageChunk: StateWritingFrame,
		EventFlushFrame:      StateFlushingFrame,
		EventEndFrame:        StateWritingHeader,
	},
	StateFlushingFrame: {
		EventEndFrame: StateWritingHeader,
	},
}

func (enc *Encoder) transition(ev Event) error {
	next, ok := transitions[enc.state][ev]
	if !ok {
		return &InvalidTransitionError{State: enc.state, Event: ev}
	}
	enc.state = next
	return nil
}
