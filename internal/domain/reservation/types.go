package reservation

import "fmt"

type Status string

const (
	StatusReserved Status = "reserved"
	StatusPickedUp Status = "picked_up"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusPickedUp, StatusPaid, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the forward-only state machine: reserved is the only
// source state and every other status is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusReserved {
		return false
	}
	switch next {
	case StatusPickedUp, StatusPaid, StatusCanceled:
		return true
	default:
		return false
	}
}
