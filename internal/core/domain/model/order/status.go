package order

import (
	"fmt"

	"hawker/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	pending ──> assigned ──> preparing ──> delivering ──> completed
//	   │  ▲        │  │                        │
//	   │  └────────┘  │      (completion also allowed from assigned)
//	   │   (release)  │
//	   ▼              ▼
//	cancelled <── (cancel allowed while pending, assigned or preparing)
//
// completed and cancelled are terminal. The string forms are the wire values
// used by the Order Store and the bus events.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending means the order is waiting for a picker to claim it.
	Pending

	// Assigned means a picker has claimed the order.
	Assigned

	// Preparing means the stall is preparing the order.
	Preparing

	// Delivering means the picker is en route to the customer.
	Delivering

	// Completed means the order was delivered. Terminal.
	Completed

	// Cancelled means the order was cancelled before delivery. Terminal.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Assigned:   "assigned",
		Preparing:  "preparing",
		Delivering: "delivering",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// StatusFromString parses a wire status value.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// String returns the wire form of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// AllowsLocationEdit reports whether the drop-off point may still change.
// Once the order is delivering the destination is frozen.
func (s Status) AllowsLocationEdit() bool {
	return s == Pending || s == Assigned || s == Preparing
}

// AllowsCancel reports whether the order may still be cancelled.
func (s Status) AllowsCancel() bool {
	return s == Pending || s == Assigned || s == Preparing
}

// Assign transitions pending -> assigned. This is the claim transition; the
// losing side of a claim race sees a ConflictError here or from the store.
func (s Status) Assign() (Status, error) {
	if s != Pending {
		return 0, errs.NewConflictError("assign",
			fmt.Sprintf("order is %s, not pending", s))
	}
	return Assigned, nil
}

// Release transitions assigned -> pending when a picker gives the order back.
func (s Status) Release() (Status, error) {
	if s != Assigned {
		return 0, errs.NewConflictError("release",
			fmt.Sprintf("order is %s, not assigned", s))
	}
	return Pending, nil
}

// StartPreparing transitions assigned -> preparing.
func (s Status) StartPreparing() (Status, error) {
	if s != Assigned {
		return 0, errs.NewConflictError("prepare",
			fmt.Sprintf("order is %s, not assigned", s))
	}
	return Preparing, nil
}

// StartDelivering transitions preparing -> delivering.
func (s Status) StartDelivering() (Status, error) {
	if s != Preparing {
		return 0, errs.NewConflictError("deliver",
			fmt.Sprintf("order is %s, not preparing", s))
	}
	return Delivering, nil
}

// Complete transitions to completed. Allowed from delivering, and directly
// from assigned for pickers that hand over without status checkpoints.
func (s Status) Complete() (Status, error) {
	if s != Assigned && s != Delivering {
		return 0, errs.NewConflictError("complete",
			fmt.Sprintf("order is %s, not assigned or delivering", s))
	}
	return Completed, nil
}

// Cancel transitions to cancelled while the cancel window is open.
func (s Status) Cancel() (Status, error) {
	if !s.AllowsCancel() {
		return 0, errs.NewConflictError("cancel",
			fmt.Sprintf("order is %s and can no longer be cancelled", s))
	}
	return Cancelled, nil
}
