// Package order contains the Order aggregate and its lifecycle state machine.
//
// An Order is owned durably by the external Order Store; instances of this
// aggregate in coordinator memory are working copies. All state transitions
// are validated here, but the authoritative tie-break for concurrent claims is
// the store's conditional write, never the in-memory copy.
package order
