// Package kernel contains the shared value objects of the domain model:
// identifiers, delivery locations and monetary amounts.
//
// Every type here is immutable and validated at construction. Zero values are
// invalid and fail Validate, which lets aggregates reconstructed from external
// stores detect half-initialized state instead of silently operating on it.
package kernel
