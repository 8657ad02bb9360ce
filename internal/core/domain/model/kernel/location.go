package kernel

import (
	"errors"
	"fmt"

	"hawker/internal/pkg/errs"
	"hawker/internal/pkg/guard"
)

// Geographic bounds for delivery coordinates.
const (
	LatitudeMin  float64 = -90
	LatitudeMax  float64 = 90
	LongitudeMin float64 = -180
	LongitudeMax float64 = 180
)

// ErrLocationIsNotConstructed is returned when attempting to use an
// improperly initialized Location. Locations must be created via NewLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via the NewLocation constructor")

// Location is the delivery drop-off point of an order: a street address, a
// geocoordinate and a postal code. It is an immutable value object; the zero
// value is invalid and fails Validate.
//
// The coordinate is carried as given by the client. Geocoding and route
// calculation are out of scope, so only range validation is applied.
type Location struct { //nolint:recvcheck //using for validation
	address    string
	latitude   float64
	longitude  float64
	postalCode string

	guard guard.ConstructorGuard
}

// NewLocation creates a Location. The address and postal code must be
// non-empty and the coordinate must lie within geographic bounds.
func NewLocation(address string, latitude, longitude float64, postalCode string) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		loc.setAddress(address),
		loc.setCoordinate(latitude, longitude),
		loc.setPostalCode(postalCode),
	); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate checks that the Location was created through NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Address returns the street address.
func (l Location) Address() string {
	return l.address
}

// Latitude returns the latitude in degrees.
func (l Location) Latitude() float64 {
	return l.latitude
}

// Longitude returns the longitude in degrees.
func (l Location) Longitude() float64 {
	return l.longitude
}

// PostalCode returns the postal code.
func (l Location) PostalCode() string {
	return l.postalCode
}

// IsEqual compares two locations field by field. Both must be properly
// constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return l == other, nil
}

// String implements fmt.Stringer for logging.
func (l Location) String() string {
	return fmt.Sprintf("%s (%f,%f) %s", l.address, l.latitude, l.longitude, l.postalCode)
}

func (l *Location) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	l.address = address
	return nil
}

func (l *Location) setCoordinate(latitude, longitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	l.latitude = latitude
	l.longitude = longitude
	return nil
}

func (l *Location) setPostalCode(postalCode string) error {
	if postalCode == "" {
		return errs.NewValueIsRequiredError("postalCode")
	}
	l.postalCode = postalCode
	return nil
}
