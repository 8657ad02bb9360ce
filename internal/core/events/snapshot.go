package events

import (
	"hawker/internal/core/domain/model/kernel"
	"hawker/internal/core/domain/model/order"
)

// LocationFromDomain converts a delivery location to its wire form.
func LocationFromDomain(l kernel.Location) LocationPayload {
	return LocationPayload{
		Address: l.Address(),
		Coordinates: Coordinates{
			Lat: l.Latitude(),
			Lng: l.Longitude(),
		},
		Postal: l.PostalCode(),
	}
}

// ToDomain converts a wire location back into the domain value object.
func (p LocationPayload) ToDomain() (kernel.Location, error) {
	return kernel.NewLocation(p.Address, p.Coordinates.Lat, p.Coordinates.Lng, p.Postal)
}

// SnapshotFromOrder captures the full state of an order for embedding in a
// NewOrder event.
func SnapshotFromOrder(o *order.Order) (OrderSnapshot, error) {
	if err := o.Validate(); err != nil {
		return OrderSnapshot{}, err
	}

	items := make([]ItemPayload, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemPayload{
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Float64(),
		})
	}

	var pickerID *string
	if o.PickerID() != nil {
		s := o.PickerID().String()
		pickerID = &s
	}

	return OrderSnapshot{
		OrderID:       o.ID().String(),
		CustomerID:    o.CustomerID().String(),
		StallID:       o.StallID().String(),
		PickerID:      pickerID,
		Status:        o.Status().String(),
		Items:         items,
		Location:      LocationFromDomain(o.Location()),
		IsPaid:        o.IsPaid(),
		CreditCharged: o.CreditCharged().Float64(),
		CreatedAt:     o.CreatedAt(),
		CompletedAt:   o.CompletedAt(),
	}, nil
}

// ToOrder reconstructs the order aggregate from a snapshot. Snapshots cross
// process boundaries, so every field is revalidated.
func (s OrderSnapshot) ToOrder() (*order.Order, error) {
	id, err := kernel.UUIDFromString(s.OrderID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromString(s.CustomerID)
	if err != nil {
		return nil, err
	}
	stallID, err := kernel.UUIDFromString(s.StallID)
	if err != nil {
		return nil, err
	}

	var pickerID *kernel.UUID
	if s.PickerID != nil {
		id, err := kernel.UUIDFromString(*s.PickerID)
		if err != nil {
			return nil, err
		}
		pickerID = &id
	}

	status, err := order.StatusFromString(s.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(s.Items))
	for _, p := range s.Items {
		price, err := kernel.MoneyFromFloat(p.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(p.Name, p.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	location, err := s.Location.ToDomain()
	if err != nil {
		return nil, err
	}

	creditCharged, err := kernel.MoneyFromFloat(s.CreditCharged)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, customerID, stallID, items, location,
		status, pickerID, s.IsPaid, creditCharged, s.CreatedAt, s.CompletedAt)
}
