package rest

import (
	"context"
	"net/http"
	"time"

	"hawker/internal/core/domain/model/kernel"
)

// accountDTO is the balance surface of the customer and picker services.
type accountDTO struct {
	ID      string  `json:"id"`
	Credits float64 `json:"credits"`
}

// accountClient implements the read-modify-write credit pair shared by the
// Customer and Picker stores.
type accountClient struct {
	client   *client
	resource string
}

func (a *accountClient) GetCredits(ctx context.Context, id kernel.UUID) (kernel.Money, error) {
	var dto accountDTO
	path := "/" + a.resource + "/" + id.String()
	if err := a.client.do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return kernel.Money{}, err
	}
	return kernel.MoneyFromFloat(dto.Credits)
}

func (a *accountClient) SetCredits(ctx context.Context, id kernel.UUID, balance kernel.Money) error {
	path := "/" + a.resource + "/" + id.String() + "/credits"
	return a.client.do(ctx, http.MethodPut, path,
		accountDTO{ID: id.String(), Credits: balance.Float64()}, nil)
}

// CustomerStoreClient implements ports.CustomerStore.
type CustomerStoreClient struct {
	accountClient
}

// NewCustomerStoreClient creates a Customer Store client.
func NewCustomerStoreClient(baseURL string, timeout time.Duration, retries int) (*CustomerStoreClient, error) {
	c, err := newClient(baseURL, "customer-store", timeout, retries)
	if err != nil {
		return nil, err
	}
	return &CustomerStoreClient{accountClient{client: c, resource: "customers"}}, nil
}

// PickerStoreClient implements ports.PickerStore.
type PickerStoreClient struct {
	accountClient
}

// NewPickerStoreClient creates a Picker Store client.
func NewPickerStoreClient(baseURL string, timeout time.Duration, retries int) (*PickerStoreClient, error) {
	c, err := newClient(baseURL, "picker-store", timeout, retries)
	if err != nil {
		return nil, err
	}
	return &PickerStoreClient{accountClient{client: c, resource: "pickers"}}, nil
}
