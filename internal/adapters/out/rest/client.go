// Package rest contains the HTTP clients for the four collaborator services:
// the Order Store, the Customer and Picker stores and the Payment Ledger.
//
// All collaborators speak the same envelope, {code, message, data}. Transport
// failures and 5xx responses are retried with exponential backoff up to a
// bounded attempt count and then surface as errs.ErrCollaboratorUnavailable;
// 4xx responses are definitive and map straight onto the error taxonomy.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hawker/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const defaultTimeout = 5 * time.Second

// envelope is the collaborator response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// client is the shared transport under the typed store clients.
type client struct {
	http    *http.Client
	baseURL string
	service string
	retries uint64
}

func newClient(baseURL, service string, timeout time.Duration, retries int) (*client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retries < 0 {
		retries = 0
	}

	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		service: service,
		retries: uint64(retries),
	}, nil
}

// do issues one request with retries. A nil out skips response decoding.
func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path,
			bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s responded %d", c.service, resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return backoff.Permanent(c.definitive(resp.StatusCode, raw))
		}

		if out == nil {
			return nil
		}

		var env envelope
		if err = json.Unmarshal(raw, &env); err != nil {
			return backoff.Permanent(
				errs.NewValueIsInvalidErrorWithCause(c.service+" response", err))
		}
		if len(env.Data) == 0 {
			return backoff.Permanent(
				errs.NewValueIsInvalidError(c.service + " response has no data"))
		}
		if err = json.Unmarshal(env.Data, out); err != nil {
			return backoff.Permanent(
				errs.NewValueIsInvalidErrorWithCause(c.service+" response", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)

	if err := backoff.Retry(attempt, policy); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Unwrap()
		}
		return errs.NewCollaboratorUnavailableError(c.service, err)
	}
	return nil
}

// definitive maps a 4xx collaborator response onto the error taxonomy.
func (c *client) definitive(status int, raw []byte) error {
	var env envelope
	message := http.StatusText(status)
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		message = env.Message
	}

	switch status {
	case http.StatusNotFound:
		return errs.NewObjectNotFoundError(c.service, message)
	case http.StatusConflict:
		return errs.NewConflictError(c.service, message)
	default:
		return errs.NewValueIsInvalidError(
			fmt.Sprintf("%s rejected request: %s", c.service, message))
	}
}
