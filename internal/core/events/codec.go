package events

import (
	"encoding/json"
	"fmt"

	"hawker/internal/pkg/errs"
)

func errUnknownEvent(eventType string) error {
	return errs.NewValueIsInvalidErrorWithCause("event",
		fmt.Errorf("%q is not a known event type", eventType))
}

// Marshal serializes an event into its flat envelope: the event's own fields
// plus the "type" discriminator.
func Marshal(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}

	fields["type"], err = json.Marshal(e.EventType())
	if err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

// Unmarshal decodes an envelope into its concrete event. Unknown or missing
// type discriminators are errors; there is no catch-all variant.
func Unmarshal(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("event", err)
	}

	decode := func(e Event) (Event, error) {
		if err := json.Unmarshal(data, e); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("event", err)
		}
		return e, nil
	}

	switch head.Type {
	case TypeNewOrder:
		e, err := decode(&NewOrder{})
		if err != nil {
			return nil, err
		}
		return *e.(*NewOrder), nil
	case TypePickerAcceptance:
		e, err := decode(&PickerAcceptance{})
		if err != nil {
			return nil, err
		}
		return *e.(*PickerAcceptance), nil
	case TypeOrderCancelled:
		e, err := decode(&OrderCancelled{})
		if err != nil {
			return nil, err
		}
		return *e.(*OrderCancelled), nil
	case TypeOrderReturnedToPending:
		e, err := decode(&OrderReturnedToPending{})
		if err != nil {
			return nil, err
		}
		return *e.(*OrderReturnedToPending), nil
	case TypeOrderCompleted:
		e, err := decode(&OrderCompleted{})
		if err != nil {
			return nil, err
		}
		return *e.(*OrderCompleted), nil
	case TypeLocationUpdated:
		e, err := decode(&LocationUpdated{})
		if err != nil {
			return nil, err
		}
		return *e.(*LocationUpdated), nil
	default:
		return nil, errUnknownEvent(head.Type)
	}
}
