package cmd

import "time"

// Config carries everything the coordinator process needs from the
// environment.
type Config struct {
	HTTPPort         string
	RabbitMQURL      string
	RabbitMQExchange string

	OrderStoreURL    string
	CustomerStoreURL string
	PickerStoreURL   string
	PaymentLedgerURL string

	CollaboratorTimeout time.Duration
	CollaboratorRetries int

	PickerFlatFee string

	RebroadcastInterval time.Duration
	RebroadcastMinAge   time.Duration
}
