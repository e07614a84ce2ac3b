package reconcile_payment

import (
	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/infra/gateways"
)

// Outcome what a delivery did to the ledger. Every outcome is acknowledged with 200.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

type Request struct {
	Provider string
	Webhook  gateways.WebhookRequest
}

type Result struct {
	Outcome       Outcome
	Provider      domain.Provider
	ExternalID    string
	ReservationID int64
	// Reason why the event was ignored
	Reason string
}
