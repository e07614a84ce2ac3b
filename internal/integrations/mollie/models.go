package mollie

// Payment subset of the Mollie v2 payment resource
type Payment struct {
	ID             string   `json:"id"`
	Status         string   `json:"status"`
	Amount         Amount   `json:"amount"`
	AmountRefunded *Amount  `json:"amountRefunded,omitempty"`
	Metadata       Metadata `json:"metadata"`
}

// Amount decimal string with currency, e.g. {"value": "49.90", "currency": "EUR"}
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Metadata set by us when creating the payment
type Metadata struct {
	ReservationID string `json:"reservationId"`
}

// Mollie payment statuses
const (
	StatusOpen       = "open"
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusPaid       = "paid"
	StatusFailed     = "failed"
	StatusExpired    = "expired"
	StatusCanceled   = "canceled"
)
