package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Provider payment gateway name
type Provider string

const (
	ProviderStripe Provider = "stripe"
	ProviderPayPal Provider = "paypal"
	ProviderMollie Provider = "mollie"
	ProviderSumUp  Provider = "sumup"
	// ProviderManual payments recorded at the desk
	ProviderManual Provider = "manual"
	// ProviderLoyalty discounts granted by a loyalty redemption
	ProviderLoyalty Provider = "loyalty"
)

// PaymentOutcome normalized result of a gateway event
type PaymentOutcome string

const (
	OutcomeSucceeded PaymentOutcome = "succeeded"
	OutcomeFailed    PaymentOutcome = "failed"
	OutcomeRefunded  PaymentOutcome = "refunded"
)

// Payment immutable record of one settled monetary event
type Payment struct {
	ID             int64
	OrganizationID int64
	ReservationID  int64
	Provider       Provider
	ExternalID     string
	Amount         int64
	Currency       string
	Status         PaymentOutcome
	CreatedAt      time.Time
}

// NormalizedPaymentEvent gateway-agnostic webhook event
type NormalizedPaymentEvent struct {
	ExternalID    string
	Provider      Provider
	ReservationID int64
	Amount        int64
	Currency      string
	Outcome       PaymentOutcome
	// RawType provider event type, for logs
	RawType string
}

var ErrInvalidAmount = errors.New("domain: invalid money amount")

// ParseDecimalAmount converts a gateway decimal string ("49.90", "10", "7.5") to cents
func ParseDecimalAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than two decimals in %q", ErrInvalidAmount, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return units*100 + cents, nil
}

// AmountFromFloat converts a JSON number in major units to cents
func AmountFromFloat(v float64) (int64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
	}
	return ParseDecimalAmount(strconv.FormatFloat(v, 'f', 2, 64))
}

// FormatAmount renders cents as "49.90"
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatInvoiceNumber FAC-YYYYMM-NNNN
func FormatInvoiceNumber(at time.Time, sequence int) string {
	return fmt.Sprintf("%s-%04d%02d-%04d", InvoiceNumberPrefix, at.Year(), int(at.Month()), sequence)
}

// InvoicePrefixFor FAC-YYYYMM- prefix used to count a month's invoices
func InvoicePrefixFor(at time.Time) string {
	return fmt.Sprintf("%s-%04d%02d-", InvoiceNumberPrefix, at.Year(), int(at.Month()))
}
