package record_payment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

func validateRequest(req *Request) error {
	if !req.Principal.Can(domain.CapPaymentsRecord) {
		return fmt.Errorf("%w: payments:record is required", ErrAccessDenied)
	}
	if len(req.Redeem) > 0 && !req.Principal.Can(domain.CapLoyaltyRedeem) {
		return fmt.Errorf("%w: loyalty:redeem is required", ErrAccessDenied)
	}

	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if req.Amount == 0 && len(req.Redeem) == 0 {
		return fmt.Errorf("%w: amount or a redemption is required", ErrInvalidInput)
	}

	req.Method = strings.TrimSpace(req.Method)
	if req.Method == "" {
		return fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}
	if len(req.Method) > MaxMethodLength {
		return fmt.Errorf("%w: payment method exceeds %d characters", ErrInvalidInput, MaxMethodLength)
	}

	for _, kind := range req.Redeem {
		if _, err := domain.ParseRedemptionKind(string(kind)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if len(notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		if notes == "" {
			req.Notes = nil
		} else {
			req.Notes = &notes
		}
	}
	return nil
}
