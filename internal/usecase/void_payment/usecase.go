package void_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
)

// UseCase moves a reservation back to unpaid. Payment rows stay as the audit trail,
// consumed loyalty counters are not given back and the invoice number is kept.
type UseCase struct {
	reservationRepo ReservationRepository
	loyalty         LoyaltyAccount
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	reservationRepo ReservationRepository,
	loyalty LoyaltyAccount,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		loyalty:         loyalty,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("VoidPayment: reservation=%d by user=%d", req.ReservationID, req.Principal.UserID)

	// 1. Validate input and capability
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("VoidPayment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	resp := &Response{}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2. Lock the reservation
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}
		if res.OrganizationID != req.Principal.OrganizationID {
			return ErrReservationNotFound
		}
		resp.Reservation = res

		// 3. Nothing recorded, nothing to void
		if res.PaymentAmount == 0 {
			return nil
		}

		// 4. Reset the ledger
		removed := res.ResetPayment()
		if err := uc.reservationRepo.UpdatePayment(txCtx, res); err != nil {
			return fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
		}

		// 5. Take the cash back out of total spent
		if removed > 0 {
			description := fmt.Sprintf("Payment cancelled: -%s %s", domain.FormatAmount(removed), res.Currency)
			if _, err := uc.loyalty.AccrueSpending(txCtx, res.UserID, res.OrganizationID, res.ID, -removed, domain.ActionPaymentCancelled, description); err != nil {
				return fmt.Errorf("%w: failed to reverse spending: %w", ErrInternal, err)
			}
		}

		resp.Voided = removed
		resp.Changed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("VoidPayment: reservation id=%d: %v", req.ReservationID, err)
		} else {
			uc.logger.Warn("VoidPayment: reservation id=%d: %v", req.ReservationID, err)
		}
		return nil, err
	}

	if !resp.Changed {
		uc.logger.Info("VoidPayment: reservation id=%d has no recorded payment", req.ReservationID)
		return resp, nil
	}

	ev := domain.NewReservationEvent(domain.EventPaymentVoided, resp.Reservation, now)
	ev.Amount = resp.Voided
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.logger.Error("VoidPayment: failed to publish event for reservation id=%d: %v", req.ReservationID, err)
	}

	uc.logger.Info("VoidPayment: reservation id=%d reset to unpaid, voided=%s", req.ReservationID, domain.FormatAmount(resp.Voided))
	return resp, nil
}
