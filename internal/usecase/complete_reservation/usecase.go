package complete_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
)

// UseCase confirmed -> completed, crediting the loyalty counter in the same transaction
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
	uc.logger.Info("CompleteReservation: reservation=%d by user=%d", req.ReservationID, req.Principal.UserID)

	// 1. Validate input and capability
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteReservation: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	resp := &Response{}

	// 2. Status change and loyalty credit commit together
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Lock the reservation
		res, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}
		if res.OrganizationID != req.Principal.OrganizationID {
			uc.logger.Warn("CompleteReservation: reservation id=%d belongs to organization=%d, caller organization=%d",
				res.ID, res.OrganizationID, req.Principal.OrganizationID)
			return ErrReservationNotFound
		}

		// 2.2. Transition
		if err := res.Complete(now); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		if err := uc.reservationRepo.UpdateStatus(txCtx, res); err != nil {
			return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
		}

		// 2.3. One counter unit per reservation
		profile, err := uc.loyalty.RecordCompletion(txCtx, res.UserID, res.OrganizationID, res.ID, res.IsPackage())
		if err != nil {
			return fmt.Errorf("%w: failed to record loyalty completion: %w", ErrInternal, err)
		}

		resp.Reservation = res
		resp.Loyalty = profile
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CompleteReservation: reservation id=%d: %v", req.ReservationID, err)
		} else {
			uc.logger.Warn("CompleteReservation: reservation id=%d: %v", req.ReservationID, err)
		}
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, domain.NewReservationEvent(domain.EventReservationCompleted, resp.Reservation, now)); err != nil {
		uc.logger.Error("CompleteReservation: failed to publish event for reservation id=%d: %v", resp.Reservation.ID, err)
	}

	uc.logger.Info("CompleteReservation: reservation id=%d completed, user=%d, package=%t",
		resp.Reservation.ID, resp.Reservation.UserID, resp.Reservation.IsPackage())
	return resp, nil
}
