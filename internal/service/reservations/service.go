package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-BookingCore/internal/service/reservations/models"
)

// Service reads and simple lifecycle transitions of the ReservationLedger
type Service struct {
	reservationRepo ReservationRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

func NewService(
	reservationRepo ReservationRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider replaces the clock, for tests
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID visible to the owner or to reservations:manage holders of the same organization
func (s *Service) GetByID(ctx context.Context, principal domain.Principal, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, principal.UserID)

	res, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(principal, res, false); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", principal.UserID, id)
		return nil, err
	}

	payments, err := s.paymentRepo.ListByReservation(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list payments of reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - list payments: %w", ErrInternal, err)
	}

	return models.FromDomainReservation(res).WithPayments(payments), nil
}

// List admin day schedule of a location, cancelled reservations excluded unless asked for
func (s *Service) List(
	ctx context.Context,
	principal domain.Principal,
	organizationID, locationID int64,
	date *time.Time,
	includeCancelled bool,
) (*models.ReservationListResponse, error) {
	s.logger.Info("List: organization=%d, location=%d, date=%v by user=%d", organizationID, locationID, date, principal.UserID)

	if principal.OrganizationID != organizationID || !principal.Can(domain.CapReservationsManage) {
		s.logger.Warn("List: access denied for user=%d to organization=%d", principal.UserID, organizationID)
		return nil, ErrAccessDenied
	}
	if locationID <= 0 {
		return nil, fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	list, err := s.reservationRepo.List(ctx, domain.ReservationFilter{
		OrganizationID:   organizationID,
		LocationID:       &locationID,
		Date:             date,
		IncludeCancelled: includeCancelled,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d reservations", len(list))
	return models.FromDomainReservationList(list), nil
}

// Cancel frees the interval immediately on commit. The owner or a
// reservations:manage holder may cancel; cancelling twice is a no-op.
func (s *Service) Cancel(ctx context.Context, principal domain.Principal, id int64, reason *string) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", id, principal.UserID)

	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if len(trimmed) > domain.MaxCancellationReasonLength {
			return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
		}
		reason = &trimmed
	}

	var (
		result  *domain.Reservation
		changed bool
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.load(txCtx, "Cancel", id)
		if err != nil {
			return err
		}
		if err := s.checkAccess(principal, res, false); err != nil {
			return err
		}

		changed, err = res.Cancel(reason, s.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		if changed {
			if err := s.reservationRepo.UpdateStatus(txCtx, res); err != nil {
				return fmt.Errorf("%w: Cancel - update status: %w", ErrInternal, err)
			}
		}

		result = res
		return nil
	})
	if err != nil {
		s.logFailure("Cancel", id, err)
		return nil, err
	}

	if changed {
		s.publish(ctx, domain.NewReservationEvent(domain.EventReservationCancelled, result, s.timeProvider.Now()))
		s.logger.Info("Cancel: reservation id=%d cancelled", id)
	} else {
		s.logger.Info("Cancel: reservation id=%d was already cancelled", id)
	}
	return models.FromDomainReservation(result), nil
}

// Confirm pending -> confirmed, reservations:manage only
func (s *Service) Confirm(ctx context.Context, principal domain.Principal, id int64) (*models.ReservationResponse, error) {
	s.logger.Info("Confirm: confirming reservation id=%d by user=%d", id, principal.UserID)

	var (
		result  *domain.Reservation
		changed bool
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		res, err := s.load(txCtx, "Confirm", id)
		if err != nil {
			return err
		}
		if err := s.checkAccess(principal, res, true); err != nil {
			return err
		}

		changed, err = res.Confirm()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		if changed {
			if err := s.reservationRepo.UpdateStatus(txCtx, res); err != nil {
				return fmt.Errorf("%w: Confirm - update status: %w", ErrInternal, err)
			}
		}

		result = res
		return nil
	})
	if err != nil {
		s.logFailure("Confirm", id, err)
		return nil, err
	}

	if changed {
		s.publish(ctx, domain.NewReservationEvent(domain.EventReservationConfirmed, result, s.timeProvider.Now()))
	}
	s.logger.Info("Confirm: reservation id=%d status=%s", id, result.Status)
	return models.FromDomainReservation(result), nil
}

func (s *Service) load(ctx context.Context, op string, id int64) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return res, nil
}

// checkAccess tenant scope first; then owner (unless staffOnly) or reservations:manage
func (s *Service) checkAccess(principal domain.Principal, res *domain.Reservation, staffOnly bool) error {
	if principal.OrganizationID != res.OrganizationID {
		// Another tenant's reservation is reported as absent
		return ErrReservationNotFound
	}
	if principal.Can(domain.CapReservationsManage) {
		return nil
	}
	if !staffOnly && principal.UserID == res.UserID {
		return nil
	}
	return ErrAccessDenied
}

func (s *Service) publish(ctx context.Context, evs ...domain.LedgerEvent) {
	if err := s.publisher.Publish(ctx, evs...); err != nil {
		s.logger.Warn("publish: failed to publish %d ledger events: %v", len(evs), err)
	}
}

func (s *Service) logFailure(op string, id int64, err error) {
	switch {
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: reservation id=%d: %v", op, id, err)
	default:
		s.logger.Warn("%s: reservation id=%d: %v", op, id, err)
	}
}
