package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
)

// UseCase books an interval of a location
type UseCase struct {
	catalogRepo     CatalogRepository
	reservationRepo ReservationRepository
	blockedRepo     BlockedSlotRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         MetricsRecorder
	rules           domain.BookingRules
	currency        string
	serviceName     string
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	catalogRepo CatalogRepository,
	reservationRepo ReservationRepository,
	blockedRepo BlockedSlotRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	rules domain.BookingRules,
	currency string,
	serviceName string,
	logger Logger,
) *UseCase {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &UseCase{
		catalogRepo:     catalogRepo,
		reservationRepo: reservationRepo,
		blockedRepo:     blockedRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		rules:           rules,
		currency:        currency,
		serviceName:     serviceName,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute checks the interval and inserts the reservation in one serializable transaction.
// The storage exclusion constraint backs the check against writers that skipped it.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("CreateReservation: user=%d, organization=%d, location=%d, date=%s, time=%s, services=%d",
		req.UserID, req.OrganizationID, req.LocationID, req.Date.Format(domain.DateFormat), req.StartTime, len(req.Services))

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Reject past dates and start times
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: %v", err)
		return nil, err
	}

	// 3. Resolve services, price and duration
	lines, err := uc.resolveServices(ctx, req)
	if err != nil {
		return nil, err
	}

	var total int64
	durations := make([]int, 0, len(lines))
	for _, l := range lines {
		total += l.Price
		durations = append(durations, l.DurationMinutes)
	}
	if total <= 0 {
		uc.logger.Warn("CreateReservation: total price of selected services is %d", total)
		return nil, fmt.Errorf("%w: total price must be positive", ErrInvalidInput)
	}
	duration := domain.ReservationDuration(durations, uc.rules)
	candidate := domain.NewInterval(req.StartTime, duration)

	var result *domain.Reservation

	// 4. Check and insert in a serializable transaction
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Location row is locked for the rest of the transaction
		location, err := uc.catalogRepo.GetLocation(txCtx, req.OrganizationID, req.LocationID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrLocationNotFound) {
				uc.logger.Warn("CreateReservation: location id=%d not found in organization=%d", req.LocationID, req.OrganizationID)
				return ErrLocationNotFound
			}
			uc.logger.Error("CreateReservation: failed to get location id=%d: %v", req.LocationID, err)
			return fmt.Errorf("%w: failed to get location: %w", ErrInternal, err)
		}

		// 4.2. Opening hours of that weekday
		window, open := location.WindowFor(req.Date)
		if !open {
			uc.logger.Warn("CreateReservation: location id=%d is closed on %s", req.LocationID, req.Date.Format(domain.DateFormat))
			return ErrLocationClosed
		}
		if !window.Contains(req.StartTime, duration) {
			uc.logger.Warn("CreateReservation: %s + %d min does not fit %s-%s",
				req.StartTime, duration, window.Open, window.Close)
			return ErrOutsideOpeningHours
		}

		// 4.3. Occupied intervals of the day
		locationID := req.LocationID
		date := req.Date
		existing, err := uc.reservationRepo.List(txCtx, domain.ReservationFilter{
			OrganizationID: req.OrganizationID,
			LocationID:     &locationID,
			Date:           &date,
		})
		if err != nil {
			uc.logger.Error("CreateReservation: failed to list reservations: %v", err)
			return fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
		}

		blocked, err := uc.blockedRepo.ListByLocationAndDate(txCtx, req.OrganizationID, req.LocationID, req.Date)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to list blocked slots: %v", err)
			return fmt.Errorf("%w: failed to list blocked slots: %w", ErrInternal, err)
		}

		// 4.4. Conflict check
		if conflict, taken := domain.FirstConflict(candidate, domain.OccupiedIntervals(existing, blocked)); taken {
			uc.logger.Warn("CreateReservation: %s + %d min overlaps an interval ending at %s",
				req.StartTime, duration, conflict.EndTime())
			return &ConflictError{NextAvailableTime: conflict.EndTime()}
		}

		// 4.5. Insert
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			OrganizationID:  req.OrganizationID,
			LocationID:      req.LocationID,
			UserID:          req.UserID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentUnpaid,
			TotalPrice:      total,
			Currency:        uc.currency,
			Services:        lines,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateReservation: exclusion constraint rejected %s + %d min", req.StartTime, duration)
				return &ConflictError{NextAvailableTime: candidate.EndTime()}
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncBookingConflict(uc.serviceName)
		}
		return nil, err
	}

	uc.metrics.IncReservationCreated(uc.serviceName)
	if err := uc.publisher.Publish(ctx, domain.NewReservationEvent(domain.EventReservationCreated, result, now)); err != nil {
		uc.logger.Error("CreateReservation: failed to publish event for reservation id=%d: %v", result.ID, err)
	}

	uc.logger.Info("CreateReservation: created reservation id=%d, %s-%s, total=%d %s",
		result.ID, result.StartTime, result.EndTime(), result.TotalPrice, result.Currency)
	return result, nil
}

// resolveServices snapshots the selected catalog entries in request order
func (uc *UseCase) resolveServices(ctx context.Context, req *Request) ([]domain.ReservationService, error) {
	ids := make([]int64, 0, len(req.Services))
	for _, s := range req.Services {
		ids = append(ids, s.ServiceID)
	}

	services, err := uc.catalogRepo.GetServices(ctx, req.OrganizationID, ids)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %w", ErrInternal, err)
	}

	byID := make(map[int64]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	lines := make([]domain.ReservationService, 0, len(req.Services))
	for _, sel := range req.Services {
		svc, ok := byID[sel.ServiceID]
		if !ok {
			uc.logger.Warn("CreateReservation: service id=%d not found in organization=%d", sel.ServiceID, req.OrganizationID)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, sel.ServiceID)
		}
		lines = append(lines, domain.ReservationService{
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			IsPackage:       sel.IsPackage,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.PriceFor(sel.IsPackage),
		})
	}
	return lines, nil
}
