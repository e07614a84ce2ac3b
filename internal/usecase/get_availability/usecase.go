package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// UseCase availability grid of one location and day
type UseCase struct {
	catalogRepo     CatalogRepository
	reservationRepo ReservationRepository
	blockedRepo     BlockedSlotRepository
	rules           domain.BookingRules
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	catalogRepo CatalogRepository,
	reservationRepo ReservationRepository,
	blockedRepo BlockedSlotRepository,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		reservationRepo: reservationRepo,
		blockedRepo:     blockedRepo,
		rules:           rules,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: organization=%d, location=%d, date=%s, services=%v",
		req.OrganizationID, req.LocationID, req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Validate input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if domain.IsPastDay(req.Date, now) {
		uc.logger.Warn("GetAvailability: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Location and its window on that weekday
	location, err := uc.catalogRepo.GetLocation(ctx, req.OrganizationID, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailability: location id=%d not found in organization=%d", req.LocationID, req.OrganizationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailability: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %w", ErrInternal, err)
	}

	step := location.Step(uc.rules.SlotStepMinutes)
	resp := &Response{
		Date:           req.Date,
		OrganizationID: req.OrganizationID,
		LocationID:     req.LocationID,
		StepMinutes:    step,
		Slots:          []domain.SlotAvailability{},
	}

	window, open := location.WindowFor(req.Date)
	if !open {
		uc.logger.Info("GetAvailability: location id=%d is closed on %s", req.LocationID, req.Date.Weekday())
		return resp, nil
	}
	resp.IsOpen = true
	resp.OpenTime = window.Open
	resp.CloseTime = window.Close

	// 3. Candidate grid
	candidates, err := domain.GenerateSlots(window, step)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate slots for location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %w", ErrInternal, err)
	}

	// 4. Duration each candidate must fit
	duration := step
	if len(req.ServiceIDs) > 0 {
		duration, err = uc.reservationDuration(ctx, req)
		if err != nil {
			return nil, err
		}
	}
	resp.DurationMinutes = duration

	// 5. Occupied intervals of the day
	locationID := req.LocationID
	date := req.Date
	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationFilter{
		OrganizationID: req.OrganizationID,
		LocationID:     &locationID,
		Date:           &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %w", ErrInternal, err)
	}

	blocked, err := uc.blockedRepo.ListByLocationAndDate(ctx, req.OrganizationID, req.LocationID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list blocked slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list blocked slots: %w", ErrInternal, err)
	}

	occupied := domain.OccupiedIntervals(reservations, blocked)

	// 6. Mark each candidate
	today := domain.SameDay(req.Date, now)
	current := types.NewTimeString(now)
	free := 0
	for _, slot := range candidates {
		available := window.Contains(slot, duration) &&
			domain.IsFree(domain.NewInterval(slot, duration), occupied) &&
			!(today && !slot.IsAfter(current))
		if available {
			free++
		}
		resp.Slots = append(resp.Slots, domain.SlotAvailability{Time: slot, Available: available})
	}

	uc.logger.Info("GetAvailability: location id=%d, date=%s: %d of %d slots available",
		req.LocationID, req.Date.Format(domain.DateFormat), free, len(candidates))
	return resp, nil
}

func (uc *UseCase) reservationDuration(ctx context.Context, req *Request) (int, error) {
	services, err := uc.catalogRepo.GetServices(ctx, req.OrganizationID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get services: %v", err)
		return 0, fmt.Errorf("%w: failed to get services: %w", ErrInternal, err)
	}
	if len(services) != len(req.ServiceIDs) {
		uc.logger.Warn("GetAvailability: %d of %d services found", len(services), len(req.ServiceIDs))
		return 0, ErrServiceNotFound
	}

	durations := make([]int, 0, len(services))
	for _, s := range services {
		durations = append(durations, s.DurationMinutes)
	}
	return domain.ReservationDuration(durations, uc.rules), nil
}
