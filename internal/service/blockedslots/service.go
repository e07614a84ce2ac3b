package blockedslots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	blockedRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/blockedslot"
	catalogRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BookingCore/internal/service/blockedslots/models"
	"github.com/m04kA/SMC-BookingCore/pkg/types"
)

// Service admin management of blocked slots (schedule:manage).
// A block may overlap existing reservations; it only affects later conflict checks.
type Service struct {
	repo         BlockedSlotRepository
	locationRepo LocationRepository
	defaultStep  int
	logger       Logger
}

func NewService(repo BlockedSlotRepository, locationRepo LocationRepository, defaultStep int, logger Logger) *Service {
	return &Service{
		repo:         repo,
		locationRepo: locationRepo,
		defaultStep:  defaultStep,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, principal domain.Principal, req *models.CreateRequest) (*models.BlockedSlotResponse, error) {
	s.logger.Info("CreateBlockedSlot: organization=%d, location=%d, date=%s, allDay=%t",
		req.OrganizationID, req.LocationID, req.Date.Format(domain.DateFormat), req.AllDay)

	if err := s.authorize(principal, req.OrganizationID); err != nil {
		return nil, err
	}

	location, err := s.locationRepo.GetLocation(ctx, req.OrganizationID, req.LocationID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("CreateBlockedSlot: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: Create - get location: %w", ErrInternal, err)
	}

	slot := &domain.BlockedSlot{
		OrganizationID: req.OrganizationID,
		LocationID:     req.LocationID,
		Date:           req.Date,
		AllDay:         req.AllDay,
		Reason:         req.Reason,
	}

	if req.AllDay {
		slot.DurationMinutes = types.MinutesPerDay
	} else {
		if req.Time == nil || req.Time.IsZero() {
			return nil, fmt.Errorf("%w: time is required unless allDay", ErrInvalidInput)
		}
		slot.Time = req.Time
		slot.DurationMinutes = req.DurationMinutes
		if slot.DurationMinutes == 0 {
			slot.DurationMinutes = location.Step(s.defaultStep)
		}
		if slot.DurationMinutes < 0 || req.Time.Minutes()+slot.DurationMinutes > types.MinutesPerDay {
			return nil, fmt.Errorf("%w: block must end within the day", ErrInvalidInput)
		}
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("CreateBlockedSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedSlot: created id=%d", created.ID)
	resp := models.FromDomainBlockedSlot(created)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, principal domain.Principal, organizationID, locationID int64, date time.Time) (*models.BlockedSlotListResponse, error) {
	if err := s.authorize(principal, organizationID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByLocationAndDate(ctx, organizationID, locationID, date)
	if err != nil {
		s.logger.Error("ListBlockedSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	resp := &models.BlockedSlotListResponse{BlockedSlots: make([]models.BlockedSlotResponse, 0, len(list))}
	for _, b := range list {
		resp.BlockedSlots = append(resp.BlockedSlots, models.FromDomainBlockedSlot(b))
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, principal domain.Principal, organizationID, id int64) error {
	s.logger.Info("DeleteBlockedSlot: organization=%d, id=%d", organizationID, id)

	if err := s.authorize(principal, organizationID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		if errors.Is(err, blockedRepo.ErrBlockedSlotNotFound) {
			return ErrBlockedSlotNotFound
		}
		s.logger.Error("DeleteBlockedSlot: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}
	return nil
}

func (s *Service) authorize(principal domain.Principal, organizationID int64) error {
	if principal.OrganizationID != organizationID || !principal.Can(domain.CapScheduleManage) {
		s.logger.Warn("blockedslots: access denied for user=%d to organization=%d", principal.UserID, organizationID)
		return ErrAccessDenied
	}
	return nil
}
