package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	loyaltyRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/loyalty"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty/models"
)

// Service LoyaltyAccount: counters, redemption and the audit trail.
// Every mutation runs in a transaction together with its history entry;
// callers already inside a transaction extend it.
type Service struct {
	repo        ProfileRepository
	txManager   TransactionManager
	rules       domain.LoyaltyRules
	metrics     MetricsRecorder
	serviceName string
	logger      Logger
}

func NewService(
	repo ProfileRepository,
	txManager TransactionManager,
	rules domain.LoyaltyRules,
	metrics MetricsRecorder,
	serviceName string,
	logger Logger,
) *Service {
	return &Service{
		repo:        repo,
		txManager:   txManager,
		rules:       rules,
		metrics:     metrics,
		serviceName: serviceName,
		logger:      logger,
	}
}

// Rules active redemption rules
func (s *Service) Rules() domain.LoyaltyRules {
	return s.rules
}

// GetProfile profile and latest history of userID in the caller's organization.
// Visible to the customer and to loyalty:redeem holders of the same organization.
func (s *Service) GetProfile(ctx context.Context, principal domain.Principal, userID int64, limit int) (*models.ProfileResponse, error) {
	s.logger.Info("GetProfile: user=%d requested by user=%d", userID, principal.UserID)

	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if !principal.CanAccessUser(userID, domain.CapLoyaltyRedeem) {
		s.logger.Warn("GetProfile: access denied for user=%d to profile of user=%d", principal.UserID, userID)
		return nil, ErrAccessDenied
	}

	switch {
	case limit <= 0:
		limit = domain.DefaultLoyaltyHistoryLimit
	case limit > domain.MaxLoyaltyHistoryLimit:
		limit = domain.MaxLoyaltyHistoryLimit
	}

	profile, err := s.repo.GetByUserID(ctx, userID, principal.OrganizationID)
	if err != nil {
		if errors.Is(err, loyaltyRepo.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("GetProfile: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetProfile - repository error: %w", ErrInternal, err)
	}

	history, err := s.repo.ListHistory(ctx, userID, principal.OrganizationID, limit)
	if err != nil {
		s.logger.Error("GetProfile: history error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetProfile - history error: %w", ErrInternal, err)
	}

	return models.FromDomainProfile(profile, history, s.rules), nil
}

// RecordCompletion increments the package or individual counter by one
func (s *Service) RecordCompletion(ctx context.Context, userID, organizationID, reservationID int64, wasPackage bool) (*domain.LoyaltyProfile, error) {
	kind := domain.RedemptionIndividual
	description := "Service completed"
	if wasPackage {
		kind = domain.RedemptionPackage
		description = "Package completed"
	}

	var profile *domain.LoyaltyProfile
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.ensureProfile(txCtx, userID, organizationID); err != nil {
			return err
		}

		p, err := s.repo.IncrementCounter(txCtx, userID, organizationID, kind)
		if err != nil {
			return fmt.Errorf("%w: RecordCompletion - increment counter: %w", ErrInternal, err)
		}

		if err := s.addHistory(txCtx, &domain.LoyaltyHistory{
			UserID:         userID,
			OrganizationID: organizationID,
			ReservationID:  &reservationID,
			Action:         domain.CompletionAction(wasPackage),
			Points:         1,
			Description:    description,
		}); err != nil {
			return err
		}

		profile = p
		return nil
	})
	if err != nil {
		s.logger.Error("RecordCompletion: user=%d, reservation=%d: %v", userID, reservationID, err)
		return nil, err
	}

	s.logger.Info("RecordCompletion: user=%d, reservation=%d, kind=%s, count=%d",
		userID, reservationID, kind, profile.Count(kind))
	return profile, nil
}

// Redeem consumes exactly threshold(kind) units. The check and the decrement are a single
// conditional update, so of two concurrent redemptions against the threshold only one succeeds.
func (s *Service) Redeem(ctx context.Context, userID, organizationID, reservationID int64, kind domain.RedemptionKind) (*models.Redemption, error) {
	threshold := s.rules.Threshold(kind)
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: no threshold for kind %s", ErrInvalidInput, kind)
	}

	var result *models.Redemption
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		profile, err := s.repo.DecrementIfAtLeast(txCtx, userID, organizationID, kind, threshold)
		if err != nil {
			if errors.Is(err, loyaltyRepo.ErrInsufficientBalance) || errors.Is(err, loyaltyRepo.ErrProfileNotFound) {
				return fmt.Errorf("%w: user=%d, organization=%d, kind=%s, threshold=%d",
					ErrInsufficientBalance, userID, organizationID, kind, threshold)
			}
			return fmt.Errorf("%w: Redeem - decrement counter: %w", ErrInternal, err)
		}

		h := &domain.LoyaltyHistory{
			UserID:         userID,
			OrganizationID: organizationID,
			ReservationID:  &reservationID,
			Action:         domain.ActionDiscountUsed,
			Points:         -threshold,
			Description:    s.rules.RedemptionDescription(kind),
		}
		if err := s.addHistory(txCtx, h); err != nil {
			return err
		}

		result = &models.Redemption{
			Kind:      kind,
			Discount:  s.rules.Discount(kind),
			HistoryID: h.ID,
			Profile:   profile,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			s.metrics.IncLoyaltyRedemption(s.serviceName, string(kind), "insufficient")
			s.logger.Warn("Redeem: %v", err)
			return nil, err
		}
		s.metrics.IncLoyaltyRedemption(s.serviceName, string(kind), "error")
		s.logger.Error("Redeem: user=%d, kind=%s: %v", userID, kind, err)
		return nil, err
	}

	s.metrics.IncLoyaltyRedemption(s.serviceName, string(kind), "success")
	s.logger.Info("Redeem: user=%d, kind=%s, discount=%s, remaining=%d",
		userID, kind, domain.FormatAmount(result.Discount), result.Profile.Count(kind))
	return result, nil
}

// AccrueSpending adds delta (negative on void) to total spent, never going below zero,
// and recomputes points and tier
func (s *Service) AccrueSpending(
	ctx context.Context,
	userID, organizationID, reservationID int64,
	delta int64,
	action domain.LoyaltyAction,
	description string,
) (*domain.LoyaltyProfile, error) {
	var profile *domain.LoyaltyProfile
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.ensureProfile(txCtx, userID, organizationID); err != nil {
			return err
		}

		current, err := s.repo.GetByUserID(txCtx, userID, organizationID)
		if err != nil {
			return fmt.Errorf("%w: AccrueSpending - get profile: %w", ErrInternal, err)
		}

		p, err := s.repo.UpdateSpending(txCtx, userID, organizationID, max(current.TotalSpent+delta, 0))
		if err != nil {
			return fmt.Errorf("%w: AccrueSpending - update spending: %w", ErrInternal, err)
		}

		if err := s.addHistory(txCtx, &domain.LoyaltyHistory{
			UserID:         userID,
			OrganizationID: organizationID,
			ReservationID:  &reservationID,
			Action:         action,
			Points:         0,
			Description:    description,
		}); err != nil {
			return err
		}

		profile = p
		return nil
	})
	if err != nil {
		s.logger.Error("AccrueSpending: user=%d, reservation=%d: %v", userID, reservationID, err)
		return nil, err
	}

	s.logger.Info("AccrueSpending: user=%d, delta=%s, totalSpent=%s, tier=%s",
		userID, domain.FormatAmount(delta), domain.FormatAmount(profile.TotalSpent), profile.Tier)
	return profile, nil
}

func (s *Service) ensureProfile(ctx context.Context, userID, organizationID int64) error {
	created, err := s.repo.CreateIfAbsent(ctx, userID, organizationID)
	if err != nil {
		return fmt.Errorf("%w: ensureProfile - create profile: %w", ErrInternal, err)
	}
	if !created {
		return nil
	}

	s.logger.Info("ensureProfile: created loyalty profile for user=%d", userID)
	return s.addHistory(ctx, &domain.LoyaltyHistory{
		UserID:         userID,
		OrganizationID: organizationID,
		Action:         domain.ActionProfileCreated,
		Description:    "Loyalty profile created",
	})
}

func (s *Service) addHistory(ctx context.Context, h *domain.LoyaltyHistory) error {
	if err := s.repo.AddHistory(ctx, h); err != nil {
		return fmt.Errorf("%w: add history %s: %w", ErrInternal, h.Action, err)
	}
	return nil
}
