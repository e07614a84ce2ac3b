package reconcile_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	"github.com/m04kA/SMC-BookingCore/internal/infra/gateways"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
)

// UseCase PaymentReconciler: authenticates a gateway notification through its adapter
// and applies the normalized event to the ledger exactly once
type UseCase struct {
	registry        AdapterRegistry
	reservationRepo ReservationRepository
	paymentRepo     PaymentRepository
	loyalty         LoyaltyAccount
	cache           ProcessedCache
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         MetricsRecorder
	serviceName     string
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	registry AdapterRegistry,
	reservationRepo ReservationRepository,
	paymentRepo PaymentRepository,
	loyalty LoyaltyAccount,
	cache ProcessedCache,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	serviceName string,
	logger Logger,
) *UseCase {
	return &UseCase{
		registry:        registry,
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		loyalty:         loyalty,
		cache:           cache,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		serviceName:     serviceName,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Result, error) {
	// 1. Adapter of the provider
	adapter, err := uc.registry.Get(req.Provider)
	if err != nil {
		uc.logger.Warn("ReconcilePayment: %v", err)
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, req.Provider)
	}
	provider := string(adapter.Provider())

	// 2. Authenticate and normalize
	ev, err := adapter.Normalize(ctx, req.Webhook)
	if err != nil {
		return uc.rejected(provider, err)
	}
	result := &Result{Provider: ev.Provider, ExternalID: ev.ExternalID, ReservationID: ev.ReservationID}

	uc.logger.Info("ReconcilePayment: %s event %s (%s) id=%s reservation=%d amount=%s %s",
		provider, ev.Outcome, ev.RawType, ev.ExternalID, ev.ReservationID, domain.FormatAmount(ev.Amount), ev.Currency)

	// 3. Cached redelivery
	seen, err := uc.cache.Seen(ctx, ev)
	if err != nil {
		uc.logger.Warn("ReconcilePayment: processed-event cache unavailable: %v", err)
	}
	if seen {
		uc.logger.Info("ReconcilePayment: %s id=%s already processed (cache)", provider, ev.ExternalID)
		result.Outcome = OutcomeDuplicate
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, string(result.Outcome))
		return result, nil
	}

	// 4. Apply in one transaction
	now := uc.timeProvider.Now()
	var applied *domain.Reservation
	var credited int64

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		applied, credited = nil, 0

		// 4.1. Lock the reservation
		res, err := uc.reservationRepo.GetByID(txCtx, ev.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				result.Outcome = OutcomeIgnored
				result.Reason = "unknown reservation"
				return nil
			}
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		var outcome Outcome
		switch ev.Outcome {
		case domain.OutcomeSucceeded:
			outcome, credited, err = uc.applySucceeded(txCtx, res, ev, now)
		case domain.OutcomeFailed, domain.OutcomeRefunded:
			outcome, err = uc.applyReversal(txCtx, res, ev)
		default:
			outcome = OutcomeIgnored
			result.Reason = fmt.Sprintf("unsupported outcome %q", ev.Outcome)
		}
		if err != nil {
			return err
		}

		result.Outcome = outcome
		if outcome == OutcomeIgnored && result.Reason == "" {
			result.Reason = fmt.Sprintf("currency %s does not match %s", ev.Currency, res.Currency)
		}
		if outcome == OutcomeApplied {
			applied = res
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("ReconcilePayment: %s id=%s: %v", provider, ev.ExternalID, err)
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, "error")
		return nil, err
	}

	// 5. After commit
	uc.metrics.IncWebhookEvent(uc.serviceName, provider, string(result.Outcome))

	if result.Outcome == OutcomeIgnored {
		uc.logger.Warn("ReconcilePayment: %s id=%s ignored: %s", provider, ev.ExternalID, result.Reason)
		return result, nil
	}

	if err := uc.cache.Remember(ctx, ev); err != nil {
		uc.logger.Warn("ReconcilePayment: failed to cache %s id=%s: %v", provider, ev.ExternalID, err)
	}

	if applied != nil {
		uc.publish(ctx, applied, ev, credited, now)
	}

	uc.logger.Info("ReconcilePayment: %s id=%s %s", provider, ev.ExternalID, result.Outcome)
	return result, nil
}

// applySucceeded inserts the payment row; a conflict on (provider, external id) means a redelivery
func (uc *UseCase) applySucceeded(ctx context.Context, res *domain.Reservation, ev *domain.NormalizedPaymentEvent, now time.Time) (Outcome, int64, error) {
	if !strings.EqualFold(ev.Currency, res.Currency) {
		return OutcomeIgnored, 0, nil
	}

	created, err := uc.paymentRepo.Create(ctx, &domain.Payment{
		OrganizationID: res.OrganizationID,
		ReservationID:  res.ID,
		Provider:       ev.Provider,
		ExternalID:     ev.ExternalID,
		Amount:         ev.Amount,
		Currency:       res.Currency,
		Status:         domain.OutcomeSucceeded,
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
	}
	if !created {
		return OutcomeDuplicate, 0, nil
	}

	// Cancelled reservations keep their status; the money is still recorded
	cash, _ := res.ApplyPayment(ev.Amount, 0)
	method := string(ev.Provider)
	res.PaymentMethod = &method
	res.PaymentDate = &now
	if err := uc.reservationRepo.UpdatePayment(ctx, res); err != nil {
		return "", 0, fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
	}

	if cash > 0 {
		description := fmt.Sprintf("Online payment via %s: %s %s", ev.Provider, domain.FormatAmount(cash), res.Currency)
		if _, err := uc.loyalty.AccrueSpending(ctx, res.UserID, res.OrganizationID, res.ID, cash, domain.ActionPaymentRecorded, description); err != nil {
			return "", 0, fmt.Errorf("%w: failed to accrue spending: %w", ErrInternal, err)
		}
	}
	return OutcomeApplied, cash, nil
}

// applyReversal failed and refunded events move the ledger back to unpaid without a payment row
func (uc *UseCase) applyReversal(ctx context.Context, res *domain.Reservation, ev *domain.NormalizedPaymentEvent) (Outcome, error) {
	fresh, err := uc.paymentRepo.MarkEventProcessed(ctx, ev)
	if err != nil {
		return "", fmt.Errorf("%w: failed to mark event processed: %w", ErrInternal, err)
	}
	if !fresh {
		return OutcomeDuplicate, nil
	}

	if res.PaymentAmount == 0 {
		return OutcomeApplied, nil
	}

	removed := res.ResetPayment()
	if err := uc.reservationRepo.UpdatePayment(ctx, res); err != nil {
		return "", fmt.Errorf("%w: failed to reset payment: %w", ErrInternal, err)
	}

	if removed > 0 {
		description := fmt.Sprintf("Payment %s via %s: -%s %s", ev.Outcome, ev.Provider, domain.FormatAmount(removed), res.Currency)
		if _, err := uc.loyalty.AccrueSpending(ctx, res.UserID, res.OrganizationID, res.ID, -removed, domain.ActionPaymentCancelled, description); err != nil {
			return "", fmt.Errorf("%w: failed to reverse spending: %w", ErrInternal, err)
		}
	}
	return OutcomeApplied, nil
}

func (uc *UseCase) rejected(provider string, err error) (*Result, error) {
	switch {
	case errors.Is(err, gateways.ErrIgnoredEvent):
		uc.logger.Info("ReconcilePayment: %s event ignored: %v", provider, err)
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, string(OutcomeIgnored))
		return &Result{Outcome: OutcomeIgnored, Provider: domain.Provider(provider), Reason: err.Error()}, nil
	case errors.Is(err, gateways.ErrInvalidSignature):
		uc.logger.Warn("ReconcilePayment: %s signature rejected: %v", provider, err)
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, "unauthorized")
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case errors.Is(err, gateways.ErrMalformedPayload):
		uc.logger.Warn("ReconcilePayment: %s payload rejected: %v", provider, err)
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, "malformed")
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	case errors.Is(err, gateways.ErrUpstream):
		uc.logger.Error("ReconcilePayment: %s upstream error: %v", provider, err)
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, "error")
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	default:
		uc.logger.Error("ReconcilePayment: %s normalize failed: %v", provider, err)
		uc.metrics.IncWebhookEvent(uc.serviceName, provider, "error")
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func (uc *UseCase) publish(ctx context.Context, res *domain.Reservation, ev *domain.NormalizedPaymentEvent, credited int64, now time.Time) {
	eventType := domain.EventPaymentRecorded
	amount := credited
	switch ev.Outcome {
	case domain.OutcomeFailed:
		eventType = domain.EventPaymentFailed
		amount = ev.Amount
	case domain.OutcomeRefunded:
		eventType = domain.EventPaymentVoided
		amount = ev.Amount
	}

	out := domain.NewReservationEvent(eventType, res, now)
	out.Amount = amount
	out.Provider = string(ev.Provider)
	if err := uc.publisher.Publish(ctx, out); err != nil {
		uc.logger.Error("ReconcilePayment: failed to publish %s for reservation id=%d: %v", eventType, res.ID, err)
	}
}
