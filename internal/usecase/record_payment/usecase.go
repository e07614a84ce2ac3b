package record_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
	reservationRepo "github.com/m04kA/SMC-BookingCore/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-BookingCore/internal/service/loyalty"
	loyaltyModels "github.com/m04kA/SMC-BookingCore/internal/service/loyalty/models"
)

// UUIDGenerator random v4 ids
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// UseCase desk payment with optional loyalty redemptions, all in one transaction
type UseCase struct {
	reservationRepo ReservationRepository
	paymentRepo     PaymentRepository
	loyalty         LoyaltyAccount
	txManager       TransactionManager
	publisher       EventPublisher
	ids             IDGenerator
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	reservationRepo ReservationRepository,
	paymentRepo PaymentRepository,
	loyalty LoyaltyAccount,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		paymentRepo:     paymentRepo,
		loyalty:         loyalty,
		txManager:       txManager,
		publisher:       publisher,
		ids:             UUIDGenerator{},
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

func (uc *UseCase) WithIDGenerator(ids IDGenerator) *UseCase {
	uc.ids = ids
	return uc
}

// Execute credits amount plus the requested discounts. Any failure, including an
// insufficient loyalty balance, rolls back every counter, row and ledger change.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecordPayment: reservation=%d, amount=%s, method=%s, redeem=%v by user=%d",
		req.ReservationID, domain.FormatAmount(req.Amount), req.Method, req.Redeem, req.Principal.UserID)

	// 1. Validate input and capabilities
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RecordPayment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	resp := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		resp.Redemptions = nil

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

		// 3. Something must be left to pay
		if res.Status == domain.StatusCancelled {
			return ErrReservationCancelled
		}
		if res.PaymentAmount >= res.TotalPrice {
			return ErrAlreadyPaid
		}

		// A discount is applied whole or not at all
		outstanding := res.TotalPrice - res.PaymentAmount
		if requested := uc.requestedDiscount(req.Redeem); requested > outstanding {
			return fmt.Errorf("%w: discount %s, outstanding %s", ErrDiscountExceedsBalance,
				domain.FormatAmount(requested), domain.FormatAmount(outstanding))
		}

		// 4. Redemptions; one failure aborts everything
		var discount int64
		for _, kind := range req.Redeem {
			redemption, err := uc.loyalty.Redeem(txCtx, res.UserID, res.OrganizationID, res.ID, kind)
			if err != nil {
				if errors.Is(err, loyalty.ErrInsufficientBalance) {
					return fmt.Errorf("%w: %s", ErrInsufficientLoyaltyBalance, kind)
				}
				return fmt.Errorf("%w: failed to redeem %s: %w", ErrInternal, kind, err)
			}
			discount += redemption.Discount
			resp.Redemptions = append(resp.Redemptions, redemption)
		}

		// 5. Ledger credit, clamped to the total
		cash, credited := res.ApplyPayment(req.Amount, discount)

		// 6. Immutable payment rows
		if cash > 0 {
			if err := uc.createPayment(txCtx, res, domain.ProviderManual, uc.ids.NewID(), cash); err != nil {
				return err
			}
		}
		for _, r := range resp.Redemptions {
			if r.Discount == 0 {
				continue
			}
			if err := uc.createPayment(txCtx, res, domain.ProviderLoyalty, fmt.Sprintf("loyalty-%d", r.HistoryID), r.Discount); err != nil {
				return err
			}
		}

		// 7. Method, date, invoice and notes
		method := req.Method
		res.PaymentMethod = &method
		res.PaymentDate = &now
		if res.InvoiceNumber == nil {
			count, err := uc.reservationRepo.CountInvoices(txCtx, res.OrganizationID, domain.InvoicePrefixFor(now))
			if err != nil {
				return fmt.Errorf("%w: failed to count invoices: %w", ErrInternal, err)
			}
			invoice := domain.FormatInvoiceNumber(now, count+1)
			res.InvoiceNumber = &invoice
		}
		res.PaymentNotes = appendNotes(res.PaymentNotes, paymentNoteLines(req, now, cash, resp.Redemptions))

		if err := uc.reservationRepo.UpdatePayment(txCtx, res); err != nil {
			return fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
		}

		// 8. Spending, points and tier
		if cash > 0 {
			description := fmt.Sprintf("Payment recorded: %s %s", domain.FormatAmount(cash), res.Currency)
			if _, err := uc.loyalty.AccrueSpending(txCtx, res.UserID, res.OrganizationID, res.ID, cash, domain.ActionPaymentRecorded, description); err != nil {
				return fmt.Errorf("%w: failed to accrue spending: %w", ErrInternal, err)
			}
		}

		resp.Reservation = res
		resp.CashCredited = cash
		resp.DiscountCredited = credited
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("RecordPayment: reservation id=%d: %v", req.ReservationID, err)
		} else {
			uc.logger.Warn("RecordPayment: reservation id=%d: %v", req.ReservationID, err)
		}
		return nil, err
	}

	uc.publish(ctx, resp, now)

	uc.logger.Info("RecordPayment: reservation id=%d, cash=%s, discount=%s, paid=%s/%s, status=%s, invoice=%s",
		resp.Reservation.ID, domain.FormatAmount(resp.CashCredited), domain.FormatAmount(resp.DiscountCredited),
		domain.FormatAmount(resp.Reservation.PaymentAmount), domain.FormatAmount(resp.Reservation.TotalPrice),
		resp.Reservation.PaymentStatus, *resp.Reservation.InvoiceNumber)
	return resp, nil
}

func (uc *UseCase) requestedDiscount(kinds []domain.RedemptionKind) int64 {
	rules := uc.loyalty.Rules()
	var total int64
	for _, kind := range kinds {
		total += rules.Discount(kind)
	}
	return total
}

func (uc *UseCase) createPayment(ctx context.Context, res *domain.Reservation, provider domain.Provider, externalID string, amount int64) error {
	created, err := uc.paymentRepo.Create(ctx, &domain.Payment{
		OrganizationID: res.OrganizationID,
		ReservationID:  res.ID,
		Provider:       provider,
		ExternalID:     externalID,
		Amount:         amount,
		Currency:       res.Currency,
		Status:         domain.OutcomeSucceeded,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create %s payment: %w", ErrInternal, provider, err)
	}
	if !created {
		return fmt.Errorf("%w: %s payment %s already exists", ErrInternal, provider, externalID)
	}
	return nil
}

func (uc *UseCase) publish(ctx context.Context, resp *Response, at time.Time) {
	res := resp.Reservation

	payment := domain.NewReservationEvent(domain.EventPaymentRecorded, res, at)
	payment.Amount = resp.CashCredited + resp.DiscountCredited
	payment.Provider = string(domain.ProviderManual)

	events := []domain.LedgerEvent{payment}
	for _, r := range resp.Redemptions {
		ev := domain.NewReservationEvent(domain.EventLoyaltyRedeemed, res, at)
		ev.Amount = r.Discount
		ev.Provider = string(r.Kind)
		events = append(events, ev)
	}

	if err := uc.publisher.Publish(ctx, events...); err != nil {
		uc.logger.Error("RecordPayment: failed to publish events for reservation id=%d: %v", res.ID, err)
	}
}

func paymentNoteLines(req *Request, now time.Time, cash int64, redemptions []*loyaltyModels.Redemption) []string {
	date := now.Format(domain.DateFormat)
	var lines []string
	if cash > 0 {
		lines = append(lines, fmt.Sprintf("%s: %s via %s", date, domain.FormatAmount(cash), req.Method))
	}
	for _, r := range redemptions {
		lines = append(lines, fmt.Sprintf("%s: loyalty discount (%s) -%s", date, r.Kind, domain.FormatAmount(r.Discount)))
	}
	if req.Notes != nil {
		lines = append(lines, *req.Notes)
	}
	return lines
}

// appendNotes keeps earlier payment notes and adds lines below them
func appendNotes(existing *string, lines []string) *string {
	if len(lines) == 0 {
		return existing
	}
	joined := strings.Join(lines, "\n")
	if existing != nil && *existing != "" {
		joined = *existing + "\n" + joined
	}
	return &joined
}
