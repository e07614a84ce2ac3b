package record_payment

import (
	"github.com/m04kA/SMC-BookingCore/internal/domain"
	loyaltyModels "github.com/m04kA/SMC-BookingCore/internal/service/loyalty/models"
)

// MaxMethodLength payment method label
const MaxMethodLength = 50

type Request struct {
	Principal     domain.Principal
	ReservationID int64
	// Amount cash part in cents
	Amount int64
	Method string
	Notes  *string
	Redeem []domain.RedemptionKind
}

type Response struct {
	Reservation      *domain.Reservation
	CashCredited     int64
	DiscountCredited int64
	Redemptions      []*loyaltyModels.Redemption
}
