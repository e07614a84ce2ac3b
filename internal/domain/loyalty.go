package domain

import (
	"errors"
	"fmt"
	"time"
)

// RedemptionKind which counter a discount draws on
type RedemptionKind string

const (
	RedemptionIndividual RedemptionKind = "individual"
	RedemptionPackage    RedemptionKind = "package"
)

// ParseRedemptionKind validates a request value
func ParseRedemptionKind(s string) (RedemptionKind, error) {
	switch k := RedemptionKind(s); k {
	case RedemptionIndividual, RedemptionPackage:
		return k, nil
	default:
		return "", fmt.Errorf("domain: unknown redemption kind %q", s)
	}
}

// LoyaltyAction audit trail action
type LoyaltyAction string

const (
	ActionProfileCreated   LoyaltyAction = "PROFILE_CREATED"
	ActionServiceCompleted LoyaltyAction = "SERVICE_COMPLETED"
	ActionPackageCompleted LoyaltyAction = "PACKAGE_COMPLETED"
	ActionDiscountUsed     LoyaltyAction = "DISCOUNT_USED"
	ActionPaymentRecorded  LoyaltyAction = "PAYMENT_RECORDED"
	ActionPaymentCancelled LoyaltyAction = "PAYMENT_CANCELLED"
)

// Tier loyalty level derived from points
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

const (
	// CentsPerPoint one point per 10 EUR spent
	CentsPerPoint     = 1000
	SilverMinPoints   = 50
	GoldMinPoints     = 150
	PlatinumMinPoints = 300
)

var ErrInsufficientLoyaltyBalance = errors.New("domain: insufficient loyalty balance")

// LoyaltyProfile per-customer counters
type LoyaltyProfile struct {
	ID                      int64
	UserID                  int64
	OrganizationID          int64
	IndividualServicesCount int
	PackagesCount           int
	TotalSpent              int64
	Points                  int
	Tier                    Tier
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Count current balance of the counter kind draws on
func (p *LoyaltyProfile) Count(kind RedemptionKind) int {
	if kind == RedemptionPackage {
		return p.PackagesCount
	}
	return p.IndividualServicesCount
}

// LoyaltyHistory append-only audit entry
type LoyaltyHistory struct {
	ID             int64
	UserID         int64
	OrganizationID int64
	ReservationID  *int64
	Action         LoyaltyAction
	Points         int
	Description    string
	CreatedAt      time.Time
}

// LoyaltyRules thresholds and discounts (cents) for both kinds
type LoyaltyRules struct {
	IndividualThreshold int
	PackageThreshold    int
	IndividualDiscount  int64
	PackageDiscount     int64
}

// DefaultLoyaltyRules 5 services -> 20 EUR, 3 packages -> 40 EUR
func DefaultLoyaltyRules() LoyaltyRules {
	return LoyaltyRules{
		IndividualThreshold: 5,
		PackageThreshold:    3,
		IndividualDiscount:  2000,
		PackageDiscount:     4000,
	}
}

// Threshold units a redemption of kind consumes
func (r LoyaltyRules) Threshold(kind RedemptionKind) int {
	if kind == RedemptionPackage {
		return r.PackageThreshold
	}
	return r.IndividualThreshold
}

// Discount cents granted by a redemption of kind
func (r LoyaltyRules) Discount(kind RedemptionKind) int64 {
	if kind == RedemptionPackage {
		return r.PackageDiscount
	}
	return r.IndividualDiscount
}

// CanRedeem count >= threshold(kind)
func (r LoyaltyRules) CanRedeem(p *LoyaltyProfile, kind RedemptionKind) bool {
	return p.Count(kind) >= r.Threshold(kind)
}

// RedemptionDescription human-readable history line
func (r LoyaltyRules) RedemptionDescription(kind RedemptionKind) string {
	if kind == RedemptionPackage {
		return fmt.Sprintf("Loyalty discount for %d packages used (-%s)", r.PackageThreshold, FormatAmount(r.PackageDiscount))
	}
	return fmt.Sprintf("Loyalty discount for %d services used (-%s)", r.IndividualThreshold, FormatAmount(r.IndividualDiscount))
}

// PointsFor one point per full 10 EUR
func PointsFor(totalSpent int64) int {
	if totalSpent <= 0 {
		return 0
	}
	return int(totalSpent / CentsPerPoint)
}

// TierFor tier reached with points
func TierFor(points int) Tier {
	switch {
	case points >= PlatinumMinPoints:
		return TierPlatinum
	case points >= GoldMinPoints:
		return TierGold
	case points >= SilverMinPoints:
		return TierSilver
	default:
		return TierBronze
	}
}

// CompletionAction history action for a completed reservation
func CompletionAction(wasPackage bool) LoyaltyAction {
	if wasPackage {
		return ActionPackageCompleted
	}
	return ActionServiceCompleted
}
