package models

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// Redemption result of one successful LoyaltyAccount.redeem
type Redemption struct {
	Kind      domain.RedemptionKind
	Discount  int64
	HistoryID int64
	Profile   *domain.LoyaltyProfile
}

// ProfileResponse profile with its most recent history. Money is in cents.
type ProfileResponse struct {
	UserID                  int64             `json:"userId"`
	OrganizationID          int64             `json:"organizationId"`
	IndividualServicesCount int               `json:"individualServicesCount"`
	PackagesCount           int               `json:"packagesCount"`
	TotalSpent              int64             `json:"totalSpent"`
	Points                  int               `json:"points"`
	Tier                    string            `json:"tier"`
	CanRedeemIndividual     bool              `json:"canRedeemIndividual"`
	CanRedeemPackage        bool              `json:"canRedeemPackage"`
	History                 []HistoryResponse `json:"history"`
}

type HistoryResponse struct {
	ID            int64     `json:"id"`
	ReservationID *int64    `json:"reservationId,omitempty"`
	Action        string    `json:"action"`
	Points        int       `json:"points"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FromDomainProfile builds the read model
func FromDomainProfile(p *domain.LoyaltyProfile, history []*domain.LoyaltyHistory, rules domain.LoyaltyRules) *ProfileResponse {
	resp := &ProfileResponse{
		UserID:                  p.UserID,
		OrganizationID:          p.OrganizationID,
		IndividualServicesCount: p.IndividualServicesCount,
		PackagesCount:           p.PackagesCount,
		TotalSpent:              p.TotalSpent,
		Points:                  p.Points,
		Tier:                    string(p.Tier),
		CanRedeemIndividual:     rules.CanRedeem(p, domain.RedemptionIndividual),
		CanRedeemPackage:        rules.CanRedeem(p, domain.RedemptionPackage),
		History:                 make([]HistoryResponse, 0, len(history)),
	}
	for _, h := range history {
		resp.History = append(resp.History, HistoryResponse{
			ID:            h.ID,
			ReservationID: h.ReservationID,
			Action:        string(h.Action),
			Points:        h.Points,
			Description:   h.Description,
			CreatedAt:     h.CreatedAt,
		})
	}
	return resp
}
