package models

import (
	"time"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// ReservationResponse ledger entry as exposed over HTTP. Money is in cents.
type ReservationResponse struct {
	ID                 int64             `json:"id"`
	OrganizationID     int64             `json:"organizationId"`
	LocationID         int64             `json:"locationId"`
	UserID             int64             `json:"userId"`
	Date               string            `json:"date"`      // "2025-10-15"
	StartTime          string            `json:"startTime"` // "10:00"
	EndTime            string            `json:"endTime"`
	DurationMinutes    int               `json:"durationMinutes"`
	Status             string            `json:"status"`
	PaymentStatus      string            `json:"paymentStatus"`
	PaymentAmount      int64             `json:"paymentAmount"`
	DiscountAmount     int64             `json:"discountAmount"`
	TotalPrice         int64             `json:"totalPrice"`
	Currency           string            `json:"currency"`
	PaymentMethod      *string           `json:"paymentMethod,omitempty"`
	PaymentDate        *time.Time        `json:"paymentDate,omitempty"`
	InvoiceNumber      *string           `json:"invoiceNumber,omitempty"`
	PaymentNotes       *string           `json:"paymentNotes,omitempty"`
	Services           []ServiceResponse `json:"services"`
	Notes              *string           `json:"notes,omitempty"`
	CancellationReason *string           `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time        `json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time        `json:"completedAt,omitempty"`
	Payments           []PaymentResponse `json:"payments,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

type ServiceResponse struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	IsPackage       bool   `json:"isPackage"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           int64  `json:"price"`
}

type PaymentResponse struct {
	ID         int64     `json:"id"`
	Provider   string    `json:"provider"`
	ExternalID string    `json:"externalId"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// FromDomainReservation converts the domain model into the DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		OrganizationID:     r.OrganizationID,
		LocationID:         r.LocationID,
		UserID:             r.UserID,
		Date:               r.Date.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime().String(),
		DurationMinutes:    r.DurationMinutes,
		Status:             string(r.Status),
		PaymentStatus:      string(r.PaymentStatus),
		PaymentAmount:      r.PaymentAmount,
		DiscountAmount:     r.DiscountAmount,
		TotalPrice:         r.TotalPrice,
		Currency:           r.Currency,
		PaymentMethod:      r.PaymentMethod,
		PaymentDate:        r.PaymentDate,
		InvoiceNumber:      r.InvoiceNumber,
		PaymentNotes:       r.PaymentNotes,
		Services:           make([]ServiceResponse, 0, len(r.Services)),
		Notes:              r.Notes,
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CompletedAt:        r.CompletedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	for _, s := range r.Services {
		resp.Services = append(resp.Services, ServiceResponse{
			ServiceID:       s.ServiceID,
			Name:            s.ServiceName,
			IsPackage:       s.IsPackage,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}
	return resp
}

// WithPayments attaches the payment rows of the reservation
func (r *ReservationResponse) WithPayments(payments []*domain.Payment) *ReservationResponse {
	r.Payments = make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		r.Payments = append(r.Payments, PaymentResponse{
			ID:         p.ID,
			Provider:   string(p.Provider),
			ExternalID: p.ExternalID,
			Amount:     p.Amount,
			Currency:   p.Currency,
			Status:     string(p.Status),
			CreatedAt:  p.CreatedAt,
		})
	}
	return r
}

// FromDomainReservationList converts a list
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{Reservations: make([]ReservationResponse, 0, len(list))}
	for _, r := range list {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(r))
	}
	return resp
}
