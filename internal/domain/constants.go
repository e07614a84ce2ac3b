package domain

// Scheduling defaults
const (
	DefaultSlotStepMinutes        = 30
	DefaultPreparationBufferMin   = 15
	DefaultServiceDurationMinutes = 60
	DefaultCurrency               = "EUR"
	MaxNotesLength                = 500
	MaxCancellationReasonLength   = 500
	MaxServicesPerReservation     = 10
	DefaultLoyaltyHistoryLimit    = 50
	MaxLoyaltyHistoryLimit        = 500
	InvoiceNumberPrefix           = "FAC"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BookingRules durations used to derive a reservation's occupied interval
type BookingRules struct {
	SlotStepMinutes        int
	PreparationBufferMin   int
	DefaultServiceDuration int
}

// DefaultBookingRules observed production values
func DefaultBookingRules() BookingRules {
	return BookingRules{
		SlotStepMinutes:        DefaultSlotStepMinutes,
		PreparationBufferMin:   DefaultPreparationBufferMin,
		DefaultServiceDuration: DefaultServiceDurationMinutes,
	}
}
