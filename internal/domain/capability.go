package domain

// Capability privileged operation a principal may perform
type Capability uint8

const (
	CapReservationsManage Capability = 1 << iota
	CapPaymentsRecord
	CapLoyaltyRedeem
	CapScheduleManage
)

var capabilityNames = map[string]Capability{
	"reservations:manage": CapReservationsManage,
	"payments:record":     CapPaymentsRecord,
	"loyalty:redeem":      CapLoyaltyRedeem,
	"schedule:manage":     CapScheduleManage,
}

// CapabilitySet bitset of granted capabilities
type CapabilitySet uint8

// ParseCapabilities builds a set from token claim names; unknown names are dropped
func ParseCapabilities(names []string) CapabilitySet {
	var set CapabilitySet
	for _, n := range names {
		if c, ok := capabilityNames[n]; ok {
			set |= CapabilitySet(c)
		}
	}
	return set
}

// NewCapabilitySet set holding caps
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var set CapabilitySet
	for _, c := range caps {
		set |= CapabilitySet(c)
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// Principal authenticated caller, scoped to one organization
type Principal struct {
	UserID         int64
	OrganizationID int64
	Capabilities   CapabilitySet
}

// Can shorthand for Capabilities.Has
func (p Principal) Can(c Capability) bool {
	return p.Capabilities.Has(c)
}

// CanAccessUser owner, or a staff member holding c
func (p Principal) CanAccessUser(userID int64, c Capability) bool {
	return p.UserID == userID || p.Can(c)
}
