package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoyaltyRules(t *testing.T) {
	rules := DefaultLoyaltyRules()
	p := &LoyaltyProfile{IndividualServicesCount: 5, PackagesCount: 2}

	assert.True(t, rules.CanRedeem(p, RedemptionIndividual))
	assert.False(t, rules.CanRedeem(p, RedemptionPackage))
	assert.Equal(t, 5, rules.Threshold(RedemptionIndividual))
	assert.Equal(t, 3, rules.Threshold(RedemptionPackage))
	assert.Equal(t, int64(4000), rules.Discount(RedemptionPackage))
	assert.Equal(t, "Loyalty discount for 5 services used (-20.00)", rules.RedemptionDescription(RedemptionIndividual))
}

func TestPointsAndTier(t *testing.T) {
	assert.Equal(t, 0, PointsFor(999))
	assert.Equal(t, 1, PointsFor(1000))
	assert.Equal(t, 0, PointsFor(-10))

	assert.Equal(t, TierBronze, TierFor(49))
	assert.Equal(t, TierSilver, TierFor(50))
	assert.Equal(t, TierGold, TierFor(150))
	assert.Equal(t, TierPlatinum, TierFor(300))
}

func TestParseRedemptionKind(t *testing.T) {
	k, err := ParseRedemptionKind("package")
	assert.NoError(t, err)
	assert.Equal(t, RedemptionPackage, k)

	_, err = ParseRedemptionKind("gold")
	assert.Error(t, err)
}
