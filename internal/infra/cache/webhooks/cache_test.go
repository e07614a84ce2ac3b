package webhooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

func TestKey(t *testing.T) {
	ev := &domain.NormalizedPaymentEvent{Provider: domain.ProviderStripe, Outcome: domain.OutcomeSucceeded, ExternalID: "pi_123"}
	assert.Equal(t, "booking:webhook:processed:stripe:succeeded:pi_123", Key(ev))

	refund := *ev
	refund.Outcome = domain.OutcomeRefunded
	assert.NotEqual(t, Key(ev), Key(&refund))
}

func TestNopCache(t *testing.T) {
	var c NopCache
	ev := &domain.NormalizedPaymentEvent{}

	assert.NoError(t, c.Remember(context.Background(), ev))
	seen, err := c.Seen(context.Background(), ev)
	assert.NoError(t, err)
	assert.False(t, seen)
}
