package testfixtures

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// NopMetrics satisfies the narrow metrics interfaces of services and use cases
type NopMetrics struct{}

func (NopMetrics) IncReservationCreated(string)                {}
func (NopMetrics) IncBookingConflict(string)                   {}
func (NopMetrics) IncWebhookEvent(string, string, string)      {}
func (NopMetrics) IncLoyaltyRedemption(string, string, string) {}

// RecordingPublisher keeps published ledger events in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, evs ...domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *RecordingPublisher) Events() []domain.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.LedgerEvent(nil), p.events...)
}

// Types event types in publication order
func (p *RecordingPublisher) Types() []domain.LedgerEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]domain.LedgerEventType, 0, len(p.events))
	for _, ev := range p.events {
		types = append(types, ev.Type)
	}
	return types
}

// MemoryWebhookCache processed-event cache without redis
type MemoryWebhookCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func (c *MemoryWebhookCache) key(ev *domain.NormalizedPaymentEvent) string {
	return string(ev.Provider) + ":" + string(ev.Outcome) + ":" + ev.ExternalID
}

func (c *MemoryWebhookCache) Seen(_ context.Context, ev *domain.NormalizedPaymentEvent) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[c.key(ev)]
	return ok, nil
}

func (c *MemoryWebhookCache) Remember(_ context.Context, ev *domain.NormalizedPaymentEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	c.seen[c.key(ev)] = struct{}{}
	return nil
}
