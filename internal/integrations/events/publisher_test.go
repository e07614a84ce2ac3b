package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestPublish_KeysByReservation(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisher(w, nopLogger{})

	ev := domain.LedgerEvent{
		Type:          domain.EventPaymentRecorded,
		ReservationID: 42,
		Amount:        4990,
		OccurredAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))
	assert.Equal(t, "payment.recorded", string(w.msgs[0].Headers[0].Value))

	var decoded domain.LedgerEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, int64(4990), decoded.Amount)
}

func TestPublish_WriterError(t *testing.T) {
	p := NewPublisher(&fakeWriter{err: errors.New("broker down")}, nopLogger{})
	err := p.Publish(context.Background(), domain.LedgerEvent{Type: domain.EventReservationCreated})
	assert.Error(t, err)
}

func TestPublish_Empty(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, NewPublisher(w, nopLogger{}).Publish(context.Background()))
	assert.Empty(t, w.msgs)
}
