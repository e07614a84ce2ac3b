package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "49.90", want: 4990},
		{in: "10", want: 1000},
		{in: "7.5", want: 750},
		{in: ".5", want: 50},
		{in: " 120.00 ", want: 12000},
		{in: "1.234", wantErr: true},
		{in: "-1.00", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimalAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountFromFloat(t *testing.T) {
	got, err := AmountFromFloat(49.9)
	require.NoError(t, err)
	assert.Equal(t, int64(4990), got)

	_, err = AmountFromFloat(-3)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "20.00", FormatAmount(2000))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "-1.50", FormatAmount(-150))
}

func TestInvoiceNumber(t *testing.T) {
	at := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "FAC-202503-0007", FormatInvoiceNumber(at, 7))
	assert.Equal(t, "FAC-202503-", InvoicePrefixFor(at))
}
