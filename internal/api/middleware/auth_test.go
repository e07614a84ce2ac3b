package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

func TestAuthenticator_Parse(t *testing.T) {
	auth := NewAuthenticator("test-secret", "booking-core")

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.Issue(7, 1, []string{"reservations:manage", "unknown"}, time.Hour)
		require.NoError(t, err)

		p, err := auth.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.UserID)
		assert.Equal(t, int64(1), p.OrganizationID)
		assert.True(t, p.Can(domain.CapReservationsManage))
		assert.False(t, p.Can(domain.CapPaymentsRecord))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := auth.Issue(7, 1, nil, -time.Minute)
		require.NoError(t, err)
		_, err = auth.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewAuthenticator("other", "booking-core").Issue(7, 1, nil, time.Hour)
		require.NoError(t, err)
		_, err = auth.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewAuthenticator("test-secret", "someone-else").Issue(7, 1, nil, time.Hour)
		require.NoError(t, err)
		_, err = auth.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing organization", func(t *testing.T) {
		token, err := auth.Issue(7, 0, nil, time.Hour)
		require.NoError(t, err)
		_, err = auth.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		claims := Claims{Organization: 1, RegisteredClaims: jwt.RegisteredClaims{
			Subject: "alice", Issuer: "booking-core", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = auth.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthenticator_Auth(t *testing.T) {
	auth := NewAuthenticator("test-secret", "")
	var got domain.Principal
	h := auth.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.Issue(3, 2, []string{"payments:record"}, time.Hour)
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(3), got.UserID)
	assert.Equal(t, int64(2), got.OrganizationID)
	assert.True(t, got.Can(domain.CapPaymentsRecord))
}
