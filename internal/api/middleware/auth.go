package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-BookingCore/internal/api/handlers"
	"github.com/m04kA/SMC-BookingCore/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

var ErrInvalidToken = errors.New("middleware: invalid bearer token")

// Claims bearer token payload: sub is the user id, org the tenant
type Claims struct {
	Organization int64    `json:"org"`
	Capabilities []string `json:"caps,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer}
}

// Parse validates the token and maps its claims to a Principal
func (a *Authenticator) Parse(token string) (domain.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Principal{}, fmt.Errorf("%w: sub must be a positive user id", ErrInvalidToken)
	}
	if claims.Organization <= 0 {
		return domain.Principal{}, fmt.Errorf("%w: org must be a positive organization id", ErrInvalidToken)
	}

	return domain.Principal{
		UserID:         userID,
		OrganizationID: claims.Organization,
		Capabilities:   domain.ParseCapabilities(claims.Capabilities),
	}, nil
}

// Issue signs a token for principal; used by tests and local tooling
func (a *Authenticator) Issue(userID, organizationID int64, caps []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Organization: organizationID,
		Capabilities: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Auth rejects requests without a valid bearer token and stores the Principal in the context
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			handlers.RespondUnauthorized(w, "missing bearer token")
			return
		}

		principal, err := a.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			handlers.RespondUnauthorized(w, "invalid bearer token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal set by Auth
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
