package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lzjever/mbos-activity/internal/core"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// Claims is the caller identity carried by a bearer token. The subject claim
// holds the user id.
type Claims struct {
	Name       string   `json:"name"`
	Roles      []string `json:"roles,omitempty"`
	TenantID   string   `json:"tenant_id,omitempty"`
	SuperAdmin bool     `json:"super_admin,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and turns them into a core.Caller.
type Authenticator struct {
	signingKey []byte
	issuer     string
}

func NewAuthenticator(signingKey, issuer string) *Authenticator {
	return &Authenticator{signingKey: []byte(signingKey), issuer: issuer}
}

// Issue signs a token for the given caller. Used by activityctl and tests.
func (a *Authenticator) Issue(c core.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:       c.FullName,
		Roles:      c.Roles,
		SuperAdmin: c.SuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID.String(),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if c.InTenant() {
		claims.TenantID = c.TenantID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.signingKey)
}

// Parse validates a token string and returns the caller it describes.
func (a *Authenticator) Parse(tokenString string) (core.Caller, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return a.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return core.Caller{}, errors.Join(ErrInvalidToken, jwt.ErrTokenExpired)
		}
		return core.Caller{}, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return core.Caller{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return core.Caller{}, errors.Join(ErrInvalidToken, err)
	}
	caller := core.Caller{
		UserID:     userID,
		FullName:   claims.Name,
		Roles:      claims.Roles,
		SuperAdmin: claims.SuperAdmin,
	}
	if claims.TenantID != "" {
		if caller.TenantID, err = uuid.Parse(claims.TenantID); err != nil {
			return core.Caller{}, errors.Join(ErrInvalidToken, err)
		}
	}
	return caller, nil
}

// Auth rejects requests without a valid bearer token and stores the caller
// in the request context.
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			unauthorized(w, "missing bearer token")
			return
		}
		caller, err := a.Parse(tokenString)
		if err != nil {
			zap.L().Debug("token rejected",
				zap.Error(err),
				zap.String("request_id", GetRequestID(r)),
			)
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(w, "token expired")
				return
			}
			unauthorized(w, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(core.WithCaller(r.Context(), caller)))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeError(w, core.ErrUnauthorized, msg)
}
