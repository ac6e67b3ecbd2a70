package stubapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cetrics/nexdawn-storefront/pkg/config"
	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

type ctxKey string

const ctxAccount ctxKey = "stubapi.account"

func issueToken(cfg config.StubConfig, acct account, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.JWTIssuer,
		Subject:   strconv.Itoa(acct.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign token")
	}
	return signed, nil
}

func parseToken(cfg config.StubConfig, raw string) (int, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer(cfg.JWTIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid subject")
	}
	return id, nil
}

// requireAuth validates the bearer token and seeds the request context with
// the matching account.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if raw == "" {
			s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token == "" {
			s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		userID, err := parseToken(s.cfg, token)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		acct, ok := s.store.findAccountByID(userID)
		if !ok {
			s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user"))
			return
		}

		ctx := context.WithValue(r.Context(), ctxAccount, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin sits behind requireAuth and rejects non-admin accounts.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct, ok := accountFrom(r.Context())
		if !ok || !strings.EqualFold(acct.UserType, "admin") {
			s.writeError(r.Context(), w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accountFrom(ctx context.Context) (account, bool) {
	acct, ok := ctx.Value(ctxAccount).(account)
	return acct, ok
}
