package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/pkg/crypto"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/router"
	"github.com/bskmt/backend/pkg/xcontext"
)

// The CSRF protection uses the double-submit cookie scheme. The server hands
// out a signed token in a cookie, a state-changing request must echo the same
// token in the configured header. A cross-site attacker can trigger the
// cookie but cannot read it to fill the header.

// NewCSRFToken signs a random value with the secret at the given time.
// The format is value.issuedAtUnix.signature.
func NewCSRFToken(secret string, now time.Time) (string, error) {
	value, err := crypto.GenerateRandomString()
	if err != nil {
		return "", err
	}

	payload := fmt.Sprintf("%s.%d", value, now.Unix())
	return payload + "." + crypto.HMAC(sha256.New, []byte(payload), []byte(secret)), nil
}

// VerifyCSRFToken checks the signature and the age of a token.
func VerifyCSRFToken(token, secret string, ttl time.Duration, now time.Time) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}

	payload := parts[0] + "." + parts[1]
	expected := crypto.HMAC(sha256.New, []byte(payload), []byte(secret))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(parts[2])) != 1 {
		return false
	}

	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}

	if now.After(time.Unix(issuedAt, 0).Add(ttl)) {
		return false
	}

	return true
}

// IssueCSRFToken is the handler giving out a fresh token. The token is set as
// a cookie and mirrored into a readable cookie and the response body, so both
// browser and non-browser clients can echo it back.
func IssueCSRFToken(
	ctx context.Context, req *model.IssueCSRFTokenRequest,
) (*model.IssueCSRFTokenResponse, error) {
	cfg := xcontext.Configs(ctx)
	token, err := NewCSRFToken(cfg.Auth.TokenSecret, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the csrf token: %v", err)
		return nil, errorx.Unknown
	}

	expires := time.Now().Add(cfg.Security.CSRF.Expiration)
	http.SetCookie(xcontext.HTTPWriter(ctx), &http.Cookie{
		Name:     cfg.Security.CSRF.CookieName,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Env == "prod",
	})

	http.SetCookie(xcontext.HTTPWriter(ctx), &http.Cookie{
		Name:     cfg.Security.CSRF.MirrorName,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Env == "prod",
	})

	return &model.IssueCSRFTokenResponse{Token: token}, nil
}

// RequireCSRF rejects a state-changing request whose header token does not
// match the cookie token.
func RequireCSRF() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		httpReq := xcontext.HTTPRequest(ctx)
		switch httpReq.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return ctx, nil
		}

		cfg := xcontext.Configs(ctx)
		cookie, err := httpReq.Cookie(cfg.Security.CSRF.CookieName)
		if err != nil {
			return nil, errorx.New(errorx.InvalidCSRFToken, "Missing csrf cookie")
		}

		header := httpReq.Header.Get(cfg.Security.CSRF.HeaderName)
		if header == "" {
			return nil, errorx.New(errorx.InvalidCSRFToken, "Missing csrf header")
		}

		if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			return nil, errorx.New(errorx.InvalidCSRFToken, "Mismatched csrf token")
		}

		if !VerifyCSRFToken(cookie.Value, cfg.Auth.TokenSecret, cfg.Security.CSRF.Expiration, time.Now()) {
			return nil, errorx.New(errorx.InvalidCSRFToken, "Invalid or expired csrf token")
		}

		return ctx, nil
	}
}
