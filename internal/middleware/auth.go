package middleware

import (
	"context"
	"strings"

	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/router"
	"github.com/bskmt/backend/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (verifier *AuthVerifier) WithAccessToken() *AuthVerifier {
	verifier.useAccessToken = true
	return verifier
}

func (verifier *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if verifier.useAccessToken {
			token := getAccessToken(ctx)
			if token != "" {
				info, err := xcontext.TokenEngine(ctx).Verify(token)
				if err != nil {
					xcontext.Logger(ctx).Debugf("Cannot verify the access token: %v", err)
					return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
				}

				return xcontext.WithRequestUserID(ctx, info.ID), nil
			}
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func getAccessToken(ctx context.Context) string {
	httpReq := xcontext.HTTPRequest(ctx)
	authorization := httpReq.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}

		return ""
	}

	cookie, err := httpReq.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
