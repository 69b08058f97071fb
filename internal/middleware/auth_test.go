package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bskmt/backend/internal/model"
	"github.com/bskmt/backend/pkg/errorx"
	"github.com/bskmt/backend/pkg/testutil"
	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_AuthVerifier_Middleware(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	middleware := NewAuthVerifier().WithAccessToken().Middleware()

	token, err := xcontext.TokenEngine(ctx).Generate("user1", model.AccessToken{
		ID:    "user1",
		Email: "user1@club.test",
		Role:  "USER",
	})
	require.NoError(t, err)

	requireUnauthenticated := func(t *testing.T, err error) {
		var errx errorx.Error
		require.ErrorAs(t, err, &errx)
		require.Equal(t, errorx.Unauthenticated, errx.Code)
	}

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/getMe", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		reqCtx, err := middleware(xcontext.WithHTTPRequest(ctx, req))
		require.NoError(t, err)
		require.Equal(t, "user1", xcontext.RequestUserID(reqCtx))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/getMe", nil)
		req.AddCookie(&http.Cookie{Name: cfg.Auth.AccessToken.Name, Value: token})

		reqCtx, err := middleware(xcontext.WithHTTPRequest(ctx, req))
		require.NoError(t, err)
		require.Equal(t, "user1", xcontext.RequestUserID(reqCtx))
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/getMe", nil)
		_, err := middleware(xcontext.WithHTTPRequest(ctx, req))
		requireUnauthenticated(t, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/getMe", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		_, err := middleware(xcontext.WithHTTPRequest(ctx, req))
		requireUnauthenticated(t, err)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/getMe", nil)
		req.Header.Set("Authorization", "Basic "+token)
		_, err := middleware(xcontext.WithHTTPRequest(ctx, req))
		requireUnauthenticated(t, err)
	})
}
