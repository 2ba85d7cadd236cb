package middleware

import (
	"context"
	"strings"

	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/router"
	"github.com/pulsespace/backend/pkg/xcontext"
)

// Authenticate resolves the bearer credential of a request and stores the
// caller's user id in the context. Every failure mode (missing, malformed,
// expired, bad signature) produces the same denial.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := getAccessToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		userID, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

// getAccessToken reads the credential from the Authorization header, falling
// back to the token query parameter for websocket handshakes, where browsers
// cannot set headers.
func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if authorization != "" {
		token, found := strings.CutPrefix(authorization, "Bearer ")
		if !found {
			return ""
		}

		return token
	}

	return req.URL.Query().Get("token")
}
