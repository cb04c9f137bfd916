package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "salesdash_session"

type viewerKey struct{}

// WithViewer stores the viewer on ctx.
func WithViewer(ctx context.Context, viewer dashboard.ViewerContext) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

// ViewerFrom returns the viewer stored by the session middleware, or the
// anonymous viewer.
func ViewerFrom(ctx context.Context) dashboard.ViewerContext {
	if v, ok := ctx.Value(viewerKey{}).(dashboard.ViewerContext); ok {
		return v
	}
	return dashboard.ViewerContext{}
}

// TokenFromRequest reads a bearer token or the session cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession rejects requests without a live session and attaches the
// signed-in viewer to the request context.
func RequireSession(sessions SessionManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Authenticate(r.Context(), TokenFromRequest(r))
		if err != nil {
			writeError(w, err)
			return
		}
		viewer := dashboard.ViewerContext{
			UserID: sess.User.Email,
			Roles:  []string{strings.ToLower(sess.User.Role)},
			Locale: acceptLanguage(r.Header.Get("Accept-Language")),
		}
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
	})
}

func acceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token, _, _ = strings.Cut(strings.TrimSpace(token), ";")
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}
