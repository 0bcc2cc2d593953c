package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/futig/ai-compass/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	VisitorCookieName = "ai_compass_visitor"
	visitorCookieAge  = 24 * time.Hour
)

type visitorKey struct{}

// VisitorID returns the browsing-session id set by Visitor.
func VisitorID(ctx context.Context) string {
	id, _ := ctx.Value(visitorKey{}).(string)
	return id
}

// WithVisitorID returns ctx carrying id.
func WithVisitorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey{}, id)
}

// Visitor identifies the browsing session by an anonymous cookie, issuing a new
// one when it is missing or malformed.
func Visitor(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(VisitorCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(visitorCookieAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   secure,
			})

			ctx := logger.AddFields(WithVisitorID(r.Context(), id), zap.String("visitor_id", id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
