package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/turboost/turboost-backend/pkg/logger"
)

const (
	sessionCookieName = "tb_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

// StorefrontSession assigns an anonymous session identifier to every
// storefront request. The identifier keys the visitor's cart and shipping
// state, so it is issued on first contact and carried in a cookie after that.
func StorefrontSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
