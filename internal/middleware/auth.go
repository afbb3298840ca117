package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nursery-service/pkg/jwtutil"
	"nursery-service/pkg/logger"
	"nursery-service/prometheus"
)

// SessionCookie is the cookie holding the session token for browsers.
const SessionCookie = "session"

const sessionKey = "session"

// JWTAuthMiddleware validates the session token from the Authorization
// header or, failing that, the session cookie, and stores its claims for
// Session. metrics may be nil.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil, metrics *prometheus.Metrics) echo.MiddlewareFunc {
	reject := func(c echo.Context, kind, msg string) error {
		if metrics != nil {
			metrics.RecordAuthError(kind)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			tokenString, ok := bearerToken(c.Request())
			if !ok {
				log.Warn("Invalid authorization header format")
				return reject(c, "bad_header", "Invalid authorization header format")
			}
			if tokenString == "" {
				if cookie, err := c.Cookie(SessionCookie); err == nil {
					tokenString = cookie.Value
				}
			}
			if tokenString == "" {
				log.Debug("Missing session token")
				return reject(c, "missing_token", "Authentication required")
			}

			claims, err := jwtUtil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return reject(c, "invalid_token", "Invalid or expired token")
			}

			c.Set(sessionKey, claims)
			log.Debug("Session validated",
				zap.String("user_id", claims.UserID),
				zap.String("business_id", claims.BusinessID))

			return next(c)
		}
	}
}

// bearerToken returns the token of a Bearer Authorization header. ok is
// false when a header is present but malformed; a missing header yields
// "", true.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return "", true
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// Session returns the claims stored by JWTAuthMiddleware.
func Session(c echo.Context) (*jwtutil.SessionClaims, bool) {
	claims, ok := c.Get(sessionKey).(*jwtutil.SessionClaims)
	return claims, ok && claims != nil
}
