package middleware

import (
	"strings"
	"time"

	"meetpoll-api/core/constants"
	"meetpoll-api/core/controller"
	"meetpoll-api/core/errors"
	"meetpoll-api/core/logger"
	"meetpoll-api/core/utils"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Middleware bundles the configured middleware set passed to module routers
type Middleware struct {
	JWTSecret string
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{JWTSecret: jwtSecret}
}

// RequestLogger logs one line per request through core/logger
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http.request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			)
			return err
		}
	}
}

// CORS allows browser clients on other origins to call the API
func (m *Middleware) CORS() echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
}

// OrganizerAuth requires a valid organizer bearer token whose meeting claim
// matches the :id route parameter
func (m *Middleware) OrganizerAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ParseOrganizerToken(tokenString, m.JWTSecret)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid or expired organizer token")
			}

			if claims.MeetingID != c.Param("id") {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "Token is not valid for this meeting")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
