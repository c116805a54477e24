package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/alexanderramin/workboard/internal/domain"
)

// RoleHeader carries the caller's declared role. Roles are trusted as sent.
const RoleHeader = "X-Workboard-Role"

const roleKey = "role"

var domainManagers = []domain.Role{domain.RoleAdmin, domain.RoleManager}

// withRole parses RoleHeader into the context, defaulting to Employee.
func withRole(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role := domain.RoleEmployee
		if h := c.Request().Header.Get(RoleHeader); h != "" {
			r, err := domain.ParseRole(h)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			role = r
		}
		c.Set(roleKey, role)
		return next(c)
	}
}

func roleOf(c echo.Context) domain.Role {
	if r, ok := c.Get(roleKey).(domain.Role); ok {
		return r
	}
	return domain.RoleEmployee
}

func requireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !slices.Contains(allowed, roleOf(c)) {
				return echo.NewHTTPError(http.StatusForbidden, "role "+string(roleOf(c))+" may not access this resource")
			}
			return next(c)
		}
	}
}

// requestLogger logs one entry per request with its route, status and
// duration.
func requestLogger(logger log.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status
			entry := logger.WithFields(log.Fields{
				"method":      c.Request().Method,
				"route":       c.Path(),
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if err != nil {
				entry = entry.WithError(err)
			}
			switch {
			case status >= http.StatusInternalServerError:
				entry.Error("http_request")
			case status >= http.StatusBadRequest:
				entry.Warn("http_request")
			default:
				entry.Debug("http_request")
			}
			return nil
		}
	}
}
