// Package api exposes workboard over HTTP with echo.
package api

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/alexanderramin/workboard/internal/service"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Projects      service.ProjectService
	Boards        service.BoardService
	Users         service.UserService
	Notifications service.NotificationService
	Dashboard     service.DashboardService
	Broker        *events.Broker
}

// New builds an echo instance with workboard's serializer, error handling,
// middleware and routes.
func New(svc Services, logger log.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, RoleHeader},
	}))
	e.Use(requestLogger(logger))
	Register(e, svc)
	return e
}

// Register wires up all routes on the given echo instance.
func Register(e *echo.Echo, svc Services) {
	e.GET("/health", health)

	g := e.Group("/api", withRole)
	manage := requireRole(domainManagers...)

	g.GET("/projects", listProjects(svc.Projects))
	g.POST("/projects", createProject(svc.Projects), manage)
	g.DELETE("/projects/:id", deleteProject(svc.Projects), manage)
	g.GET("/projects/:id/board", getBoard(svc.Projects, svc.Boards))
	g.POST("/projects/:id/tasks", createTask(svc.Projects, svc.Boards))
	g.PATCH("/projects/:id/tasks/:taskID", updateTask(svc.Projects, svc.Boards))
	g.DELETE("/projects/:id/tasks/:taskID", deleteTask(svc.Projects, svc.Boards))
	g.POST("/projects/:id/moves", moveTask(svc.Projects, svc.Boards))

	g.GET("/users", listUsers(svc.Users), manage)
	g.POST("/users", createUser(svc.Users), manage)
	g.POST("/users/:id/toggle-role", toggleUserRole(svc.Users), manage)
	g.DELETE("/users/:id", deleteUser(svc.Users), manage)

	g.GET("/notifications", listNotifications(svc.Notifications))
	g.POST("/notifications/:id/read", markNotificationRead(svc.Notifications))
	g.DELETE("/notifications", clearNotifications(svc.Notifications))

	g.GET("/dashboard", getDashboard(svc.Dashboard))
	g.GET("/stream", stream(svc.Broker))
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps service and board errors onto HTTP status codes.
func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, board.ErrNotFound),
		errors.Is(err, board.ErrTaskNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrInvalidColumn),
		errors.Is(err, board.ErrIndexOutOfRange),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrDuplicateTask),
		errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorHandler(logger log.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := statusFor(err)
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(he.Code)
			}
		}
		if code >= http.StatusInternalServerError {
			logger.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
			msg = http.StatusText(code)
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, errorResponse{Error: msg})
		}
		if err != nil {
			logger.WithError(err).Warn("writing error response")
		}
	}
}

type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	dec := sonic.ConfigStd.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}
	return nil
}
