package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alexanderramin/workboard/internal/service"
)

func listNotifications(notifications service.NotificationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		unread, _ := strconv.ParseBool(c.QueryParam("unread"))
		list, err := notifications.List(c.Request().Context(), unread)
		if err != nil {
			return err
		}
		out := make([]notificationDTO, 0, len(list))
		for _, n := range list {
			out = append(out, toNotificationDTO(n))
		}
		return c.JSON(http.StatusOK, out)
	}
}

func markNotificationRead(notifications service.NotificationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := notifications.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func clearNotifications(notifications service.NotificationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := notifications.ClearAll(c.Request().Context()); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
