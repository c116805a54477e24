package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func listUsers(users service.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := users.List(c.Request().Context())
		if err != nil {
			return err
		}
		out := make([]userDTO, 0, len(list))
		for _, u := range list {
			out = append(out, toUserDTO(u))
		}
		return c.JSON(http.StatusOK, out)
	}
}

func createUser(users service.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createUserRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		u := &domain.User{Name: req.Name, Email: req.Email}
		if req.Role != "" {
			role, err := domain.ParseRole(req.Role)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			u.Role = role
		}
		if err := users.Create(c.Request().Context(), u); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, toUserDTO(u))
	}
}

func toggleUserRole(users service.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := users.ToggleRole(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toUserDTO(u))
	}
}

func deleteUser(users service.UserService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := users.Delete(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
