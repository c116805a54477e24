package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
)

type createProjectRequest struct {
	ShortID string `json:"shortId"`
	Name    string `json:"name"`
	Owner   string `json:"owner"`
	Layout  string `json:"layout"`
	DueDate string `json:"dueDate"`
}

func listProjects(projects service.ProjectService) echo.HandlerFunc {
	return func(c echo.Context) error {
		all, _ := strconv.ParseBool(c.QueryParam("all"))
		list, err := projects.List(c.Request().Context(), all)
		if err != nil {
			return err
		}
		out := make([]projectDTO, 0, len(list))
		for _, p := range list {
			out = append(out, toProjectDTO(p))
		}
		return c.JSON(http.StatusOK, out)
	}
}

func createProject(projects service.ProjectService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createProjectRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		p := &domain.Project{
			ShortID: req.ShortID,
			Name:    req.Name,
			Owner:   req.Owner,
			Layout:  req.Layout,
		}
		if req.DueDate != "" {
			d, err := time.Parse(dateLayout, req.DueDate)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("dueDate must be YYYY-MM-DD, got %q", req.DueDate))
			}
			p.DueDate = &d
		}
		if err := projects.Create(c.Request().Context(), p); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, toProjectDTO(p))
	}
}

func deleteProject(projects service.ProjectService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		force, _ := strconv.ParseBool(c.QueryParam("force"))
		if err := projects.Delete(ctx, p.ID, force); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getDashboard(dashboard service.DashboardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		d, err := dashboard.Summary(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toDashboardDTO(d))
	}
}
