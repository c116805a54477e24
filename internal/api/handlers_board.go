package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/service"
)

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	FromIndex *int   `json:"fromIndex"`
	ToIndex   *int   `json:"toIndex"`
}

type taskRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Assignee string `json:"assignee"`
	Column   string `json:"column"`
}

func getBoard(projects service.ProjectService, boards service.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		snap, err := boards.Board(ctx, p.ID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toBoardDTO(snap))
	}
}

func moveTask(projects service.ProjectService, boards service.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		if req.FromIndex == nil || req.ToIndex == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "fromIndex and toIndex are required")
		}
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		layout, _, err := boards.Counts(ctx, p.ID)
		if err != nil {
			return err
		}
		from := layout.ResolveColumn(req.From)
		to := layout.ResolveColumn(req.To)

		mv, err := boards.MoveTask(ctx, p.ID, from, to, *req.FromIndex, *req.ToIndex)
		if err != nil {
			return err
		}
		snap, err := boards.Board(ctx, p.ID)
		if err != nil {
			return err
		}
		// Only a change of column is announced, matching the notification watcher.
		var message string
		if !mv.Noop && mv.From != mv.To {
			message = service.MovedMessage(layout.Title(mv.To))
		}
		return c.JSON(http.StatusOK, moveResponse{
			Move: moveDTO{
				TaskID:    mv.Task.ID,
				From:      string(mv.From),
				To:        string(mv.To),
				FromIndex: mv.FromIndex,
				ToIndex:   mv.ToIndex,
				Noop:      mv.Noop,
			},
			Board:   toBoardDTO(snap),
			Message: message,
		})
	}
}

func createTask(projects service.ProjectService, boards service.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req taskRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		t, err := req.task(domain.Task{})
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		var column board.Column
		if req.Column != "" {
			layout, _, err := boards.Counts(ctx, p.ID)
			if err != nil {
				return err
			}
			column = layout.ResolveColumn(req.Column)
		}
		if err := boards.AddTask(ctx, p.ID, column, &t); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, toTaskDTO(t))
	}
}

func updateTask(projects service.ProjectService, boards service.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req taskRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		snap, err := boards.Board(ctx, p.ID)
		if err != nil {
			return err
		}
		current, ok := findTask(snap, c.Param("taskID"))
		if !ok {
			return &board.TaskNotFoundError{TaskID: c.Param("taskID")}
		}
		t, err := req.task(current)
		if err != nil {
			return err
		}
		if err := boards.UpdateTask(ctx, p.ID, &t); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toTaskDTO(t))
	}
}

func deleteTask(projects service.ProjectService, boards service.BoardService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return err
		}
		if _, err := boards.RemoveTask(ctx, p.ID, c.Param("taskID")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// task overlays the non-empty request fields on base.
func (r taskRequest) task(base domain.Task) (domain.Task, error) {
	t := base
	if r.Title != "" {
		t.Title = r.Title
	}
	if r.Assignee != "" {
		t.Assignee = r.Assignee
	}
	if r.Type != "" {
		tt, err := domain.ParseTaskType(r.Type)
		if err != nil {
			return domain.Task{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		t.Type = tt
	}
	if r.Priority != "" {
		p, err := domain.ParsePriority(r.Priority)
		if err != nil {
			return domain.Task{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		t.Priority = p
	}
	return t, nil
}

func findTask(snap board.Snapshot, id string) (domain.Task, bool) {
	for _, col := range snap.Layout.Columns {
		for _, t := range snap.Tasks(col) {
			if t.ID == id {
				return t, true
			}
		}
	}
	return domain.Task{}, false
}
