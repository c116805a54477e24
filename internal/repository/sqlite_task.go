package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/workboard/internal/db"
	"github.com/alexanderramin/workboard/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo. Board order is stored as
// (column_name, position) per task.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, projectID, column string, position int, t *domain.Task) error {
	query := `INSERT INTO tasks (id, project_id, column_name, position, title, type, priority, assignee, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		projectID,
		column,
		position,
		t.Title,
		string(t.Type),
		string(t.Priority),
		t.Assignee,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, type = ?, priority = ?, assignee = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		string(t.Type),
		string(t.Priority),
		t.Assignee,
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectOneRow(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectOneRow(res, "task")
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]PlacedTask, error) {
	query := `SELECT id, column_name, position, title, type, priority, assignee, created_at, updated_at
		FROM tasks WHERE project_id = ? ORDER BY column_name, position`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []PlacedTask
	for rows.Next() {
		var pt PlacedTask
		var typeStr, priorityStr, createdAtStr, updatedAtStr string
		if err := rows.Scan(
			&pt.Task.ID, &pt.Column, &pt.Position,
			&pt.Task.Title, &typeStr, &priorityStr, &pt.Task.Assignee,
			&createdAtStr, &updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		pt.Task.Type = domain.TaskType(typeStr)
		pt.Task.Priority = domain.Priority(priorityStr)
		if pt.Task.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
			return nil, err
		}
		if pt.Task.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteTaskRepo) SetColumn(ctx context.Context, projectID, column string, ids []string) error {
	for pos, id := range ids {
		res, err := r.db.ExecContext(ctx,
			`UPDATE tasks SET column_name = ?, position = ? WHERE id = ? AND project_id = ?`,
			column, pos, id, projectID)
		if err != nil {
			return fmt.Errorf("repositioning task %s: %w", id, err)
		}
		if err := expectOneRow(res, "task "+id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}
