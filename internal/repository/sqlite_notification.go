package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/workboard/internal/db"
	"github.com/alexanderramin/workboard/internal/domain"
)

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, message, read, created_at) VALUES (?, ?, ?, ?)`,
		n.ID, n.Message, boolToInt(n.Read), formatTimestamp(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// List returns notifications newest first. limit <= 0 means no limit.
func (r *SQLiteNotificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	query := `SELECT id, message, read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE read = 0`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var read int
		var createdAtStr string
		if err := rows.Scan(&n.ID, &n.Message, &read, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Read = read != 0
		if n.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return expectOneRow(res, "notification")
}

func (r *SQLiteNotificationRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications`); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}
