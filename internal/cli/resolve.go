package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
)

// resolveTask finds a task on snap by full ID, unique ID prefix, or
// case-insensitive title.
func resolveTask(snap board.Snapshot, ref string) (domain.Task, board.Column, int, error) {
	if ref == "" {
		return domain.Task{}, "", 0, fmt.Errorf("task is required")
	}

	type hit struct {
		task  domain.Task
		col   board.Column
		index int
	}
	var byPrefix, byTitle []hit
	for _, col := range snap.Layout.Columns {
		for i, t := range snap.Tasks(col) {
			if t.ID == ref {
				return t, col, i, nil
			}
			if strings.HasPrefix(t.ID, ref) {
				byPrefix = append(byPrefix, hit{t, col, i})
			}
			if strings.EqualFold(t.Title, ref) {
				byTitle = append(byTitle, hit{t, col, i})
			}
		}
	}

	for _, hits := range [][]hit{byPrefix, byTitle} {
		switch len(hits) {
		case 0:
			continue
		case 1:
			return hits[0].task, hits[0].col, hits[0].index, nil
		default:
			return domain.Task{}, "", 0, fmt.Errorf("task %q is ambiguous (%d matches)", ref, len(hits))
		}
	}
	return domain.Task{}, "", 0, &board.TaskNotFoundError{TaskID: ref}
}

// resolveUser finds a user by full ID, unique ID prefix, or email.
func resolveUser(users []*domain.User, ref string) (*domain.User, error) {
	var matches []*domain.User
	for _, u := range users {
		if u.ID == ref || strings.EqualFold(u.Email, ref) {
			return u, nil
		}
		if strings.HasPrefix(u.ID, ref) {
			matches = append(matches, u)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("user not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("user ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveNotification finds a notification by full ID or unique ID prefix.
func resolveNotification(list []*domain.Notification, ref string) (*domain.Notification, error) {
	var matches []*domain.Notification
	for _, n := range list {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("notification not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("notification ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// columnArg resolves a column name or title against layout.
func columnArg(layout board.Layout, input string) (board.Column, error) {
	col := layout.ResolveColumn(input)
	if !layout.Has(col) {
		return "", fmt.Errorf("unknown column %q (want one of %s)", input, columnNames(layout))
	}
	return col, nil
}

func columnNames(layout board.Layout) string {
	names := make([]string, len(layout.Columns))
	for i, c := range layout.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
