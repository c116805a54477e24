package service

import (
	"context"

	"github.com/alexanderramin/workboard/internal/events"
)

// ForgetOnChange returns a Publisher that drops the cached board of the
// project named by a board-changing event before passing the event to next.
// Events relayed from other instances go through it so the next access
// reloads the board from storage.
func ForgetOnChange(boards BoardService, next events.Publisher) events.Publisher {
	return &forgetPublisher{boards: boards, next: next}
}

type forgetPublisher struct {
	boards BoardService
	next   events.Publisher
}

func (p *forgetPublisher) Publish(ctx context.Context, ev events.Event) error {
	switch ev.Kind {
	case events.TaskMoved, events.TaskAdded, events.TaskRemoved, events.TaskUpdated, events.ProjectDeleted:
		if ev.ProjectID != "" {
			p.boards.Forget(ev.ProjectID)
		}
	}
	if p.next == nil {
		return nil
	}
	return p.next.Publish(ctx, ev)
}
