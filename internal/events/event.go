// Package events carries board and notification changes to interested
// listeners: SSE clients, the notification watcher and, when Redis is
// configured, other workboard instances.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

type Kind string

const (
	TaskMoved          Kind = "task.moved"
	TaskAdded          Kind = "task.added"
	TaskRemoved        Kind = "task.removed"
	TaskUpdated        Kind = "task.updated"
	ProjectCreated     Kind = "project.created"
	ProjectDeleted     Kind = "project.deleted"
	NotificationPushed Kind = "notification.pushed"
)

// Event is the wire and in-process representation of one change.
type Event struct {
	Kind      Kind   `json:"kind"`
	ProjectID string `json:"projectId,omitempty"`
	TaskID    string `json:"taskId,omitempty"`
	TaskTitle string `json:"taskTitle,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	ToTitle   string `json:"toTitle,omitempty"`
	FromIndex int    `json:"fromIndex"`
	ToIndex   int    `json:"toIndex"`
	// NotificationID is set on notification.pushed events.
	NotificationID string    `json:"notificationId,omitempty"`
	Message        string    `json:"message,omitempty"`
	At             time.Time `json:"at"`
	// Origin identifies the instance that produced the event.
	Origin string `json:"origin,omitempty"`
}

// Publisher accepts events for delivery. Publish must not block on slow
// consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Encode serializes ev for the wire.
func Encode(ev Event) ([]byte, error) {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", ev.Kind, err)
	}
	return data, nil
}

// Decode parses a wire payload produced by Encode.
func Decode(data []byte) (Event, error) {
	var ev Event
	if err := sonic.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	if ev.Kind == "" {
		return Event{}, fmt.Errorf("decoding event: missing kind")
	}
	return ev, nil
}

// Multi publishes to every publisher in order and reports the first error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
