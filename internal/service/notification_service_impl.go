package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/alexanderramin/workboard/internal/domain"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/google/uuid"
)

// DefaultFeedInterval is how often RunFeed pushes a demo message.
const DefaultFeedInterval = 12 * time.Second

// FeedMessages are the demo messages RunFeed picks from.
var FeedMessages = []string{
	"New task assigned to you.",
	"Project deadline updated.",
	"Comment added on Task #123.",
	"Build passed on CI.",
}

// WelcomeMessage is sent to every new stream subscriber.
const WelcomeMessage = "Welcome to EWM realtime!"

type notificationService struct {
	notifications repository.NotificationRepo
	events        events.Publisher
	observer      UseCaseObserver
	pick          func() string
}

func NewNotificationService(notifications repository.NotificationRepo, publisher events.Publisher, observers ...UseCaseObserver) NotificationService {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &notificationService{
		notifications: notifications,
		events:        publisher,
		observer:      useCaseObserverOrNoop(observers),
		pick: func() string {
			return FeedMessages[rand.IntN(len(FeedMessages))]
		},
	}
}

func (s *notificationService) Push(ctx context.Context, message string) (*domain.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid(fmt.Errorf("notification message is required"))
	}
	n := &domain.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	_ = s.events.Publish(ctx, events.Event{
		Kind:           events.NotificationPushed,
		NotificationID: n.ID,
		Message:        n.Message,
		At:             n.CreatedAt,
	})
	return n, nil
}

func (s *notificationService) List(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error) {
	return s.notifications.List(ctx, unreadOnly, 0)
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}

func (s *notificationService) ClearAll(ctx context.Context) error {
	return s.notifications.DeleteAll(ctx)
}

// MovedMessage is the toast recorded when a task changes column.
func MovedMessage(columnTitle string) string {
	return "Moved task to " + columnTitle
}

func (s *notificationService) Watch(ctx context.Context, broker *events.Broker) {
	ch, cancel := broker.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Kind != events.TaskMoved || ev.From == ev.To {
				continue
			}
			s.record(ctx, "watch-moves", MovedMessage(ev.ToTitle), map[string]any{
				"project": ev.ProjectID,
				"task":    ev.TaskID,
			})
		}
	}
}

func (s *notificationService) RunFeed(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFeedInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.record(ctx, "demo-feed", s.pick(), map[string]any{})
		}
	}
}

// record pushes message from a background loop, where there is no caller to
// return the error to.
func (s *notificationService) record(ctx context.Context, name, message string, fields map[string]any) {
	startedAt := time.Now().UTC()
	_, err := s.Push(ctx, message)
	if ctx.Err() != nil {
		return
	}
	observe(ctx, s.observer, name, startedAt, fields, &err)
}
