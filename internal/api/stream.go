package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/service"
)

// stream sends a welcome frame, then one SSE data frame per broker event
// until the client goes away or the broker closes.
func stream(broker *events.Broker) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := c.Response()
		flusher, ok := res.Writer.(http.Flusher)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "stream unsupported")
		}
		res.Header().Set(echo.HeaderContentType, "text/event-stream")
		res.Header().Set(echo.HeaderCacheControl, "no-cache")
		res.Header().Set(echo.HeaderConnection, "keep-alive")
		res.Header().Set("X-Accel-Buffering", "no")
		res.WriteHeader(http.StatusOK)

		ch, cancel := broker.Subscribe()
		defer cancel()

		welcome := events.Event{
			Kind:    events.NotificationPushed,
			Message: service.WelcomeMessage,
			At:      time.Now().UTC(),
		}
		if err := writeFrame(res, welcome); err != nil {
			return nil
		}
		flusher.Flush()

		ctx := c.Request().Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-ch:
				if !ok {
					return nil
				}
				if err := writeFrame(res, ev); err != nil {
					c.Logger().Error(err)
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

func writeFrame(res *echo.Response, ev events.Event) error {
	data, err := events.Encode(ev)
	if err != nil {
		return err
	}
	if _, err := res.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := res.Write(data); err != nil {
		return err
	}
	_, err = res.Write([]byte("\n\n"))
	return err
}
