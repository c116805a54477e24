package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/api"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from WORKBOARD_ADDR)")
	return cmd
}

// serve runs the API and the background loops until ctx is done.
func serve(ctx context.Context, app *App, addr string) error {
	if addr == "" {
		addr = app.ListenAddr
	}

	e := api.New(api.Services{
		Projects:      app.Projects,
		Boards:        app.Boards,
		Users:         app.Users,
		Notifications: app.Notifications,
		Dashboard:     app.Dashboard,
		Broker:        app.Broker,
	}, app.Logger)

	go app.Notifications.Watch(ctx, app.Broker)
	if app.FeedInterval > 0 {
		go app.Notifications.RunFeed(ctx, app.FeedInterval)
	}
	if app.Relay != nil {
		go app.Relay(ctx)
	}

	go func() {
		<-ctx.Done()
		// Ends open event streams so Shutdown does not wait on them.
		app.Broker.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			app.Logger.WithError(err).Warn("server shutdown")
		}
	}()

	app.Logger.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
