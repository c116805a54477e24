package cli

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects      service.ProjectService
	Boards        service.BoardService
	Users         service.UserService
	Notifications service.NotificationService
	Dashboard     service.DashboardService
	Seed          service.SeedService
	Broker        *events.Broker
	Logger        log.FieldLogger

	// ListenAddr and FeedInterval configure "serve". A zero interval
	// disables the demo feed.
	ListenAddr   string
	FeedInterval time.Duration

	// Relay forwards events published by other instances into Broker until
	// ctx is done. Nil when cross-instance fan-out is off.
	Relay func(ctx context.Context)

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "workboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "workboard",
		Short:         "Kanban boards for projects, tasks and teams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newBoardCmd(app),
		newTaskCmd(app),
		newUserCmd(app),
		newNotifyCmd(app),
		newDashboardCmd(app),
		newSeedCmd(app),
		newServeCmd(app),
	)

	return root
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}
