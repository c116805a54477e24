package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/cli"
	"github.com/alexanderramin/workboard/internal/config"
	"github.com/alexanderramin/workboard/internal/db"
	"github.com/alexanderramin/workboard/internal/events"
	"github.com/alexanderramin/workboard/internal/repository"
	"github.com/alexanderramin/workboard/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := log.New()
	logger.SetLevel(cfg.LogLevel)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)
	notificationRepo := repository.NewSQLiteNotificationRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Events go to local subscribers, and to Redis when configured so other
	// instances see them too.
	broker := events.NewBroker()
	defer broker.Close()
	var (
		publisher events.Publisher = broker
		relayTo   events.Publisher = broker
		relay     func(ctx context.Context)
	)
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		rc := redis.NewClient(opts)
		defer rc.Close()

		origin := uuid.New().String()
		publisher = events.Multi{broker, events.NewRedisPublisher(rc, cfg.Redis.Channel, origin)}
		relay = func(ctx context.Context) {
			events.Relay(ctx, logger, rc, cfg.Redis.Channel, origin, relayTo)
		}
	}

	// Wire services
	observer := service.NewLogUseCaseObserver(logger)
	boards := service.NewBoardService(board.NewManager(), projectRepo, taskRepo, uow, publisher, observer)
	projects := service.NewProjectService(projectRepo, taskRepo, boards, publisher)
	users := service.NewUserService(userRepo, observer)

	// Another instance changed a board: drop ours so it reloads from storage.
	relayTo = service.ForgetOnChange(boards, broker)

	app := &cli.App{
		Projects:      projects,
		Boards:        boards,
		Users:         users,
		Notifications: service.NewNotificationService(notificationRepo, publisher, observer),
		Dashboard:     service.NewDashboardService(projectRepo, userRepo, notificationRepo, boards),
		Seed:          service.NewSeedService(projects, boards, users, observer),
		Broker:        broker,
		Logger:        logger,
		ListenAddr:    cfg.Server.Addr,
		FeedInterval:  cfg.Feed.Interval,
		Relay:         relay,
	}

	// Detect interactive terminal for the board TUI and task form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	if cfg.SeedDemo {
		if _, err := app.Seed.SeedDemo(context.Background()); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}
