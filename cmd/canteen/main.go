package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/config"
	"campus-canteen/internal/connections/database"
	"campus-canteen/internal/microservices/canteen"
	"campus-canteen/internal/microservices/notificator"
)

const modes = "canteen-server | notification-subscriber | migrate"

func main() {
	mode := flag.String("mode", "", modes)
	envFile := flag.String("env-file", "", "optional .env file to load before the environment")
	port := flag.Int("port", 0, "canteen-server: http port (overrides HTTP_PORT)")
	flag.Parse()

	lg := logger.New("bootstrap")

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(2)
	}
	logger.SetLevel(cfg.LogLevel)
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "canteen-server":
		if err := canteen.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, map[string]any{"mode": *mode})
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber", "queue": cfg.RabbitMQ.Queue})
		if err := notificator.Start(ctx, cfg); err != nil {
			lg.Error("fatal", err, map[string]any{"mode": *mode})
			os.Exit(1)
		}
	case "migrate":
		if err := migrate(ctx, cfg, lg); err != nil {
			lg.Error("fatal", err, map[string]any{"mode": *mode})
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: "+modes)
		os.Exit(2)
	}
}

func migrate(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	lg.Info("migrations_applied", map[string]any{"database": cfg.Database.Database})
	return nil
}
