package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"webexbot/internal/command"
	"webexbot/internal/config"
	"webexbot/internal/dedup"
	"webexbot/internal/domain"
	"webexbot/internal/engine"
	"webexbot/internal/format"
	"webexbot/internal/metrics"
	"webexbot/internal/providers"
	"webexbot/internal/webex"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "webexbot",
		Short: "Webex room command bot",
		Long:  "webexbot watches a Webex room for slash commands and answers them with live data (ISS position, weather, trivia, NASA APOD, people in space).",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.webexbot/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(pollCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(roomsCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	setLogLevel(cfg.General.LogLevel)
	return cfg, nil
}

func setLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := config.Save(path, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", path)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("webexbot v%s\n", version)
		},
	}
}

func roomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List the rooms the bot can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			httpClient := providers.SharedHTTPClient(30 * time.Second)
			client := webex.NewClient(cfg.Webex.APIBase, cfg.Webex.Token, httpClient, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			rooms, err := client.ListRooms(ctx)
			if err != nil {
				return err
			}
			for _, room := range rooms {
				fmt.Printf("Type: %-8s Name: %s\n", room.Type, room.Title)
			}
			return nil
		},
	}
}

// buildBot wires the shared pipeline: providers, formatter, router, dedup,
// engine. The returned close func releases the dedup store, if any.
func buildBot(cfg *config.Config) (*engine.Engine, *webex.Client, func(), error) {
	metrics.Init()

	httpClient := providers.SharedHTTPClient(30 * time.Second)
	client := webex.NewClient(cfg.Webex.APIBase, cfg.Webex.Token, httpClient, logger)

	timeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second
	gw := providers.NewGateway(timeout, logger,
		providers.NewISS(httpClient, cfg.Providers.GraphHopper.APIKey),
		providers.NewAstros(httpClient),
		providers.NewFact(httpClient),
		providers.NewAPOD(httpClient, cfg.Providers.NASA.APIKey),
		providers.NewWeather(httpClient, cfg.Providers.Weather.Source),
	)
	formatter := format.New(cfg.Router.MaxTextLength)

	var dispatcher command.Dispatcher
	if cfg.Router.Mode == "numeric" {
		dispatcher = engine.NewNumericRouter(cfg.Router.MaxDelaySeconds, gw, formatter, logger)
	} else {
		dispatcher = engine.NewCommandRouter(gw, formatter, logger)
	}

	var (
		deduper domain.Deduper
		closeFn = func() {}
	)
	if cfg.Dedup.Path != "" {
		store, err := dedup.NewStore(cfg.Dedup.Path, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		deduper = store
		closeFn = func() { store.Close() }
	} else {
		deduper = dedup.NewTracker()
	}

	eng := engine.New(deduper, dispatcher, client, logger)
	return eng, client, closeFn, nil
}

func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Monitor the configured room by polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.ValidatePollReady(cfg); err != nil {
				return err
			}

			eng, client, closeFn, err := buildBot(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			poller := engine.NewPoller(
				client, eng,
				cfg.Webex.RoomID, cfg.Webex.BotEmail,
				time.Duration(cfg.Poller.IntervalSeconds)*time.Second,
				logger,
			)
			return poller.Run(ctx)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Receive pushed message events over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			eng, client, closeFn, err := buildBot(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hook := engine.NewWebhook(engine.WebhookConfig{
				Host:     cfg.Webhook.Host,
				Port:     cfg.Webhook.Port,
				Path:     cfg.Webhook.Path,
				BotEmail: cfg.Webex.BotEmail,
				Fetcher:  client,
				Engine:   eng,
				Sender:   client,
				Logger:   logger,
			})
			return hook.Run(ctx)
		},
	}
}
