package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theoremus-urban-solutions/busboard"
	"github.com/theoremus-urban-solutions/busboard/config"
	"github.com/theoremus-urban-solutions/busboard/epd"
	"github.com/theoremus-urban-solutions/busboard/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config.yml (default: search config.yml, ./busboard/config.yml)")
	panelName := flag.String("panel", "", "panel override: waveshare|png")
	out := flag.String("out", "", "output file for the png panel (overrides config)")
	once := flag.Bool("once", false, "refresh the panel once and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *panelName != "" {
		cfg.Display.Panel = *panelName
	}
	if *out != "" {
		cfg.Display.Output = *out
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger := busboard.InitLogging(cfg.Logging)
	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("configuration values are empty", slog.Any("missing", missing))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := busboard.NewSource(cfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to create arrivals source", err)
		return 1
	}
	panel, err := busboard.OpenPanel(cfg.Display)
	if err != nil {
		logging.LogError(logger, "failed to open panel", err, slog.String("panel", cfg.Display.Panel))
		return 1
	}
	renderer, err := busboard.NewRenderer(cfg.Display, panel.Bounds())
	if err != nil {
		logging.SafeCloseWithLogging(panel, logger, "panel")
		logging.LogError(logger, "failed to load font", err)
		return 1
	}
	board, err := busboard.NewBoard(source, panel, busboard.StopsFrom(cfg.Stops),
		busboard.WithRenderer(renderer),
		busboard.WithInterval(cfg.Poll.Interval()),
		busboard.WithLogger(logger),
	)
	if err != nil {
		logging.SafeCloseWithLogging(panel, logger, "panel")
		logging.LogError(logger, "failed to create board", err)
		return 1
	}

	if *once {
		return runOnce(ctx, board, panel, logger)
	}

	if cfg.Server.Enabled {
		srv := busboard.NewServer(board, cfg.Server.Port, logger)
		if err := srv.Start(); err != nil {
			logging.LogError(logger, "failed to start server", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logging.LogError(logger, "server shutdown error", err)
				}
			}()
		}
	}

	runErr := board.Run(ctx)
	if ctx.Err() != nil {
		logger.Info("shutdown signal received")
	}
	if err := board.Shutdown(); err != nil {
		logging.LogError(logger, "panel shutdown failed", err)
	}
	if runErr != nil {
		logging.LogError(logger, "board stopped", runErr, slog.String("kind", busboard.Classify(runErr).String()))
		return 1
	}
	return 0
}

// runOnce draws a single frame and leaves it on the panel.
func runOnce(ctx context.Context, board *busboard.Board, panel epd.Panel, logger *slog.Logger) int {
	defer logging.SafeCloseWithLogging(panel, logger, "panel")

	if err := panel.Init(); err != nil {
		logging.LogError(logger, "failed to initialize panel", err)
		return 1
	}
	if err := board.Cycle(ctx); err != nil {
		logging.LogError(logger, "refresh failed", err, slog.String("kind", busboard.Classify(err).String()))
		return 1
	}
	return 0
}
