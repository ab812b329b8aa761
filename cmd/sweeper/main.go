package main

import (
	"context"
	"doctor-booking/internal/booking"
	"doctor-booking/internal/clock"
	"doctor-booking/internal/configs"
	"doctor-booking/internal/database"
	"doctor-booking/internal/lock"
	"doctor-booking/internal/logging"
	"doctor-booking/internal/notification"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var configPath = flag.String("config", "", "Config file path")

func main() {
	flag.Parse()
	if *configPath == "" {
		log.Fatal("no config file path was given")
	}
	config, err := configs.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	dbConn, err := database.NewConnection(config)
	if err != nil {
		log.Fatal(err)
	}
	defer dbConn.Close()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	service := booking.NewService(config, logger, dbConn, lock.NewPassthroughLocker(), notification.NewLogNotifier(logger), clock.New())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.PrintlnInfo(logger, fmt.Sprint("no-show sweeper started, running every ", config.SweepInterval()))

	runOnce(ctx, service, logger)

	ticker := time.NewTicker(config.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.PrintlnWarn(logger, "no-show sweeper stopped")
			return
		case <-ticker.C:
			runOnce(ctx, service, logger)
		}
	}
}

func runOnce(ctx context.Context, service booking.Sweeper, logger *log.Logger) {
	swept, err := service.SweepNoShows(ctx)
	if err != nil {
		logging.PrintlnError(logger, fmt.Errorf("sweep failed: %w", err))
		return
	}
	if swept > 0 {
		logging.PrintlnInfo(logger, fmt.Sprint("marked ", swept, " appointments as no-show"))
	}
}
