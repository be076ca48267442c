package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/moneymate/moneymate-backend/internal/config"
	"github.com/moneymate/moneymate-backend/internal/repository/postgres"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/util"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down")
		cancel()
	}()

	err := newRootCmd(openDatabase).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase builds the analytics service on the configured database
func openDatabase(ctx context.Context) (*service.AnalyticsService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(false); err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One-shot commands read straight from the store, no result cache
	svc := service.NewAnalyticsService(postgres.NewTransactionRepository(pool), nil, util.SystemClock{}, service.AnalyticsConfig{
		Location:                cfg.Location,
		StoreTimeout:            cfg.StoreTimeout,
		PredictionHistoryMonths: cfg.PredictionHistoryMonths,
	})
	return svc, pool.Close, nil
}
