package main

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goserg/opponentanalyzer/internal/cache/mem"
	"github.com/goserg/opponentanalyzer/internal/channel"
	"github.com/goserg/opponentanalyzer/internal/chesscom"
	"github.com/goserg/opponentanalyzer/internal/config"
	"github.com/goserg/opponentanalyzer/internal/detector"
	"github.com/goserg/opponentanalyzer/internal/fetch"
	"github.com/goserg/opponentanalyzer/internal/logger"
	"github.com/goserg/opponentanalyzer/internal/metrics"
	"github.com/goserg/opponentanalyzer/internal/service"
	"github.com/goserg/opponentanalyzer/internal/storage/sqlite"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	metrics  *metrics.Metrics
	storage  *sqlite.Storage
	bus      *channel.Bus
	analyzer *service.Analyzer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.New(cfgPath)
	if err != nil {
		return nil, err
	}
	l := logger.New(cfg.Server.LogLevel)
	if cfg.Server.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	m := metrics.New()

	store, err := sqlite.New(l, cfg.Storage.SqliteFile)
	if err != nil {
		return nil, err
	}

	client := chesscom.New(chesscom.Config{
		BaseURL:     cfg.API.BaseURL,
		MaxAttempts: cfg.API.MaxAttempts,
		Backoff:     cfg.API.Backoff.Duration,
	}, chesscom.FiberTransport{
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.API.Timeout.Duration,
	}, l, m)

	bus := channel.New(cfg.API.ChannelTimeout.Duration, l)
	service.Register(bus)

	analyzer := service.New(fetch.New(client, l), bus, mem.New(), l,
		service.WithReports(store),
		service.WithPreferences(store),
		service.WithMetrics(m),
	)

	ctx, cancel := context.WithCancel(context.Background())
	a := &app{
		cfg:      cfg,
		log:      l,
		metrics:  m,
		storage:  store,
		bus:      bus,
		analyzer: analyzer,
		cancel:   cancel,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := bus.Serve(ctx); err != nil {
			l.WithError(err).Error("channel stopped")
		}
	}()
	return a, nil
}

func (a *app) detectorOptions() []detector.Option {
	opts := []detector.Option{
		detector.WithWindow(a.cfg.Detector.Debounce.Duration),
		detector.WithKnown(a.cfg.Detector.KnownUsername),
	}
	if len(a.cfg.Detector.Placeholders) > 0 {
		opts = append(opts, detector.WithPlaceholders(a.cfg.Detector.Placeholders...))
	}
	return opts
}

func (a *app) close() {
	a.analyzer.Wait()
	a.cancel()
	a.wg.Wait()
	if err := a.storage.Close(); err != nil {
		a.log.WithError(err).Error("can't close storage")
	}
}
