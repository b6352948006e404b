package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/otharalodge/inquiry-relay/internal/config"
	"github.com/otharalodge/inquiry-relay/internal/dispatcher"
	"github.com/otharalodge/inquiry-relay/internal/formatter"
	"github.com/otharalodge/inquiry-relay/internal/logger"
	"github.com/otharalodge/inquiry-relay/internal/metrics"
	"github.com/otharalodge/inquiry-relay/internal/ratelimiter"
	"github.com/otharalodge/inquiry-relay/internal/service"
)

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	reg    *prometheus.Registry
	svc    *service.InquiryService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	d, err := dispatcher.NewDispatcher(
		cfg.Providers(),
		ratelimiter.New(cfg.ChannelRateLimit),
		cfg.ChannelTimeout,
		log,
		m.DispatcherHooks(),
	)
	if err != nil {
		return nil, fmt.Errorf("building dispatcher: %w", err)
	}

	svc := service.NewInquiryService(formatter.New(cfg.DateLayout), d, cfg.IdempotencyTTL, log)

	log.Info("inquiry relay configured",
		zap.String("email_transport", cfg.EmailTransport),
		zap.Bool("sms_enabled", cfg.SMSEnabled()),
		zap.Duration("channel_timeout", cfg.ChannelTimeout),
	)

	return &app{cfg: cfg, logger: log, reg: reg, svc: svc}, nil
}
