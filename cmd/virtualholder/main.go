// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sprucehealth/virtualholder/config"
	"github.com/sprucehealth/virtualholder/engine"
	"github.com/sprucehealth/virtualholder/logging"
	"github.com/sprucehealth/virtualholder/metrics"
	"github.com/sprucehealth/virtualholder/phonenumber"
	"github.com/sprucehealth/virtualholder/server"
	"github.com/sprucehealth/virtualholder/twilioapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logging error: %v", err)
	}
	defer logger.Close()

	m := metrics.New(cfg.MetricsNamespace)

	e := engine.New(cfg.Engine(),
		engine.WithTelephonyClient(twilioapi.NewFromCredentials(cfg.AccountSID, cfg.AuthToken)),
		engine.WithNormalizer(phonenumber.NewNormalizer("US")),
		engine.WithLogger(logger),
		engine.WithMetrics(m),
	)

	srv := server.New(cfg, e, logger, m)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Listen error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}

	logger.Info("Shutdown complete")
}
