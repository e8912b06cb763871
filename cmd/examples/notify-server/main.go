// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/internal/config"
	"github.com/sage-x-project/sage-pay-go/internal/logging"
	"github.com/sage-x-project/sage-pay-go/pkg/client"
	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
	"github.com/sage-x-project/sage-pay-go/pkg/server"
	"github.com/sage-x-project/sage-pay-go/pkg/verifier"
)

func main() {
	configPath := flag.String("config", "", "path to a sagepay YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "notify-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	clientCfg, err := cfg.ClientConfig(logger, m)
	if err != nil {
		return err
	}
	c, err := client.New(clientCfg)
	if err != nil {
		return err
	}

	mw := server.NewNotificationMiddleware(
		verifier.NewDefaultVerifier(c.Certificates(), verifier.WithLogger(logger), verifier.WithMetrics(m)),
		server.WithAPIKey(c.APIKey()),
		server.WithMaxClockSkew(cfg.Server.MaxClockSkew),
		server.WithLogger(logger),
		server.WithMetrics(m),
	)

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST(cfg.Server.NotifyPath, mw.Gin(), func(ctx *gin.Context) {
		n, _ := server.NotificationFromGin(ctx)
		if err := handleNotification(c, n, logger); err != nil {
			logger.Error("notification handling failed", zap.String("id", n.ID), zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, server.Ack{Code: "FAIL", Message: err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, server.Ack{Code: "SUCCESS"})
	})
	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("notify server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("path", cfg.Server.NotifyPath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// handleNotification decrypts the resource and logs the payment outcome
func handleNotification(c *client.Client, n *server.Notification, logger *zap.Logger) error {
	res, err := n.Decrypt(c.APIKey())
	if err != nil {
		return err
	}

	switch n.EventType {
	case "TRANSACTION.SUCCESS":
		var tx client.Transaction
		if err := res.Unmarshal(&tx); err != nil {
			return err
		}
		logger.Info("payment succeeded",
			zap.String("out_trade_no", tx.OutTradeNo),
			zap.String("transaction_id", tx.TransactionID),
			zap.Int64("total", tx.Amount.Total),
		)
	default:
		logger.Info("notification received",
			zap.String("event_type", n.EventType),
			zap.String("summary", n.Summary),
		)
	}
	return nil
}
