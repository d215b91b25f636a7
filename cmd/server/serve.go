// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echohypno/echohypno/internal/api"
	"github.com/echohypno/echohypno/internal/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	address string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the Pub/Sub listeners",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.address, "addr", "", "Listen address (overrides application.http_address)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	config, err := GetConfig()
	if err != nil {
		return err
	}
	if err := telemetry.SetupLogging(config.Application.LogLevel, config.Application.LogFile); err != nil {
		return err
	}
	slog.Info("logging initialized", "level", config.Application.LogLevel)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		return err
	}
	slog.Info("tracing initialized", "exporters", config.Telemetry.Enabled)

	if err := InitState(ctx, config); err != nil {
		CloseState()
		return err
	}
	slog.Info("initialized state", "store", config.Store.Driver, "memory", config.Memory.Driver)

	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(state.services, api.RouterOptions{
		ServiceName:    config.Application.Name,
		AllowedOrigins: config.Application.AllowedOrigins,
		SceneLimiter:   api.NewClientRateLimiter(config.RateLimit.ScenesPerSecond, config.RateLimit.Burst),
	})

	addr := config.Application.HTTPAddress
	if serveFlags.address != "" {
		addr = serveFlags.address
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
			cancel()
		}
	}()
	slog.Info("server ready", "address", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	cancel()
	CloseState()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("failed to shutdown telemetry", "error", err)
	}
	slog.Info("server exiting")
	return nil
}
