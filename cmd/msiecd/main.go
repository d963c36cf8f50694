// Command msiecd is the MSI embedded controller daemon. It exposes the
// laptop's EC features over HTTP and keeps them across reboots.
// Run with --transport mock to use a simulated EC.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/micro-nova/msiec-go/internal/api"
	"github.com/micro-nova/msiec-go/internal/auth"
	"github.com/micro-nova/msiec-go/internal/config"
	"github.com/micro-nova/msiec-go/internal/controller"
	"github.com/micro-nova/msiec-go/internal/events"
	"github.com/micro-nova/msiec-go/internal/identity"
	"github.com/micro-nova/msiec-go/internal/monitor"
	"github.com/micro-nova/msiec-go/internal/powerwatch"
	"github.com/micro-nova/msiec-go/internal/profile"
	"github.com/micro-nova/msiec-go/internal/transport"
	"github.com/micro-nova/msiec-go/internal/zeroconf"
)

func main() {
	var (
		cfgPath   = flag.String("config", config.DefaultSettingsPath, "settings file")
		listen    = flag.String("listen", "", "HTTP listen address (overrides settings)")
		transp    = flag.String("transport", "", "EC transport: ec_sys, port, dump or mock (overrides settings)")
		dumpFile  = flag.String("dump-file", "", "register dump for the dump transport")
		stateDir  = flag.String("state-dir", "", "directory for saved state and keys")
		noRestore = flag.Bool("no-restore", false, "do not re-apply saved values at startup")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	settings, err := config.LoadSettings(*cfgPath)
	if err != nil {
		slog.Error("cannot load settings", "err", err)
		os.Exit(1)
	}
	if *listen != "" {
		settings.Listen = *listen
	}
	if *transp != "" {
		settings.Transport = *transp
	}
	if *dumpFile != "" {
		settings.DumpFile = *dumpFile
	}
	if *stateDir != "" {
		settings.StateDir = *stateDir
	}
	if *noRestore {
		settings.Restore = false
	}
	if err := settings.Validate(); err != nil {
		slog.Error("invalid settings", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(settings.StateDir, 0755); err != nil {
		slog.Error("cannot create state directory", "path", settings.StateDir, "err", err)
		os.Exit(1)
	}

	if vendor, product := identity.GetProductFromDir(identity.DMIDir); vendor != "" && !identity.IsMSI(vendor) {
		slog.Warn("this does not look like an MSI laptop", "vendor", vendor, "product", product)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hw, err := transport.Open(ctx, settings)
	if err != nil {
		slog.Error("EC initialization failed", "err", err)
		os.Exit(1)
	}
	defer hw.Close()

	active, err := profile.Load(ctx, hw)
	if err != nil {
		slog.Error("unsupported machine", "err", err)
		os.Exit(1)
	}
	if err := profile.Validate(active.Config); err != nil {
		slog.Error("register map failed validation", "model", active.Model, "err", err)
		os.Exit(1)
	}

	store := config.NewJSONStore(settings.StateDir)
	bus := events.NewBus()

	ctrl, err := controller.New(hw, active, store, bus)
	if err != nil {
		slog.Error("controller initialization failed", "err", err)
		os.Exit(1)
	}
	if settings.Restore {
		if err := ctrl.Restore(ctx); err != nil {
			slog.Warn("some saved values were not restored", "err", err)
		}
	}

	authSvc, err := auth.NewService(settings.StateDir)
	if err != nil {
		slog.Error("auth service initialization failed", "err", err)
		os.Exit(1)
	}
	defer authSvc.Close()

	go monitor.Run(ctx, ctrl, settings.MonitorInterval)

	if pw := powerwatch.New(ctrl, settings.PowerProfiles); pw.Enabled() {
		go func() {
			if err := pw.Run(ctx); err != nil {
				slog.Warn("power profiles disabled", "err", err)
			}
		}()
	}

	if settings.MDNS {
		zc := zeroconf.New(identity.GetHostname(), listenPort(settings.Listen), ctrl.Info())
		go func() {
			if err := zc.Start(ctx); err != nil {
				slog.Warn("zeroconf failed", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         settings.Listen,
		Handler:      api.NewRouter(ctrl, authSvc, bus),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("msiecd listening",
			"addr", settings.Listen,
			"model", active.Model,
			"firmware", active.Firmware,
			"transport", hw.Name(),
			"state", store.Path(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}
	if err := ctrl.Shutdown(); err != nil {
		slog.Warn("failed to flush state", "err", err)
	}
	slog.Info("shutdown complete")
}

// listenPort extracts the port from a listen address, defaulting to 80.
func listenPort(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 80
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return 80
	}
	return port
}
