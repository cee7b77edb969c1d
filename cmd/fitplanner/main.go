package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/fitplanner/internal/advice"
	"github.com/claude/fitplanner/internal/config"
	"github.com/claude/fitplanner/internal/dataset"
	"github.com/claude/fitplanner/internal/logging"
	fitmcp "github.com/claude/fitplanner/internal/mcp"
	"github.com/claude/fitplanner/internal/metrics"
	"github.com/claude/fitplanner/internal/planner"
	"github.com/claude/fitplanner/internal/sampler"
	"github.com/claude/fitplanner/internal/server"
	"github.com/claude/fitplanner/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	migrateOnly := flag.Bool("migrate-only", false, "run journal migrations and exit")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP over stdio instead of HTTP")
	remote := flag.String("remote", "", "with -mcp-stdio, proxy tools to a running FitPlanner server at this URL")
	flag.Parse()

	// In stdio mode stdout carries the protocol, so logs go to stderr.
	logOut := os.Stdout
	if *mcpStdio {
		logOut = os.Stderr
	}
	log, _ := logging.New(logging.Params{Stdout: logOut})

	if *mcpStdio && *remote != "" {
		s := fitmcp.New(fitmcp.NewHTTPClient(*remote), Version, log)
		if err := mcpserver.ServeStdio(s); err != nil {
			log.Error("mcp stdio error", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, logFile := logging.New(logging.Params{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stdout: logOut,
	})
	defer logFile.Close()
	log.Info("FitPlanner starting", "version", Version)

	ctx := context.Background()

	// Open journal (applies migrations)
	journal, err := storage.Open(ctx, cfg.Journal.Driver, cfg.JournalDSN())
	if err != nil {
		log.Error("failed to open journal", "driver", cfg.Journal.Driver, "error", err)
		os.Exit(1)
	}
	log.Info("journal ready", "driver", cfg.Journal.Driver)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		if err := journal.Close(); err != nil {
			log.Error("closing journal", "error", err)
		}
		return
	}

	// Metrics
	var extra []prometheus.Collector
	if db, ok := journal.(*storage.DB); ok {
		extra = append(extra, db.Collector())
	}
	reg := metrics.SetupPrometheus(extra...)
	m := metrics.NewManager("fitplanner", "server", reg)

	// Advice generator
	load, err := advice.NewLoader(advice.Backend{
		Kind:        cfg.Generator.Backend,
		Host:        cfg.Generator.Host,
		Model:       cfg.Generator.Model,
		APIKey:      cfg.Generator.APIKey,
		HTTPTimeout: cfg.Generator.HTTPTimeout,
	})
	if err != nil {
		log.Error("invalid generator backend", "error", err)
		os.Exit(1)
	}
	adapter := advice.NewAdapter(load, advice.Options{
		Model:   cfg.Generator.Model,
		Timeout: cfg.Generator.Timeout,
		Retries: cfg.Generator.Retries,
	}, log)

	svc := planner.New(planner.Deps{
		Dataset: dataset.NewSource(cfg.Dataset.Path, log),
		Sampler: sampler.New(),
		Advice:  adapter,
		Journal: journal,
		Metrics: m,
		Log:     log,
	})

	if cfg.Generator.Warmup {
		go func() {
			if err := adapter.Warmup(ctx); err != nil {
				log.Warn("generator warmup failed", "error", err)
			}
		}()
	}

	mcpSrv := fitmcp.New(svc, Version, log)
	if *mcpStdio {
		err := mcpserver.ServeStdio(mcpSrv)
		if cerr := journal.Close(); cerr != nil {
			log.Error("closing journal", "error", cerr)
		}
		if err != nil {
			log.Error("mcp stdio error", "error", err)
			os.Exit(1)
		}
		return
	}

	// Create server
	srv := server.New(svc, m, reg, log)
	if cfg.MCP.Enabled {
		srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithStateLess(true)))
	}
	if cfg.Server.StaticDir != "" {
		srv.SetFrontend(os.DirFS(cfg.Server.StaticDir))
		log.Info("serving dashboard", "dir", cfg.Server.StaticDir)
	}

	// Start server on tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := multierr.Combine(httpSrv.Shutdown(shutdownCtx), journal.Close()); err != nil {
		for _, e := range multierr.Errors(err) {
			log.Error("shutdown error", "error", e)
		}
	}
	log.Info("server stopped")
}
