package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/youruser/casecard/internal/api"
	"github.com/youruser/casecard/internal/app"
	"github.com/youruser/casecard/internal/config"
	"github.com/youruser/casecard/internal/logger"
	"github.com/youruser/casecard/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	catalog, err := app.BuildCatalog(cfg, lg, metrics.NewRecorder(reg))
	if err != nil {
		lg.Error("build layouts", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	h := api.NewHandler(catalog, cfg.Render.DefaultLayout, cfg.Render.MultiLayout, api.PhotoOptions{
		MaxBytes:     cfg.Render.MaxPhotoBytes,
		Timeout:      cfg.Render.PhotoTimeout,
		Hosts:        cfg.Render.PhotoHosts,
		AllowPrivate: cfg.Render.AllowPrivatePhotoHosts,
	})
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.API.Port),
		Handler:           api.NewRouter(h, lg, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		lg.Info("starting server", "addr", srv.Addr, "layouts", catalog.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", "error", err)
			stop()
		}
	}()
	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		lg.Error("shutdown", "error", err)
	}
}
