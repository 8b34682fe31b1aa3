package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"newsdesk.org/internal/activity"
	"newsdesk.org/internal/auth"
	"newsdesk.org/internal/config"
	"newsdesk.org/internal/content"
	"newsdesk.org/internal/donations"
	"newsdesk.org/internal/httpapi"
	"newsdesk.org/internal/media"
	"newsdesk.org/internal/obs"
	"newsdesk.org/internal/store/pg"
)

var version = "1.2.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("NEWSDESK_COMMIT"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("missing DSN: set NEWSDESK_PG_DSN or database.dsn in the config file")
	}

	store, err := pg.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	recorder := activity.NewRecorder(store, obs.Logger())

	var contentOpts []content.Option
	if cfg.Audit.RecordDenied {
		contentOpts = append(contentOpts, content.WithDeniedAudit())
	}
	contentSvc, err := content.NewService(store, recorder, contentOpts...)
	if err != nil {
		log.Fatalf("content service: %v", err)
	}
	activitySvc, err := activity.NewService(store)
	if err != nil {
		log.Fatalf("activity service: %v", err)
	}
	donationSvc, err := donations.NewService(store, recorder)
	if err != nil {
		log.Fatalf("donation service: %v", err)
	}
	mediaSvc, err := media.NewService(store, recorder)
	if err != nil {
		log.Fatalf("media service: %v", err)
	}
	resolver, err := auth.NewResolver(store)
	if err != nil {
		log.Fatalf("auth resolver: %v", err)
	}

	api := httpapi.New(httpapi.Config{
		Content:       contentSvc,
		Activity:      activitySvc,
		Donations:     donationSvc,
		Media:         mediaSvc,
		Resolver:      resolver,
		Users:         store,
		Audit:         recorder,
		Ready:         httpapi.ReadyProbe{DB: store.DB()},
		Version:       version,
		RateBurst:     cfg.RateLimit.Burst,
		RatePerSecond: cfg.RateLimit.PerSecond,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Printf("Starting newsdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
