package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"reeflog.org/internal/auth"
	"reeflog.org/internal/conditions"
	"reeflog.org/internal/divelog"
	"reeflog.org/internal/httpapi"
	"reeflog.org/internal/mpa"
	"reeflog.org/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	secret := os.Getenv("REEFLOG_AUTH_SECRET")
	if secret == "" {
		log.Fatal("REEFLOG_AUTH_SECRET is required")
	}

	var db *sql.DB
	if dsn := os.Getenv("REEFLOG_PG_DSN"); dsn != "" {
		var err error
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	var (
		users auth.UserStore
		dives divelog.Store
	)
	if db != nil {
		users = auth.NewPostgresUsers(db)
		dives = divelog.NewPostgres(db)
	} else {
		log.Println("REEFLOG_PG_DSN not set, using in-memory storage")
		users = auth.NewInMemoryUsers()
		dives = divelog.NewInMemory()
	}

	authSvc, err := auth.NewService(users, secret,
		auth.WithAccessTTL(envDuration("REEFLOG_ACCESS_TTL", time.Hour)),
		auth.WithRefreshTTL(envDuration("REEFLOG_REFRESH_TTL", 7*24*time.Hour)),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	opts := []httpapi.Option{
		httpapi.WithCookiePolicy(httpapi.CookiePolicy{Secure: envBool("REEFLOG_COOKIE_SECURE", true)}),
		httpapi.WithAllowedOrigins(splitList(os.Getenv("REEFLOG_ALLOWED_ORIGINS"))),
		httpapi.WithConditionsClient(conditions.NewClient()),
	}
	if mpaURL := os.Getenv("REEFLOG_MPA_URL"); mpaURL != "" {
		opts = append(opts, httpapi.WithMPADataset(mpa.NewDataset(mpaURL)))
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, dives, opts...)

	addr := os.Getenv("REEFLOG_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting reeflog-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Fatalf("%s: invalid duration %q", key, raw)
	}
	return d
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("%s: invalid boolean %q", key, raw)
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
