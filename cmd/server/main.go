// Command server runs the restaurant backend: REST API, Paystack webhooks,
// and the WebSocket event stream, backed by PostgreSQL (or SQLite for local
// development).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/config"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	httpapi "github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/observability"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/sysutil"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		sysutil.UsePrettyConsole()
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	if err := seed(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("database seed failed")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload dir")
	}

	hub := ws.NewHub()

	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, hub, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seed creates the bootstrap admin account and default settings on first
// start. Existing rows are left alone.
func seed(ctx context.Context, db *gorm.DB) error {
	n, err := repo.CountUsersByRole(ctx, db, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if n == 0 {
		email := sysutil.FirstNonEmpty(os.Getenv("ADMIN_EMAIL"), "admin@localhost")
		password := sysutil.FirstNonEmpty(os.Getenv("ADMIN_PASSWORD"), "change-me-now")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin, err := repo.CreateUser(ctx, db, "Administrator", email, "", string(hash), domain.RoleAdmin)
		if err != nil {
			return err
		}
		log.Info().Str("email", admin.Email).Msg("bootstrap admin created")
	}

	defaults := map[string]string{
		"tax_rate_bps":        "0",
		"order_number_prefix": "ORD",
	}
	for key, value := range defaults {
		if _, err := repo.GetSetting(ctx, db, key); err == nil {
			continue
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		if err := repo.UpsertSetting(ctx, db, key, value, "system"); err != nil {
			return err
		}
	}
	return nil
}
