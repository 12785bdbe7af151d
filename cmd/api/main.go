package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vet-clinic-backend/internal/adapters/auth/jwtrsa"
	"vet-clinic-backend/internal/adapters/media/localdir"
	"vet-clinic-backend/internal/adapters/storage/postgres"
	"vet-clinic-backend/internal/config"
	"vet-clinic-backend/internal/platform/logger"
	"vet-clinic-backend/internal/router"
)

func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv()
	defer func() { _ = log.Sync() }()

	opts := router.Options{Logger: log}

	// Tokens RSA: sin claves arranca en modo dev (X-Debug-*).
	if cfg.JWTPublicKeyFile != "" {
		pub, err := jwtrsa.LoadPublicKey(cfg.JWTPublicKeyFile)
		if err != nil {
			log.Fatal("loading jwt public key", zap.Error(err))
		}
		opts.AuthVerifier = jwtrsa.NewVerifier(pub)
	}
	if cfg.JWTPrivateKeyFile != "" {
		priv, err := jwtrsa.LoadPrivateKey(cfg.JWTPrivateKeyFile)
		if err != nil {
			log.Fatal("loading jwt private key", zap.Error(err))
		}
		opts.TokenIssuer = jwtrsa.NewIssuer(priv, cfg.TokenTTL)
	}
	if opts.AuthVerifier == nil {
		log.Warn("no jwt public key configured, running in dev auth mode")
	}

	if cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Fatal("opening database", zap.Error(err))
		}
		defer func() { _ = db.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := postgres.Migrate(ctx, db); err != nil {
			cancel()
			log.Fatal("applying schema", zap.Error(err))
		}
		cancel()
		opts.DB = db
	} else {
		log.Warn("no DB_DSN configured, using in-memory storage")
	}

	photos, err := localdir.New(cfg.MediaDir)
	if err != nil {
		log.Fatal("creating media dir", zap.Error(err))
	}
	opts.Media = photos

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
