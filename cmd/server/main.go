package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"futonsband/internal/app"
	"futonsband/internal/config"
	"futonsband/internal/events"
	"futonsband/internal/mailer"
	"futonsband/internal/server"
	"futonsband/internal/storage"
	"futonsband/internal/util"
	"futonsband/pkg/auth"
	"futonsband/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	tokenTTL, err := config.ParseTokenTTL(cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to parse token TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	if err := store.Seed(dataStore, store.SeedConfig{
		AdminName:     cfg.AdminName,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}); err != nil {
		log.Fatalf("failed to seed store: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, auth.TokenOptions{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      tokenTTL,
	})
	if err != nil {
		log.Fatalf("failed to init token manager: %v", err)
	}

	var mail mailer.Mailer
	if cfg.MailjetPublicKey != "" && cfg.MailjetPrivateKey != "" {
		mj, err := mailer.NewMailjetMailer(cfg.MailjetPublicKey, cfg.MailjetPrivateKey, cfg.MailSender, cfg.MailSenderName)
		if err != nil {
			log.Fatalf("failed to init mailer: %v", err)
		}
		mail = mj
	} else {
		slog.Warn("mailjet keys not configured, newsletter sends are disabled")
	}

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("failed to init event publisher: %v", err)
		}
		defer publisher.Close()
	}

	appCore, err := app.New(app.Config{
		Store:           dataStore,
		Tokens:          tokens,
		Mailer:          mail,
		Events:          publisher,
		SendConcurrency: cfg.SendConcurrency,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	images, err := newImageStore(cfg)
	if err != nil {
		log.Fatalf("failed to init image store: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                        appCore,
		Images:                     images,
		RedisAddr:                  cfg.RedisAddr,
		RedisPassword:              cfg.RedisPassword,
		RegisterRateLimitPerMinute: cfg.RegisterRateLimitPerMinute,
		LoginRateLimitPerMinute:    cfg.LoginRateLimitPerMinute,
		MaxUploadBytes:             cfg.MaxUploadBytes,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newStore(cfg config.FileConfig) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		return store.NewGormStore(cfg.DatabaseURL)
	}
	return store.NewFileStore(cfg.DataDir)
}

func newImageStore(cfg config.FileConfig) (storage.ImageStore, error) {
	if cfg.MinioEndpoint != "" {
		return storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioUseSSL)
	}
	imageDir := cfg.ImageDir
	if imageDir == "" {
		imageDir = "./public/assets/img"
	}
	return storage.NewDiskStore(imageDir, cfg.ImagePublicPrefix)
}
