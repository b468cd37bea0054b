package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edu-planet/edu-service/config"
	"github.com/edu-planet/edu-service/internal/pg"
	"github.com/edu-planet/edu-service/internal/postgres"
	"github.com/edu-planet/edu-service/internal/security"
	"github.com/edu-planet/edu-service/internal/service"
	"github.com/edu-planet/edu-service/internal/storage"
	httpx "github.com/edu-planet/edu-service/internal/transport/http"
	"github.com/edu-planet/edu-service/internal/transport/ws"
	"github.com/edu-planet/edu-service/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting edu-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Postgres.ToPGConfig())
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- security ---
	priv, err := security.LoadRSAPrivateKeyFromPEM(cfg.Security.JWT.PrivateKeyPath)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	pub, err := security.LoadRSAPublicKeyFromPEM(cfg.Security.JWT.PublicKeyPath)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}
	signer := security.NewJWTSigner(priv, pub,
		cfg.Security.JWT.Issuer, cfg.Security.JWT.Audience,
		cfg.Security.JWT.AccessTTL, cfg.Security.JWT.ClockSkew)
	passPolicy := security.BcryptConfig{
		Cost:      cfg.Security.Password.BcryptCost,
		MinLength: cfg.Security.Password.MinLength,
	}

	// --- storage ---
	files, err := storage.NewFileStore(cfg.Storage.Root, cfg.Storage.MaxFileSize)
	if err != nil {
		log.Fatalf("file storage: %v", err)
	}

	// --- repos ---
	userRepo := postgres.NewUserRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	subjectRepo := postgres.NewSubjectRepository(pool)
	lessonRepo := postgres.NewLessonRepository(pool)
	testRepo := postgres.NewTestRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)

	// --- services ---
	authSvc := service.NewAuthService(userRepo, signer, passPolicy, time.Now)
	userSvc := service.NewUserService(userRepo, passPolicy)
	groupSvc := service.NewGroupService(groupRepo)
	subjectSvc := service.NewSubjectService(subjectRepo, lessonRepo)
	testSvc := service.NewTestService(testRepo, lessonRepo)
	scoringSvc := service.NewScoringService(testRepo)
	chatSvc := service.NewChatService(messageRepo)
	rosterSvc := service.NewRosterService(groupRepo, subjectRepo, userRepo)

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsRouter := ws.NewRouter(hub)
	wsServer := ws.NewServer(hub, wsRouter, chatSvc, rosterSvc, signer)

	// --- HTTP ---
	handler := httpx.NewHandler(authSvc, userSvc, groupSvc, subjectSvc,
		testSvc, scoringSvc, chatSvc, files)
	router := httpx.NewRouter(handler, signer, wsServer, cfg.Server.AllowedOrigins)
	httpSrv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("http listen", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
