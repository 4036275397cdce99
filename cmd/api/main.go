package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"conferencehub/config"
	authadapter "conferencehub/internal/adapters/auth"
	emailadapter "conferencehub/internal/adapters/email"
	"conferencehub/internal/adapters/sessionize"
	delivery "conferencehub/internal/delivery/http"
	"conferencehub/internal/delivery/http/controllers"
	"conferencehub/internal/delivery/http/middleware"
	"conferencehub/internal/repository/postgres"
	"conferencehub/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title ConferenceHub API
// @version 1.0
// @description Conference management backend with external schedule synchronization.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	groupRepo := postgres.NewGroupRepository(db)

	// Adapters
	tokenIssuer := authadapter.NewJWTIssuer(cfg.JWTSecret, cfg.TokenExpiry)
	tokenVerifier := authadapter.NewJWTVerifier(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(12)
	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	fetcher := sessionize.NewHTTPFetcher(&http.Client{Timeout: 30 * time.Second}, cfg.SessionizeBaseURL)

	// Services
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, roleRepo, loginCodeRepo, tokenIssuer, cfg.TokenExpiry, emailService)
	authService := services.NewAuthService(userRepo, roleRepo, hasher, tokenIssuer, cfg.TokenExpiry)
	syncService := services.NewSynchronizationService(conferenceRepo, fetcher, logger, serviceTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := services.NewSyncWorker(syncService, logger, cfg.SyncQueueSize)
	syncWorker.Start(ctx)

	conferenceService := services.NewConferenceService(conferenceRepo, syncWorker, serviceTimeout)
	attendeeService := services.NewAttendeeService(conferenceRepo, registrationRepo)
	groupService := services.NewGroupService(groupRepo, conferenceRepo, registrationRepo)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	userController := controllers.NewUserController(logger, userService)
	conferenceController := controllers.NewConferenceController(logger, conferenceService, syncService)
	attendeeController := controllers.NewAttendeeController(logger, attendeeService)
	groupController := controllers.NewGroupController(logger, groupService)

	mux := delivery.NewRouter(logger, tokenVerifier, authController, userController, conferenceController, attendeeController, groupController)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "err", err)
		}
		syncWorker.Wait()
	}()

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
