package app

import (
	"context"
	"strconv"
	"time"

	"github.com/roddesu/updatedsafespace/internal/config"
	"github.com/roddesu/updatedsafespace/internal/db"
	"github.com/roddesu/updatedsafespace/internal/handlers"
	"github.com/roddesu/updatedsafespace/internal/repository"
	"github.com/roddesu/updatedsafespace/internal/routes"
	"github.com/roddesu/updatedsafespace/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if err := db.RunMigrations(context.Background(), cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(conn)
	resetTokenRepo := repository.NewResetTokenRepository(conn)
	postRepo := repository.NewPostRepository(conn)

	// Services
	emailService := services.NewEmailService(cfg)
	accountService := services.NewAccountService(accountRepo, emailService, minutesOr(cfg.OTPTTLMin, 15))
	passwordService := services.NewPasswordResetService(resetTokenRepo, accountRepo, emailService, cfg.AppURL, minutesOr(cfg.PasswordResetTTLMin, 30))
	postService := services.NewPostService(postRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	postHandler := handlers.NewPostHandler(postService)

	// Routes
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, passwordHandler, postHandler)

	return router, nil
}

func minutesOr(v string, def int) time.Duration {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Minute
}
