package main

import (
	"net/http"

	_ "github.com/roddesu/updatedsafespace/docs"
	"github.com/roddesu/updatedsafespace/internal/app"
	"github.com/roddesu/updatedsafespace/internal/config"
	"github.com/roddesu/updatedsafespace/internal/logger"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title SafeSpace API
// @version 1.0
// @description Account verification and credential lifecycle for the UB SafeSpace app (registration with OTP, login, password reset, posts).
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	logger.InitLogger()
	defer logger.Log.Sync()

	if err != nil {
		logger.Log.Fatal("Failed to load config", zap.Error(err))
	}

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Log.Fatal("Invalid config", zap.Error(err))
	}
	for _, warn := range warnings {
		logger.Log.Warn("Config warning", zap.String("warning", warn))
	}

	router, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
	}

	logger.Log.Info("Server starting", zap.String("port", cfg.Port), zap.String("db", cfg.GetDSNSafe()))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware.Handler(router)); err != nil {
		logger.Log.Fatal("Server failed", zap.Error(err))
	}
}
