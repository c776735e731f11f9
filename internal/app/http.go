package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/DonDurkheim/prism-web-app-sub001/internal/account"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/config"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/credentials"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/handler"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider/google"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/identity/provider/linkedin"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/middleware"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/resolve"
	"github.com/DonDurkheim/prism-web-app-sub001/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	accountStore := account.NewPostgresStore(infra.DB)
	credentialStore := credentials.NewPostgresStore(infra.DB)
	credentialService := credentials.NewService(credentialStore)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	linkedinProvider, err := linkedin.New(
		ctx,
		cfg.LinkedInClientID,
		cfg.LinkedInClientSecret,
		cfg.LinkedInRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(
		googleProvider,
		linkedinProvider,
	)

	resolver := resolve.NewResolver(
		registry,
		credentialService,
		accountStore,
	)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		resolver,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	authHandler.RegisterProtectedRoutes(api)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
