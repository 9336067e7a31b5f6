// main.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/Mistra-C2B2/samsyn-sub000/internal/cache"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/config"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/database"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/handlers"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/middleware"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/services"
	"github.com/Mistra-C2B2/samsyn-sub000/internal/types"

	_ "github.com/Mistra-C2B2/samsyn-sub000/docs/api" // Swagger docs
)

// @title Samsyn API
// @version 1.0.0
// @description Collaborative marine spatial planning backend
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/Mistra-C2B2/samsyn-sub000

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load .env when present; real deployments set the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Authorizer client, constructed once and injected
	auth, err := services.NewAuthService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Authorizer: %v", err)
	}

	// Whitelist cache and service, constructed once and injected
	whitelistCache := cache.NewWhitelist(cfg.WhitelistCacheSize, cfg.WhitelistCacheTTL)
	whitelist := services.NewWhitelistService(db, whitelistCache)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("samsyn")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	requireUser := middleware.Auth(auth, db)
	optionalUser := middleware.OptionalAuth(auth, db)

	// Create handlers
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}
	mapHandler := &handlers.MapHandler{DB: db}
	collabHandler := &handlers.CollaboratorHandler{DB: db}
	layerHandler := &handlers.LayerHandler{DB: db, Whitelist: whitelist}
	commentHandler := &handlers.CommentHandler{DB: db}
	wmsHandler := &handlers.WmsServerHandler{DB: db}
	proxyHandler := &handlers.ProxyHandler{Whitelist: whitelist, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db, WebhookSecret: cfg.AuthzWebhookSecret}

	api.Get("/health", healthHandler.Health)

	// Maps
	api.Get("/maps", requireUser, mapHandler.ListMyMaps)
	api.Post("/maps", requireUser, mapHandler.CreateMap)
	api.Get("/maps/:id", optionalUser, mapHandler.GetMap)
	api.Put("/maps/:id", requireUser, mapHandler.UpdateMap)
	api.Delete("/maps/:id", requireUser, mapHandler.DeleteMap)

	// Map layer associations
	api.Post("/maps/:id/layers", requireUser, mapHandler.AddMapLayer)
	api.Put("/maps/:id/layers", requireUser, mapHandler.ReorderMapLayers)
	api.Put("/maps/:id/layers/:layerId", requireUser, mapHandler.UpdateMapLayer)
	api.Delete("/maps/:id/layers/:layerId", requireUser, mapHandler.RemoveMapLayer)

	// Collaborators
	api.Get("/maps/:id/collaborators", optionalUser, collabHandler.ListCollaborators)
	api.Post("/maps/:id/collaborators", requireUser, collabHandler.AddCollaborator)
	api.Put("/maps/:id/collaborators/:userId", requireUser, collabHandler.UpdateCollaborator)
	api.Delete("/maps/:id/collaborators/:userId", requireUser, collabHandler.RemoveCollaborator)

	// Layers; the static "mine" route must precede the ":id" routes
	api.Get("/layers", optionalUser, layerHandler.ListLayers)
	api.Get("/layers/mine", requireUser, layerHandler.ListMyLayers)
	api.Post("/layers", requireUser, layerHandler.CreateLayer)
	api.Get("/layers/:id", optionalUser, layerHandler.GetLayer)
	api.Put("/layers/:id", requireUser, layerHandler.UpdateLayer)
	api.Delete("/layers/:id", requireUser, layerHandler.DeleteLayer)

	// Comments
	api.Get("/maps/:id/comments", optionalUser, commentHandler.ListMapComments)
	api.Get("/layers/:id/comments", optionalUser, commentHandler.ListLayerComments)
	api.Post("/comments", requireUser, commentHandler.CreateComment)
	api.Put("/comments/:id/resolved", requireUser, commentHandler.ResolveComment)
	api.Delete("/comments/:id", requireUser, commentHandler.DeleteComment)

	// WMS server registry
	api.Get("/wms-servers", wmsHandler.ListWmsServers)
	api.Post("/wms-servers", requireUser, wmsHandler.RegisterWmsServer)
	api.Get("/wms-servers/:id", wmsHandler.GetWmsServer)
	api.Post("/wms-servers/:id/refresh", requireUser, wmsHandler.RefreshWmsServer)
	api.Delete("/wms-servers/:id", requireUser, wmsHandler.DeleteWmsServer)

	// Tile proxy; anonymous access follows public map visibility
	api.Get("/proxy/tiles", proxyHandler.ProxyTile)
	api.Get("/proxy/titiler/*", proxyHandler.ProxyTitiler)

	// Users and identity webhooks
	api.Get("/users/me", requireUser, userHandler.GetMe)
	api.Delete("/users/me", requireUser, userHandler.DeleteMe)
	api.Post("/webhooks/authorizer", userHandler.AuthorizerWebhook)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
