package main

import (
	"os"

	"geogateway-backend/audit"
	"geogateway-backend/bhuvan"
	"geogateway-backend/config"
	"geogateway-backend/controllers"
	"geogateway-backend/database"
	"geogateway-backend/kgis"
	"geogateway-backend/logger"
	"geogateway-backend/middlewares"
	"geogateway-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("ENVIRONMENT"))

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	// ---- Database. The gateway keeps serving without it; audit records are
	// skipped and the audit browsing endpoints report unavailable.
	if cfg.Database.Name == "" {
		log.Warn("DB_NAME not set, running without audit persistence")
	} else if err := database.Connect(cfg.Database); err != nil {
		log.Warn("database unavailable, running without audit persistence", "error", err)
	} else if err := database.AutoMigrate(); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ---- Provider clients
	tokens := bhuvan.NewTokenSet(cfg.Bhuvan)
	recorder := audit.NewRecorder(log)

	bhuvanCtl := &controllers.BhuvanController{
		Thematic:  bhuvan.NewThematicClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		LULC:      bhuvan.NewLULCClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		Geoid:     bhuvan.NewGeoidClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		Router:    bhuvan.NewRoutingClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		Proximity: bhuvan.NewProximityClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		Geocode:   bhuvan.NewVillageGeocodeClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		Reverse:   bhuvan.NewVillageReverseClient(cfg.Bhuvan, tokens, cfg.DataDir, log),
		Audit:     recorder,
	}
	kgisCtl := &controllers.KGISController{
		Client: kgis.NewClient(cfg.KGIS, log),
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.HTTP.BodyLimitBytes,
	})

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.HTTP.RateLimitMax,
		Expiration: cfg.HTTP.RateLimitWindow,
		// Default KeyGenerator = client IP; default 429 handler is fine.
		// See: https://docs.gofiber.io/api/middleware/limiter
	}))

	// ---- Routes
	routes.Register(app, bhuvanCtl, kgisCtl)

	// ---- Start
	log.Info("starting API server", "port", cfg.HTTP.Port)
	if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
