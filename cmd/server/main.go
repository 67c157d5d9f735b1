package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/config"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/database"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/gemini"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/handlers"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/imagestore"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/jobs"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/logging"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/middleware"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/preflight"
	"github.com/Vansh-Tyagi-git/PokAImon/internal/services"
)

func main() {
	// Load .env file if present (development convenience)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, using environment variables")
	}

	logging.Init()
	cfg := config.Load()

	if err := preflight.Run(cfg); err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Durable store: MongoDB, MySQL or SQLite depending on DATABASE_URL
	store, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}

	images, err := imagestore.New(cfg.ImageDir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize image store: %v", err)
	}

	cache := services.NewGalleryCache(cfg.RedisURL, cfg.GalleryCacheTTL)

	events := services.NewGalleryEventBus()
	metrics := services.InitMetrics(events)
	cacheSync := services.NewGallerySync(cache, metrics)

	simulator := newSimulator(cfg)
	stopWatcher := watchPools(cfg.PoolsFile, simulator)
	defer stopWatcher()

	generator := gemini.NewGenAIClient(cfg.GeminiImageModel, cfg.GeminiTextModel, cfg.GeminiAPIKey)

	generation := services.NewGenerationService(generator, store, images, cacheSync, simulator, events, metrics)
	gallery := services.NewGalleryService(store, cache, cacheSync, events, metrics)
	actionImages := services.NewActionImageService(generator, store, images, cacheSync, events, metrics)

	creatureHandler := handlers.NewCreatureHandler(generation, gallery, actionImages)
	healthHandler := handlers.NewHealthHandler(store, cache.Mode())

	app := fiber.New(fiber.Config{
		AppName:   "PokAImon",
		BodyLimit: 4 * 1024 * 1024, // doodle payloads are base64 PNGs
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getEnvOrDefault("CORS_ORIGINS", "*"),
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	prometheus := fiberprometheus.New("pokaimon")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	rateLimits := middleware.LoadRateLimitConfig()

	api := app.Group("/api", middleware.GlobalAPIRateLimiter(rateLimits))
	api.Get("/health", healthHandler.Health)
	api.Get("/gallery", creatureHandler.Gallery)
	api.Post("/generate", middleware.GenerateRateLimiter(rateLimits), creatureHandler.Generate)
	api.Patch("/pokaimon/:id/like", creatureHandler.Like)
	api.Delete("/pokaimon/:id/delete", creatureHandler.Delete)
	api.Post("/pokaimon/:id/action-image", middleware.GenerateRateLimiter(rateLimits), creatureHandler.ActionImage)

	app.Use("/ws", handlers.WebSocketUpgrade)
	app.Get("/ws/gallery", handlers.GalleryWebSocket(events))

	app.Static("/images", images.Dir())
	app.Static("/", "./public")

	// SPA fallback: anything unmatched gets the frontend entry point.
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile("./public/index.html")
	})

	var cleanup *jobs.CleanupJob
	if cfg.CleanupEnabled {
		cleanup = jobs.NewCleanupJob(store, images, cfg.CleanupMinAge)
		if err := cleanup.Start(); err != nil {
			log.Printf("⚠️  Failed to start cleanup job: %v", err)
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down...")
		if cleanup != nil {
			cleanup.Stop()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️  Server shutdown error: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("⚠️  Database close error: %v", err)
		}
		if err := cache.Close(); err != nil {
			log.Printf("⚠️  Cache close error: %v", err)
		}
	}()

	log.Printf("🚀 PokAImon server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}

// newSimulator builds the fallback simulator, preferring the configured
// pools file over the compiled-in vocabularies.
func newSimulator(cfg *config.Config) *services.Simulator {
	pools := config.DefaultPools()
	if cfg.PoolsFile != "" {
		loaded, err := config.LoadPools(cfg.PoolsFile)
		if err != nil {
			log.Printf("⚠️  Failed to load pools file: %v", err)
		} else {
			pools = loaded
			log.Printf("✅ Loaded simulator pools from %s", cfg.PoolsFile)
		}
	}
	return services.NewSimulator(rand.NewSource(time.Now().UnixNano()), pools)
}

// watchPools hot-reloads the simulator vocabularies when the pools file
// changes. Returns a stop function; a no-op when no file is configured.
func watchPools(path string, simulator *services.Simulator) func() {
	if path == "" {
		return func() {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Pools watcher unavailable: %v", err)
		return func() {}
	}
	if err := watcher.Add(path); err != nil {
		log.Printf("⚠️  Cannot watch pools file %s: %v", path, err)
		watcher.Close()
		return func() {}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				pools, err := config.LoadPools(path)
				if err != nil {
					log.Printf("⚠️  Ignoring bad pools file update: %v", err)
					continue
				}
				simulator.SetPools(pools)
				log.Printf("🔄 Reloaded simulator pools from %s", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️  Pools watcher error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
