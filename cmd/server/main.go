package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/nichelab/brandbrain/configs"
	"github.com/nichelab/brandbrain/internal/activity"
	"github.com/nichelab/brandbrain/internal/api/handlers"
	"github.com/nichelab/brandbrain/internal/api/middleware"
	job "github.com/nichelab/brandbrain/internal/jobs"
	"github.com/nichelab/brandbrain/internal/queue"
	"github.com/nichelab/brandbrain/internal/repository"
	"github.com/nichelab/brandbrain/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	stateRepo := repository.NewStateRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	activityLog := activity.NewLog()
	activityLog.Success("System initialized. Welcome to BrandBrain.")

	publisher, err := service.NewPublisher(*cfg)
	if err != nil {
		log.Fatalf("Failed to configure publisher: %v", err)
	}

	var stateMu sync.Mutex
	mediaService := service.NewMediaService(*cfg)
	generationService := service.NewGenerationService(*cfg, mediaService)
	nicheService := service.NewNicheService(*cfg, &stateMu, stateRepo, publisher, activityLog)
	postService := service.NewPostService(*cfg, &stateMu, stateRepo, publisher, activityLog)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	session := handlers.NewSessionHandler(*cfg, apiKeyService)
	app.Post("/session/new", session.NewSession)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	niche := handlers.NewNicheHandler(nicheService)
	api.Post("/niche", niche.SetupNiche)
	api.Get("/niche", niche.GetNicheInfo)

	connection := handlers.NewConnectionHandler(nicheService)
	api.Post("/connections", connection.Connect)
	api.Post("/connections/remove", connection.Disconnect)

	post := handlers.NewPostHandler(postService, client)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/caption", post.UpdateCaption)
	api.Post("/posts/remove", post.RemovePost)
	api.Post("/posts/schedule", post.SchedulePost)
	api.Post("/posts/publish", post.PublishPost)
	api.Post("/posts/status", post.UpdateStatus)

	generation := handlers.NewGenerationHandler(nicheService, generationService, postService, activityLog)
	api.Post("/posts/generate", generation.GenerateBatch)
	api.Post("/posts/media", generation.GenerateMedia)

	activityHandler := handlers.NewActivityHandler(activityLog)
	api.Get("/activity", activityHandler.ListEntries)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveApiKey)

	// cron jobs
	autoGenerateJob := job.NewAutoGenerateJob(nicheService, generationService, postService, activityLog)

	//queue
	queueW := queue.NewQueue(postService, activityLog)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", autoGenerateJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
