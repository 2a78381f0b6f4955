package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"jobharvest/internal/browser"
	"jobharvest/internal/config"
	"jobharvest/internal/harvest"
	"jobharvest/internal/health"
	"jobharvest/internal/logger"
	rds "jobharvest/internal/platform/redis"
	tasks "jobharvest/internal/platform/tasks"
	"jobharvest/internal/scheduler"
	"jobharvest/internal/server"
	"jobharvest/internal/store"
	"jobharvest/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[jobharvest] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	redisSvc, err := rds.New(rds.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	jobStore, err := store.NewPostgres(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer jobStore.Close()

	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		// One worker: runs are sequential by design, a second concurrent run
		// would fight over the single browser session.
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})

	sessions := browser.NewManager(browser.Options{
		ExecutablePath: cfg.BrowserPath,
		Headless:       cfg.Headless,
		BlockResources: cfg.BlockResources,
	})

	tracker := harvest.NewRunTracker(redisSvc)
	engine := harvest.NewEngine(sessions, cfg.SearchURL, cfg.RegionLabel)
	fallback := harvest.NewFallback(cfg.RegionLabel)
	harvestSvc := harvest.NewService(engine, fallback, jobStore, tracker, cfg.SearchURL)

	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeHarvest, harvestSvc.HandleHarvestTask)

	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	sched, err := scheduler.New(cfg.Timezone, cfg.HarvestHour, taskClient, tracker, cfg.TaskMaxRetries)
	if err != nil {
		log.Fatal(err)
	}
	if err := sched.Start(); err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{AppName: "Job Harvester"})

	deps := server.Dependencies{
		Harvest: harvest.NewHandler(tracker, taskClient, cfg.TaskMaxRetries),
		Components: map[string]health.Checker{
			"redis": redisSvc,
			"store": jobStore,
		},
	}
	healthHandler := server.RegisterRoutes(app, deps)

	go func() {
		time.Sleep(2 * time.Second)
		healthHandler.SetReady()
	}()

	// Termination must close the browser session before exit so no orphaned
	// browser process survives.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.Info().Msg("shutting down")
		sched.Stop()
		asynqServer.Shutdown()
		sessions.Close()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
