package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/suchimauz/hms-slot-scheduler/internal/adapters/in/http"
	"github.com/suchimauz/hms-slot-scheduler/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/hms-slot-scheduler/internal/adapters/out/cache"
	"github.com/suchimauz/hms-slot-scheduler/internal/adapters/out/hmsapi"
	"github.com/suchimauz/hms-slot-scheduler/internal/adapters/out/logger"
	mongostore "github.com/suchimauz/hms-slot-scheduler/internal/adapters/out/mongo"
	"github.com/suchimauz/hms-slot-scheduler/internal/config"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/ports/out"
	"github.com/suchimauz/hms-slot-scheduler/internal/core/services"
)

func main() {
	// .env для локальной разработки, в остальных окружениях переменные приходят извне
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, err := logger.NewZapLogger(cfg.App.Timezone, cfg.IsLocal())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer mainLogger.Sync()
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"storeDriver":     cfg.Store.Driver,
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище выбирается драйвером: REST API бэкенда или его Mongo напрямую
	var storeAdapter out.ScheduleStorePort
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		storeAdapter, err = mongostore.NewMongoStoreAdapter(ctx, cfg, mainLogger.WithModule("MongoStoreAdapter"))
		if err != nil {
			log.Error("app.mongo.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	default:
		storeAdapter = hmsapi.NewHmsApiAdapter(cfg, mainLogger.WithModule("HmsApiAdapter"))
	}

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		lruCache, err := cache.NewCacheAdapter(cfg, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = lruCache
	}

	slotSchedulerService := services.NewSlotSchedulerService(
		storeAdapter,
		cacheAdapter,
		mainLogger,
	)

	router := gin.Default()
	controller := http.NewSlotSchedulerController(slotSchedulerService, cfg)
	controller.RegisterRoutes(router)

	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewChangeListener(
			slotSchedulerService,
			cfg,
			mainLogger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			log.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			log.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				log.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
