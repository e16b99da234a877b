package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	carApp "github.com/davicafu/carexplorer/internal/car/application"
	carDomain "github.com/davicafu/carexplorer/internal/car/domain"
	carEvents "github.com/davicafu/carexplorer/internal/car/infra/inbound/events"
	carHttp "github.com/davicafu/carexplorer/internal/car/infra/inbound/http"
	carClickhouse "github.com/davicafu/carexplorer/internal/car/infra/outbound/analytics/clickhouse"
	carApi "github.com/davicafu/carexplorer/internal/car/infra/outbound/api"
	carPostgres "github.com/davicafu/carexplorer/internal/car/infra/outbound/db/postgre"
	carFilesystem "github.com/davicafu/carexplorer/internal/car/infra/outbound/filesystem"
	config "github.com/davicafu/carexplorer/internal/config"
	infraCache "github.com/davicafu/carexplorer/internal/infra/cache"
	infraEvents "github.com/davicafu/carexplorer/internal/infra/events"
	settingsApp "github.com/davicafu/carexplorer/internal/settings/application"
	settingsDomain "github.com/davicafu/carexplorer/internal/settings/domain"
	settingsHttp "github.com/davicafu/carexplorer/internal/settings/infra/inbound/http"
	settingsMongo "github.com/davicafu/carexplorer/internal/settings/infra/outbound/db/mongodb"
	settingsSQLite "github.com/davicafu/carexplorer/internal/settings/infra/outbound/db/sqlite"

	"github.com/davicafu/carexplorer/pkg/httpclient"
	"github.com/davicafu/carexplorer/pkg/logger"
	sharedEvents "github.com/davicafu/carexplorer/shared/events"
	sharedBus "github.com/davicafu/carexplorer/shared/platform/bus"
	sharedCache "github.com/davicafu/carexplorer/shared/platform/cache"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel) // inicializa zap
	log := logger.Logger()    // obtiene logger estructurado
	defer log.Sync()          // flush buffers al salir

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Sugar().Infof("⚙️ API remota %s (timeout %s, reintentos %d), muestra de %d registros",
		cfg.APIBaseURL, cfg.APITimeout, cfg.APIRetries, cfg.SampleLimit)

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		memCache := infraCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
		defer memCache.Stop()
		cacheInstance = memCache
	} else {
		cacheInstance = infraCache.NewRedisCache(rdb, cfg.CacheTTL, "carexplorer:")
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// ---------------- API remota ----------------
	apiClient := carApi.NewClient(cfg.APIBaseURL, httpclient.New(cfg.APITimeout), cfg.APIRetries, log)

	var datasetSource carDomain.DatasetSource = apiClient
	if cfg.DatasetSource == "postgres" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping Postgres", zap.Error(err))
		}
		if err := carPostgres.InitPostgresCarSchema(db); err != nil {
			log.Fatal("failed to initialize Postgres", zap.Error(err))
		}
		datasetSource = carPostgres.NewDatasetRepoPostgres(db)
		log.Info("🐘 Dataset desde Postgres")
	}

	var statsSource carDomain.StatsSource = apiClient
	if cfg.StatsSource == "clickhouse" {
		statsRepo, err := carClickhouse.NewStatsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Fatal("failed to connect ClickHouse", zap.Error(err))
		}
		defer statsRepo.Close()
		if err := statsRepo.InitSchema(ctx); err != nil {
			log.Fatal("failed to initialize ClickHouse", zap.Error(err))
		}
		statsSource = statsRepo
		log.Info("📊 Estadísticas desde ClickHouse")
	}

	// ---------------- Settings store ----------------
	var settingsRepo settingsDomain.SettingsRepository
	if cfg.SettingsStore == "mongo" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect MongoDB", zap.Error(err))
		}
		defer client.Disconnect(context.Background())
		if err := client.Ping(ctx, nil); err != nil {
			log.Fatal("failed to ping MongoDB", zap.Error(err))
		}
		settingsRepo = settingsMongo.NewSettingsRepoMongoDB(client, cfg.MongoDB)
	} else {
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer db.Close()
		if err := settingsSQLite.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		settingsRepo = settingsSQLite.NewSettingsRepoSQLite(db)
	}

	// ---------------- Events ---------------
	eventRegistry := make(map[string]sharedEvents.EventMetadata)

	// Merge de los registros de cada dominio
	for k, v := range carDomain.NewEventRegistry() {
		eventRegistry[k] = v
	}
	for k, v := range settingsDomain.NewEventRegistry() {
		eventRegistry[k] = v
	}

	var publisher sharedBus.EventPublisher
	var consumeWith func(consumer *carEvents.NotificationConsumer)

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		// Sin Topic fijo: el publisher lo elige por tipo de evento.
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Balancer: &kafka.Hash{},
		}
		defer writer.Close()
		publisher = infraEvents.NewKafkaPublisher(writer, eventRegistry, cfg.KafkaTopic, log)

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  "carexplorer-notifications",
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		})
		defer reader.Close()

		consumeWith = func(consumer *carEvents.NotificationConsumer) {
			infraEvents.NewConsumerAdapter(reader, consumer, log).Start(ctx)
		}
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		bus := infraEvents.NewInMemoryEventBus(cfg.KafkaTopic)
		defer bus.Close()
		publisher = bus
		events := bus.Subscribe(64)

		consumeWith = func(consumer *carEvents.NotificationConsumer) {
			log.Info("🎧 Iniciando listener en memoria para notificaciones", zap.String("topic", bus.Topic()))
			carEvents.BackgroundConsumerChan(ctx, events, consumer)
		}
	}

	// --------------- Servicios --------------
	settingsService := settingsApp.NewSettingsService(settingsRepo, cacheInstance, publisher, cfg.APIBaseURL, cfg.CacheTTL, log)
	explorerService := carApp.NewExplorerService(datasetSource, cacheInstance, publisher, cfg.SampleLimit, cfg.CacheTTL, log)
	sessionService := carApp.NewSessionService(explorerService, cacheInstance, settingsService,
		carFilesystem.NewExportStorage(cfg.ExportDir), publisher, cfg.SessionTTL, log)
	dashboardService := carApp.NewDashboardService(apiClient, statsSource, explorerService, log)
	predictionService := carApp.NewPredictionService(apiClient, publisher, log)

	feed := carEvents.NewNotificationFeed(carEvents.DefaultFeedSize)
	consumeWith(carEvents.NewNotificationConsumer(feed, settingsService, log))

	// ------------ Workers ------------
	carApp.NewAutoRefresher(explorerService, settingsService, cfg.AutoRefreshTick, log).Start(ctx)

	// Precarga del dataset; si falla, la primera sesión lo reintentará.
	go func() {
		if err := explorerService.Load(ctx); err != nil {
			log.Warn("⚠️ Precarga del dataset fallida", zap.Error(err))
		}
	}()

	// ---------------- HTTP ----------------
	router := gin.Default()
	carHttp.RegisterCarRoutes(router, carHttp.NewCarHandler(explorerService, sessionService, dashboardService, predictionService, feed, log))
	settingsHttp.RegisterSettingsRoutes(router, settingsHttp.NewSettingsHandler(settingsService))

	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		api := "up"
		if err := apiClient.Ping(pingCtx); err != nil {
			api = "down"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"api":     api,
			"dataset": explorerService.State(),
		})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
