package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/Otsikow/bridge-study-global-sub004/apps/api/echo"
	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/blog"
	"github.com/Otsikow/bridge-study-global-sub004/core/contact"
	"github.com/Otsikow/bridge-study-global-sub004/core/transcription"
	"github.com/Otsikow/bridge-study-global-sub004/core/university"
	aisvc "github.com/Otsikow/bridge-study-global-sub004/services/ai"
	cachesvc "github.com/Otsikow/bridge-study-global-sub004/services/cache"
	emailsvc "github.com/Otsikow/bridge-study-global-sub004/services/email"
	logsvc "github.com/Otsikow/bridge-study-global-sub004/services/logger"
	storagesvc "github.com/Otsikow/bridge-study-global-sub004/services/storage"
	"github.com/Otsikow/bridge-study-global-sub004/storage/database"
	sqlxrepos "github.com/Otsikow/bridge-study-global-sub004/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// set up loggers
	zapLogger := logsvc.NewZapLogger(conf.Log)
	logger := logsvc.NewRollbarLogger(zapLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer func() { _ = logger.Sync() }()

	// set up DB (optional: only generate-university-image writes to it)
	var uniRepo university.Repository
	if conf.Database.URL != "" {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()
		uniRepo = sqlxrepos.NewUniversityRepository(db)
	} else {
		logger.Warn("no database configured: university featured images will not be recorded")
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.Email.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf)
	}

	var cache core.Cache
	if conf.Cache.RedisAddr != "" {
		redisCache, err := cachesvc.NewRedisCache(conf.Cache)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up cache: %v", err), err)
		}
		defer func() { _ = redisCache.Close() }()
		cache = redisCache
	} else {
		cache = cachesvc.NewMemoryCache()
	}

	var store core.ObjectStore
	if conf.Storage.AccessKey != "" {
		s3Store, err := storagesvc.NewS3Store(conf.Storage, storagesvc.WithLogger(zapLogger.Zap().Named("storage")))
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up object storage: %v", err), err)
		}
		store = s3Store
	} else {
		logger.Warn("no object storage configured: generated images are kept in memory")
		baseURL := conf.Storage.PublicBaseURL
		if baseURL == "" {
			baseURL = "memory://" + conf.Storage.Bucket
		}
		store = storagesvc.NewMemoryStore(baseURL)
	}

	aiClient := aisvc.NewClient(conf.AI.BaseURL, conf.AI.APIKey, conf.AI.Timeout)
	sttClient := aisvc.NewClient(conf.AI.TranscriptionBaseURL, conf.AI.TranscriptionAPIKey, conf.AI.Timeout)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.NewOptions(conf),
		&echoapi.Deps{
			Logger:             logger,
			AccessLog:          zapLogger.Zap().Named("http"),
			Validate:           validate,
			Translator:         translator,
			SearchSvc:          university.NewSearchService(aiClient, cache, conf.AI.ChatModel, conf.Cache.SearchTTL, logger),
			UniversityImageSvc: university.NewImageService(aiClient, store, uniRepo, conf.AI.ImageModel, logger),
			BlogSvc:            blog.NewService(aiClient, conf.AI.ImageModel),
			TranscriptionSvc: transcription.NewService(
				sttClient, conf.AI.TranscriptionModel, conf.AI.TranscriptionFallbackModel, logger,
			),
			ContactSvc: contact.NewService(mailSvc, conf.Email.AdminEmail),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return database.Open(ctx, conf.Database)
}
