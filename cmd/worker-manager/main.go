// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"stylist-workers/internal/common/camunda"
	"stylist-workers/internal/common/config"
	"stylist-workers/internal/common/database"
	apperrors "stylist-workers/internal/common/errors"
	commonhttp "stylist-workers/internal/common/http"
	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/common/observability"
	"stylist-workers/internal/common/storage"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/advice"
	"stylist-workers/internal/styling/category"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/locale"
	"stylist-workers/internal/styling/profile"
	"stylist-workers/internal/styling/recommend"
	"stylist-workers/internal/styling/refresh"
	"stylist-workers/internal/styling/twinning"
	"stylist-workers/pkg/registry"

	// Advice Workers (1)
	ma "stylist-workers/internal/workers/advice/match-advice"

	// Context Workers (1)
	rlc "stylist-workers/internal/workers/context/resolve-location-context"

	// Feed Workers (1)
	rsf "stylist-workers/internal/workers/feed/refresh-style-feed"

	// Outfit Workers (2)
	at "stylist-workers/internal/workers/outfits/analyze-twinning"
	so "stylist-workers/internal/workers/outfits/suggest-outfits"

	// Profile Workers (1)
	usp "stylist-workers/internal/workers/profile/update-style-profile"
)

const imageFetchTimeout = 20 * time.Second

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Activity Registry ---
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}

	// --- Init Zeebe Client ---
	camundaClient, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Init Profile Database with retry ---
	var db *database.SQLClient
	err = retryWithBackoff(func() error {
		var err error
		db, err = database.NewSQL(cfg.Database)
		if err != nil {
			return err
		}
		return db.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "profile database connection")
	if err != nil {
		zapLog.Fatal("profile database failed after retries", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		zapLog.Fatal("profile database migration failed", zap.Error(err))
	}
	zapLog.Info("Profile database ready", zap.String("driver", db.Driver))

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	var profiles profile.Store = profile.NewSQLStore(db.DB)
	if redisClient != nil && cfg.Database.Redis.ProfileTTL > 0 {
		profiles = profile.NewCachedStore(profiles, redisClient.Client, config.GetDuration(cfg.Database.Redis.ProfileTTL), log)
	}

	// --- Generative AI Gateway ---
	provider, err := newAIProvider(ctx, cfg)
	if err != nil {
		zapLog.Fatal("ai provider init failed", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	}
	ai := gateway.New(provider, gateway.Config{
		Timeout:     config.GetDuration(cfg.AI.Timeout),
		MaxRetries:  cfg.AI.MaxRetries,
		RetryDelay:  config.GetDuration(cfg.AI.RetryDelay),
		BusyPhrases: cfg.AI.BusyPhrases,
		OnRequest: func(ctx context.Context, a gateway.Attempt) {
			metrics.AIRequests.WithLabelValues(a.Kind, a.Outcome).Inc()
			obs.RecordAIRequest(ctx, a.Kind, a.Number, a.Outcome)
		},
	}, log)
	zapLog.Info("AI gateway initialized", zap.String("provider", provider.Name()))

	// --- Location Context ---
	localeHTTP := commonhttp.NewClient(config.GetDuration(cfg.Locale.HTTPTimeout)).WithUserAgent(cfg.Locale.UserAgent)
	weatherTTL := config.GetDuration(cfg.Locale.WeatherTTL)
	topographyTTL := config.GetDuration(cfg.Locale.TopographyTTL)

	var (
		weatherCache    locale.Cache[models.WeatherReport] = locale.NewMemoryCache[models.WeatherReport](weatherTTL)
		topographyCache locale.Cache[models.Topography]    = locale.NewMemoryCache[models.Topography](topographyTTL)
	)
	if cfg.Locale.CacheBackend == "redis" {
		if redisClient == nil {
			zapLog.Fatal("locale cache backend redis requires database.redis.address")
		}
		weatherCache = locale.NewRedisCache[models.WeatherReport](redisClient.Client, "stylist:weather:", weatherTTL, log)
		topographyCache = locale.NewRedisCache[models.Topography](redisClient.Client, "stylist:topography:", topographyTTL, log)
	}

	weather := locale.NewWeatherResolver(locale.NewOpenMeteoClient(localeHTTP, cfg.Locale.WeatherBaseURL), weatherCache, log)
	topography := locale.NewTopographyResolver(locale.NewNominatimClient(localeHTTP, cfg.Locale.GeocoderBaseURL), topographyCache, log)

	// --- Advice Catalog ---
	source, err := newAdviceSource(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("advice source init failed", zap.String("source", cfg.Advice.Source), zap.Error(err))
	}
	catalog := advice.NewCatalog(source, log)
	if err := catalog.Reload(ctx); err != nil {
		zapLog.Warn("initial advice load failed, will retry on first use", zap.Error(err))
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLogger(logger.NewSchedulerLogger(log)))
	if err != nil {
		zapLog.Fatal("scheduler init failed", zap.Error(err))
	}
	if _, err := catalog.Schedule(scheduler, config.GetDuration(cfg.Advice.ReloadInterval)); err != nil {
		zapLog.Fatal("advice reload schedule failed", zap.Error(err))
	}
	scheduler.Start()

	// --- Styling Services ---
	outfitPolicy := category.ParsePolicy(cfg.Styling.OutfitGenderPolicy, category.ProfileFirst)
	advicePolicy := category.ParsePolicy(cfg.Styling.AdviceGenderPolicy, category.CategoryFirst)

	suggester := recommend.NewService(ai, profiles, weather, topography, recommend.Options{
		OutfitCount:  cfg.Styling.OutfitCount,
		GenderPolicy: outfitPolicy,
	}, log)
	analyzer := twinning.NewAnalyzer(ai, log)
	coordinator := refresh.NewCoordinator(profiles, catalog, suggester, refresh.NewSequencer(), advicePolicy, log)

	images := commonhttp.NewClient(imageFetchTimeout).WithUserAgent(cfg.Locale.UserAgent)

	// --- Register Workers ---
	handlers := map[string]worker.JobHandler{}

	if taskType := so.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		c := so.LoadConfig()
		c.Timeout = workerTimeout(cfg, taskType, c.Timeout)
		if cfg.Styling.ImageMaxBytes > 0 {
			c.ImageMaxBytes = cfg.Styling.ImageMaxBytes
		}
		handlers[taskType] = so.NewHandler(c, suggester, images, log).Handle
	}

	if taskType := at.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		c := at.LoadConfig()
		c.Timeout = workerTimeout(cfg, taskType, c.Timeout)
		if cfg.Styling.ImageMaxBytes > 0 {
			c.ImageMaxBytes = cfg.Styling.ImageMaxBytes
		}
		handlers[taskType] = at.NewHandler(c, analyzer, images, log).Handle
	}

	if taskType := ma.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		c := ma.LoadConfig()
		c.Timeout = workerTimeout(cfg, taskType, c.Timeout)
		c.GenderPolicy = advicePolicy
		handlers[taskType] = ma.NewHandler(c, catalog, profiles, log).Handle
	}

	if taskType := rlc.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		c := rlc.LoadConfig()
		c.Timeout = workerTimeout(cfg, taskType, c.Timeout)
		handlers[taskType] = rlc.NewHandler(c, weather, topography, log).Handle
	}

	if taskType := usp.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		c := usp.LoadConfig()
		c.Timeout = workerTimeout(cfg, taskType, c.Timeout)
		handlers[taskType] = usp.NewHandler(c, profiles, log).Handle
	}

	if taskType := rsf.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		c := rsf.LoadConfig()
		c.Timeout = workerTimeout(cfg, taskType, c.Timeout)
		handlers[taskType] = rsf.NewHandler(c, coordinator, log).Handle
	}

	var workers []*camunda.JobWorker
	for taskType, handler := range handlers {
		wcfg := config.GetWorkerConfig(cfg, taskType)

		activity, ok := reg.Find(taskType)
		if !ok {
			zapLog.Warn("enabled worker is not in the activity registry", zap.String("taskType", taskType))
		} else {
			validator, err := activity.InputValidator()
			if err != nil {
				zapLog.Fatal("activity input schema invalid", zap.String("taskType", taskType), zap.Error(err))
			}
			handler = withInputSchema(validator, handler, log)
		}

		workers = append(workers, camunda.StartWorker(
			camundaClient.GetClient(),
			taskType,
			camunda.WorkerSettings{
				MaxJobsActive: wcfg.MaxJobsActive,
				Timeout:       config.GetDuration(wcfg.Timeout),
			},
			observed(obs, taskType, handler),
			log,
		))
	}
	zapLog.Info("Workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := camundaClient.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		status := map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		}
		if loadedAt := catalog.LoadedAt(); !loadedAt.IsZero() {
			status["adviceLoadedAt"] = loadedAt.Format(time.RFC3339)
		}
		writeStatus(w, http.StatusOK, status)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := scheduler.Shutdown(); err != nil {
		zapLog.Error("Error stopping scheduler", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func newAIProvider(ctx context.Context, cfg *config.Config) (gateway.Provider, error) {
	switch cfg.AI.Provider {
	case "rest":
		client := commonhttp.NewClient(config.GetDuration(cfg.AI.Timeout))
		return gateway.NewRESTProvider(client, cfg.AI.REST.BaseURL, cfg.AI.REST.APIKey), nil
	default:
		return gateway.NewGeminiProvider(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model, cfg.AI.Gemini.Temperature)
	}
}

func newAdviceSource(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (advice.Source, error) {
	switch cfg.Advice.Source {
	case "s3":
		s3Client, err := storage.NewS3Client(ctx, cfg.Storage.S3.Region, cfg.Storage.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		return advice.NewS3Source(s3Client, cfg.Advice.Bucket, cfg.Advice.Key), nil
	case "elasticsearch":
		search, err := database.NewAdviceSearch(cfg.Database.Elasticsearch, cfg.Advice.Index)
		if err != nil {
			return nil, err
		}
		err = retryWithBackoff(func() error {
			return search.Ready(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch advice index")
		if err != nil {
			return nil, err
		}
		return advice.NewElasticsearchSource(search.Client, search.Index()), nil
	default:
		client := commonhttp.NewClient(config.GetDuration(cfg.Locale.HTTPTimeout)).WithUserAgent(cfg.Locale.UserAgent)
		return advice.NewHTTPSource(client, cfg.Advice.URL, cfg.Advice.Token), nil
	}
}

// workerTimeout is the configured job timeout for taskType, or def when unset.
func workerTimeout(cfg *config.Config, taskType string, def time.Duration) time.Duration {
	if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
		return config.GetDuration(ms)
	}
	return def
}

// withInputSchema rejects jobs whose variables violate the registered input schema.
func withInputSchema(validator *registry.InputValidator, handler worker.JobHandler, log logger.Logger) worker.JobHandler {
	errHandler := apperrors.NewErrorHandler(log)
	return func(client worker.JobClient, job entities.Job) {
		if err := validator.Validate(job.Variables); err != nil {
			errHandler.HandleJobError(context.Background(), client, job, apperrors.NewInvalidStyleInputError(err.Error()))
			return
		}
		handler(client, job)
	}
}

func observed(obs *observability.Observability, taskType string, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)
		obs.RecordJobProcessed(context.Background(), taskType, "handled")
		obs.RecordJobDuration(context.Background(), taskType, time.Since(start), "handled")
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
