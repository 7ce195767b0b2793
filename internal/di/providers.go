package di

import (
	"context"
	"fmt"

	"CryptoAnalyst/internal/catalog"
	"CryptoAnalyst/internal/domain/repository"
	domsvc "CryptoAnalyst/internal/domain/service"
	"CryptoAnalyst/internal/enrich"
	"CryptoAnalyst/internal/handler/api"
	"CryptoAnalyst/internal/prompt"
	internalrepo "CryptoAnalyst/internal/repository"
	"CryptoAnalyst/internal/resolver"
	icache "CryptoAnalyst/internal/service/cache"
	"CryptoAnalyst/internal/usecase"
	"CryptoAnalyst/pkg/config"
	xhttp "CryptoAnalyst/pkg/http"
	pkgkafka "CryptoAnalyst/pkg/kafka"
	applogger "CryptoAnalyst/pkg/logger"
	"CryptoAnalyst/pkg/metrics"
	"CryptoAnalyst/pkg/queue"
	"CryptoAnalyst/pkg/server"

	goredis "github.com/redis/go-redis/v9"
)

// JobQueue is the queue shape the job endpoints need: publish, register and
// lifecycle. Both the redis and memory queues satisfy it.
type JobQueue interface {
	queue.QueueService
	RegisterJob(queue.Job)
	Start() error
	Stop(ctx context.Context) error
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCatalog builds the in-memory asset catalog.
func ProvideCatalog() *catalog.Catalog {
	return catalog.New()
}

// ProvidePromptRegistry loads and validates the prompt variants.
func ProvidePromptRegistry() (*prompt.Registry, error) {
	return prompt.Load()
}

// ProvideCache creates the enrichment cache backend.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Backend == "redis" {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideResolver creates the resolver, delegating to the extraction service
// when one is configured.
func ProvideResolver(
	cfg *config.Config,
	cat *catalog.Catalog,
	prompts *prompt.Registry,
	m repository.Metrics,
	lgr *applogger.Logger,
) *resolver.Resolver {
	var opts []resolver.Option
	if cfg.Extractor.Enabled {
		opts = append(opts, resolver.WithExtractor(resolver.NewHTTPExtractor(cfg, prompts)))
	}
	return resolver.New(cat, m, lgr, opts...)
}

// ProvidePriceSource creates the price history source.
func ProvidePriceSource(c icache.BytesCache) domsvc.PriceSource {
	return enrich.NewSimulatedPriceSource(c)
}

// ProvideTechnicalAnalyzer creates the indicator engine.
func ProvideTechnicalAnalyzer() domsvc.TechnicalAnalyzer {
	return enrich.NewIndicatorEngine()
}

// ProvideNewsSource creates the news source.
func ProvideNewsSource(c icache.BytesCache) domsvc.NewsSource {
	return enrich.NewSimulatedNewsSource(c)
}

// ProvideSentimentAnalyzer creates the sentiment scorer.
func ProvideSentimentAnalyzer() domsvc.SentimentAnalyzer {
	return enrich.NewLexiconSentiment()
}

// ProvideReportWriter creates the report synthesizer.
func ProvideReportWriter() domsvc.ReportWriter {
	return enrich.NewReporter()
}

// ProvideAuditPublisher creates the Kafka audit publisher, or a noop when
// auditing is disabled.
func ProvideAuditPublisher(cfg *config.Config) (repository.AuditPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopAuditPublisher{}, nil
	}

	opts := []pkgkafka.ProducerOption{
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	}
	if cfg.Kafka.RequiredAcks != 0 {
		opts = append(opts, pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks))
	}
	if cfg.Kafka.Compression != "" {
		opts = append(opts, pkgkafka.WithCompression(cfg.Kafka.Compression))
	}
	if cfg.Kafka.Producer.MaxAttempts > 0 {
		opts = append(opts, pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts))
	}
	if cfg.Kafka.Producer.WriteTimeout > 0 && cfg.Kafka.Producer.ReadTimeout > 0 {
		opts = append(opts, pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout))
	}
	producer, err := pkgkafka.NewProducer(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAuditPublisher(producer, cfg.Kafka.Topic)
}

// ProvideAnalyzer creates the pipeline orchestrator.
func ProvideAnalyzer(
	cat *catalog.Catalog,
	rsv *resolver.Resolver,
	prices domsvc.PriceSource,
	technical domsvc.TechnicalAnalyzer,
	news domsvc.NewsSource,
	sentiment domsvc.SentimentAnalyzer,
	reporter domsvc.ReportWriter,
	publisher repository.AuditPublisher,
	m repository.Metrics,
	lgr *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(cat, rsv, prices, technical, news, sentiment, reporter, publisher, m, lgr)
}

// ProvideJobQueue creates the async job queue: redis-backed when enabled,
// otherwise in-process.
func ProvideJobQueue(cfg *config.Config, lgr *applogger.Logger) JobQueue {
	qc := &queue.QueueConfig{Workers: cfg.Queue.Workers, RetryLimit: 2}
	if cfg.Queue.Enabled {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.Queue.Addr})
		return queue.NewRedisQueue(lgr, qc, client)
	}
	return queue.NewMemoryQueue(lgr, qc)
}

// ProvideJobService creates the async analysis job service and registers it
// with the queue.
func ProvideJobService(analyzer *usecase.Analyzer, jq JobQueue, lgr *applogger.Logger) *usecase.JobService {
	svc := usecase.NewJobService(analyzer, jq, lgr)
	jq.RegisterJob(svc)
	return svc
}

// ProvideHandler creates the HTTP handler with all routes.
func ProvideHandler(
	cfg *config.Config,
	lgr *applogger.Logger,
	analyzer *usecase.Analyzer,
	jobs *usecase.JobService,
	cat *catalog.Catalog,
) xhttp.Handler {
	h := api.NewAnalyzeEchoHandler(lgr, analyzer, cat)
	h.SetJobService(jobs)
	if cfg.RateLimit.Enabled {
		h.SetRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler xhttp.Handler,
	jq JobQueue,
	publisher repository.AuditPublisher,
) *server.App {
	app := server.New(cfg, lgr, handler)
	app.SetQueue(jq)
	app.SetAuditPublisher(publisher)
	return app
}
