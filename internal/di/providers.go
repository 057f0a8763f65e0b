package di

import (
	"context"
	"fmt"
	"time"

	domrepo "StockSight/internal/domain/repository"
	domsvc "StockSight/internal/domain/service"
	"StockSight/internal/handler/api"
	internalrepo "StockSight/internal/repository"
	icache "StockSight/internal/service/cache"
	imetrics "StockSight/internal/service/metrics"
	"StockSight/internal/service/quotes"
	"StockSight/internal/services/analysis"
	"StockSight/internal/services/indicators"
	"StockSight/internal/usecase"
	pkgch "StockSight/pkg/clickhouse"
	"StockSight/pkg/config"
	pkgkafka "StockSight/pkg/kafka"
	pkgmetrics "StockSight/pkg/metrics"
	applogger "StockSight/pkg/logger"
	"StockSight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS stocksight",
		"CREATE TABLE IF NOT EXISTS stocksight.bars_daily (symbol String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)",
		"CREATE TABLE IF NOT EXISTS stocksight.bars_weekly (symbol String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)",
		"CREATE TABLE IF NOT EXISTS stocksight.bars_monthly (symbol String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)",
		"CREATE TABLE IF NOT EXISTS stocksight.securities (symbol String, name String) ENGINE=ReplacingMergeTree ORDER BY symbol",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the ClickHouse-backed bar store.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.BarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the analysis event publisher.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AnalysisPublisher {
	if producer == nil {
		return internalrepo.NopPublisher{}
	}
	return internalrepo.NewKafkaAnalysisPublisher(producer, cfg.Kafka.Topic)
}

// ProvideCache creates the result cache: Redis when enabled, in-process TTL
// cache otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return imetrics.NewRecorder()
}

// ProvideIndicatorProvider creates the indicator service client.
func ProvideIndicatorProvider(cfg *config.Config) domsvc.IndicatorProvider {
	return indicators.NewHTTPProvider(cfg)
}

// ProvideAnalyzer builds the scoring pipeline from configuration.
func ProvideAnalyzer(cfg *config.Config) (*analysis.Analyzer, error) {
	policy, err := analysis.PolicyFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("analysis policy: %w", err)
	}
	return analysis.NewAnalyzer(policy), nil
}

// ProvideQuoteStream creates the live quote stream, or nil when disabled.
func ProvideQuoteStream(cfg *config.Config, l *applogger.Logger) domrepo.QuoteStream {
	if !cfg.Quotes.Enabled {
		return nil
	}
	s := quotes.New(
		cfg.Quotes.APIKey,
		cfg.Quotes.WebSocketURL,
		cfg.Quotes.Symbols,
		cfg.Quotes.ReconnectDelay,
		cfg.Quotes.PingInterval,
		l,
	)
	s.SetRecorder(pkgmetrics.NewQuoteRecorder())
	return s
}

// ProvideAnalyzeUseCase creates the analysis orchestrator.
func ProvideAnalyzeUseCase(
	store domrepo.BarStore,
	provider domsvc.IndicatorProvider,
	analyzer *analysis.Analyzer,
	c icache.BytesCache,
	publisher domrepo.AnalysisPublisher,
	stream domrepo.QuoteStream,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AnalyzeUseCase {
	return usecase.NewAnalyzeUseCase(usecase.AnalyzeDeps{
		Store:      store,
		Indicators: provider,
		Analyzer:   analyzer,
		Cache:      c,
		CacheTTL:   cfg.Cache.TTL,
		Publisher:  publisher,
		Quotes:     stream,
		Metrics:    m,
		Log:        l,
	})
}

// ProvideBarsUseCase creates the raw bars use case.
func ProvideBarsUseCase(store domrepo.BarStore) *usecase.BarsUseCase {
	return usecase.NewBarsUseCase(store)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	analyze *usecase.AnalyzeUseCase,
	bars *usecase.BarsUseCase,
	store domrepo.BarStore,
	cfg *config.Config,
) *api.AnalyzeEchoHandler {
	h := api.NewAnalyzeEchoHandler(l, analyze, bars, store)
	if cfg.RateLimit.Enabled && cfg.RateLimit.RPS > 0 {
		h.SetRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.AnalyzeEchoHandler,
	stream domrepo.QuoteStream,
	publisher domrepo.AnalysisPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, stream, publisher, chClient)
}
