package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	filecache "github.com/bnema/indexdiff/internal/adapters/cache/file"
	tomlrepo "github.com/bnema/indexdiff/internal/adapters/repo/toml"
	"github.com/bnema/indexdiff/internal/adapters/search/algolia"
	chainstore "github.com/bnema/indexdiff/internal/adapters/secrets/chain"
	"github.com/bnema/indexdiff/internal/application"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/logging"
	"github.com/bnema/indexdiff/internal/metrics"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	configDir  = ".indexdiff"
	configName = "config"
	configType = "toml"

	cacheDirKey        = "cache.dir"
	logLevelKey        = "log.level"
	logFormatKey       = "log.format"
	logFileKey         = "log.file"
	metricsTextfileKey = "metrics.textfile"
	pageSizeKey        = "algolia.page_size"
)

type app struct {
	accounts        ports.AccountRepository
	secrets         ports.SecretStore
	cache           *filecache.Store
	factory         ports.IndexServiceFactory
	metrics         *metrics.Recorder
	logger          *zap.Logger
	logToFile       bool
	metricsTextfile string
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := loadConfig(homeDir)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.GetString(logLevelKey),
		Format:     cfg.GetString(logFormatKey),
		OutputPath: cfg.GetString(logFileKey),
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, configDir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	cacheDir := cfg.GetString(cacheDirKey)
	if cacheDir == "" {
		return nil, errors.New("cache directory is empty")
	}

	return &app{
		accounts:        repo,
		secrets:         secretStore,
		cache:           filecache.NewStore(cacheDir),
		factory:         algolia.Factory{PageSize: cfg.GetInt(pageSizeKey)},
		metrics:         metrics.NewRecorder(),
		logger:          logger,
		logToFile:       cfg.GetString(logFileKey) != "",
		metricsTextfile: cfg.GetString(metricsTextfileKey),
	}, nil
}

func loadConfig(homeDir string) (*viper.Viper, error) {
	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))

	cfg.SetDefault(cacheDirKey, "indexdiff-cache")
	cfg.SetDefault(logLevelKey, "info")
	cfg.SetDefault(logFormatKey, "console")
	cfg.SetDefault(pageSizeKey, algolia.DefaultPageSize)
	tomlrepo.BindEnv(cfg)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

// comparison loads the configured account pair. Remote commands resolve
// api_key_ref entries through the secret store; cache-only commands do not.
func (a *app) comparison(ctx context.Context, resolveSecrets bool) (domain.Comparison, error) {
	accounts, err := a.accounts.List(ctx)
	if err != nil {
		return domain.Comparison{}, fmt.Errorf("load accounts: %w", err)
	}

	if resolveSecrets {
		accounts, err = application.ResolveCredentials(ctx, a.secrets, accounts)
		if err != nil {
			return domain.Comparison{}, err
		}
	}

	return domain.NewComparison(accounts)
}

func (a *app) pipeline(ctx context.Context, progress ports.Progress, resolveSecrets bool) (*application.Pipeline, error) {
	return a.pipelineLogging(ctx, progress, a.logger, resolveSecrets)
}

func (a *app) pipelineLogging(ctx context.Context, progress ports.Progress, logger *zap.Logger, resolveSecrets bool) (*application.Pipeline, error) {
	comparison, err := a.comparison(ctx, resolveSecrets)
	if err != nil {
		return nil, err
	}

	return application.NewPipeline(comparison, application.Dependencies{
		Cache:    a.cache,
		Factory:  a.factory,
		Progress: progress,
		Metrics:  a.metrics,
		Logger:   logger,
	}), nil
}

// barLogger is the logger used while the progress bar redraws stderr.
// Failures already show on the bar, so console output keeps warnings only.
func (a *app) barLogger() *zap.Logger {
	if a.logToFile {
		return a.logger
	}

	return logging.Quiet(a.logger)
}

func (a *app) writeMetrics() {
	if a.metricsTextfile == "" {
		return
	}

	if err := a.metrics.WriteTextfile(a.metricsTextfile); err != nil {
		a.logger.Warn("write metrics textfile", zap.String("path", a.metricsTextfile), logging.Err(err))
	}
}
