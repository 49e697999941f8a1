package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/horse-prefs/internal/config"
)

// Factory creates RaceHistorySource implementations from configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new race-history source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewSources creates all enabled race-history sources. At least one source
// must be enabled; config validation enforces this before the factory runs.
func (f *Factory) NewSources(cfg config.SourcesConfig) ([]RaceHistorySource, error) {
	var sources []RaceHistorySource

	if cfg.CSV.Enabled {
		src, err := NewCSVSource(cfg.CSV.Dir, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create csv source: %w", err)
		}
		sources = append(sources, src)
		f.logger.WithField("dir", cfg.CSV.Dir).Info("Created csv race history source")
	}

	if cfg.ResultsAPI.Enabled {
		httpCfg := DefaultHTTPClientConfig()
		if cfg.ResultsAPI.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.ResultsAPI.TimeoutSeconds) * time.Second
		}
		if cfg.ResultsAPI.RetryAttempts > 0 {
			httpCfg.MaxRetries = cfg.ResultsAPI.RetryAttempts
		}
		if cfg.ResultsAPI.RateLimitPerSecond > 0 {
			httpCfg.RateLimit = cfg.ResultsAPI.RateLimitPerSecond
		}

		client := NewRateLimitedHTTPClient(httpCfg, f.logger)
		sources = append(sources, NewResultsAPIClient(client, cfg.ResultsAPI.BaseURL, cfg.ResultsAPI.APIKey, f.logger))
		f.logger.WithField("base_url", cfg.ResultsAPI.BaseURL).Info("Created results API race history source")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no enabled race history sources configured")
	}

	return sources, nil
}
