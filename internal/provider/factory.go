package provider

import (
	"github.com/sirupsen/logrus"

	"github.com/statssync/stats-sync/internal/config"
)

// NewHTTPClientFromConfig builds the shared provider HTTP client
func NewHTTPClientFromConfig(cfg config.HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	clientCfg := DefaultHTTPClientConfig()
	clientCfg.Timeout = cfg.Timeout()
	clientCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		clientCfg.RateLimit = cfg.RateLimit
	}
	return NewRateLimitedHTTPClient(clientCfg, logger)
}

// NewPropSources creates all enabled providers from configuration. A slate
// with no enabled providers is valid; the service falls back to the static
// dataset.
func NewPropSources(cfg config.ProvidersConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) []PropSource {
	var sources []PropSource

	if cfg.SportsDataIO.Enabled {
		sources = append(sources, NewSportsDataIOClient(httpClient, cfg.SportsDataIO.BaseURL, cfg.SportsDataIO.APIKey, true, logger))
	}
	if cfg.OddsJam.Enabled {
		sources = append(sources, NewOddsJamClient(httpClient, cfg.OddsJam.BaseURL, cfg.OddsJam.APIKey, true, logger))
	}
	if cfg.TheOddsAPI.Enabled {
		sources = append(sources, NewTheOddsAPIClient(httpClient, cfg.TheOddsAPI.BaseURL, cfg.TheOddsAPI.APIKey, true, logger))
	}

	for _, source := range sources {
		logger.WithField("provider", source.Name()).Info("Registered odds provider")
	}
	if len(sources) == 0 {
		logger.Warn("No odds providers enabled, serving fallback props only")
	}

	return sources
}
