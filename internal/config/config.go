package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/util"

	"github.com/bytedance/sonic"
)

// PusherConfig channel push configuration
type PusherConfig struct {
	Endpoint    string               `json:"endpoint"`
	APIToken    string               `json:"api_token"`
	APIUser     string               `json:"api_user"`
	RetryMax    int                  `json:"retry_max"`
	Channel     core.ChannelTemplate `json:"channel"`
	Credentials []core.Credential    `json:"credentials"`

	HTTPClientSettings HTTPClientSettings `json:"-"`
}

// ServerConfig admin server configuration
type ServerConfig struct {
	Port            string
	GinMode         string
	AdminAPIKeys    []string
	RateLimit       int
	CORSAllowOrigin string
	Pusher          *PusherConfig
	Storage         core.AccountStorage
	Logger          core.Logger
}

// HTTPClientSettings HTTP client configuration
type HTTPClientSettings struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
	RequestTimeout      time.Duration
}

// DefaultHTTPClientSettings default HTTP client settings
func DefaultHTTPClientSettings() HTTPClientSettings {
	return HTTPClientSettings{
		MaxIdleConns:        core.HTTPMaxIdleConns,
		MaxIdleConnsPerHost: core.HTTPMaxIdleConnsPerHost,
		IdleConnTimeout:     core.HTTPIdleConnTimeout,
		TLSHandshakeTimeout: core.HTTPTLSHandshakeTimeout,
		RequestTimeout:      core.HTTPRequestTimeout,
	}
}

// DefaultChannelTemplate returns the channel fields that do not depend on the deployment
func DefaultChannelTemplate() core.ChannelTemplate {
	return core.ChannelTemplate{
		Type:         core.ChannelTypeAntigravity,
		Group:        core.ChannelGroupDefault,
		MultiKeyMode: core.ChannelMultiKeyModeRandom,
		AutoBan:      core.ChannelAutoBanEnabled,
		ModelMapping: map[string]string{},
	}
}

// LoadPusherConfig loads push configuration from a JSON file, then applies env overrides
func LoadPusherConfig(path string) (PusherConfig, error) {
	cfg := PusherConfig{
		RetryMax:           core.DefaultRetryMax,
		Channel:            DefaultChannelTemplate(),
		HTTPClientSettings: DefaultHTTPClientSettings(),
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from flag/env, not request input
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Channel.ModelMapping == nil {
		cfg.Channel.ModelMapping = map[string]string{}
	}

	ApplyPusherEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyPusherEnv overrides connection settings from environment variables
func ApplyPusherEnv(cfg *PusherConfig) {
	cfg.Endpoint = util.GetEnvWithDefault("NEW_API_ENDPOINT", cfg.Endpoint)
	cfg.APIToken = util.GetEnvWithDefault("NEW_API_PASSWORD", cfg.APIToken)
	cfg.APIUser = util.GetEnvWithDefault("NEW_API_USER", cfg.APIUser)
	cfg.Channel.BaseURL = util.GetEnvWithDefault("NEW_API_BASE_URL", cfg.Channel.BaseURL)
	if retryMax, ok := util.GetEnvInt("NEW_API_RETRY_MAX"); ok {
		cfg.RetryMax = retryMax
	}
}

// Validate checks that all required fields are present
func (c PusherConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Endpoint) == "" {
		errs = append(errs, errors.New("endpoint is required"))
	}
	if strings.TrimSpace(c.APIToken) == "" {
		errs = append(errs, errors.New("api_token is required (or NEW_API_PASSWORD)"))
	}
	if c.APIUser == "" {
		errs = append(errs, errors.New("api_user is required (or NEW_API_USER)"))
	} else if _, err := strconv.Atoi(c.APIUser); err != nil {
		errs = append(errs, fmt.Errorf("api_user must be numeric, got %q", c.APIUser))
	}
	if c.RetryMax < 0 {
		errs = append(errs, fmt.Errorf("retry_max must not be negative, got %d", c.RetryMax))
	}
	if strings.TrimSpace(c.Channel.BaseURL) == "" {
		errs = append(errs, errors.New("channel.base_url is required"))
	}
	if len(c.Channel.Models) == 0 {
		errs = append(errs, errors.New("channel.models must not be empty"))
	}
	for i, cred := range c.Credentials {
		if cred.Key == "" {
			errs = append(errs, fmt.Errorf("credentials[%d] has empty key", i))
		}
	}

	return errors.Join(errs...)
}

// LoadServerConfigFromEnv loads server config from environment variables
func LoadServerConfigFromEnv(logger core.Logger) (ServerConfig, error) {
	adminKeys := util.ParseEnvList(os.Getenv("ADMIN_API_KEYS"))
	if len(adminKeys) == 0 {
		logger.Warn("ADMIN_API_KEYS environment variable is empty")
	} else {
		logger.Info("Loaded %d admin API keys", len(adminKeys))
	}

	rateLimit := core.DefaultRateLimit
	if envRate := os.Getenv("RATE_LIMIT"); envRate != "" {
		parsed, err := strconv.Atoi(envRate)
		if err != nil || parsed <= 0 {
			logger.Warn("Invalid RATE_LIMIT value '%s', using default %d", envRate, core.DefaultRateLimit)
		} else {
			rateLimit = parsed
		}
	}

	cfg := ServerConfig{
		Port:            util.GetEnvWithDefault("PORT", core.DefaultPort),
		GinMode:         util.GetEnvWithDefault("GIN_MODE", core.DefaultGinMode),
		AdminAPIKeys:    adminKeys,
		RateLimit:       rateLimit,
		CORSAllowOrigin: util.GetEnvWithDefault("CORS_ALLOW_ORIGIN", "*"),
	}

	pusherPath := util.GetEnvWithDefault("PUSHER_CONFIG", core.DefaultPusherConfigFile)
	pusherCfg, err := LoadPusherConfig(pusherPath)
	if err != nil {
		logger.Warn("Channel push disabled: %v", err)
	} else {
		logger.Info("Channel push enabled, endpoint %s", pusherCfg.Endpoint)
		cfg.Pusher = &pusherCfg
	}

	return cfg, nil
}
