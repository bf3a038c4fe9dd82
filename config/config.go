// SPDX-License-Identifier: GPL-3.0-or-later

// Copyright (c) 2025 Spruce Health

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sprucehealth/virtualholder/engine"
)

// ErrMissing is returned when a required key has no value
var ErrMissing = errors.New("missing required configuration")

// Keys, as environment variables
const (
	KeyOwnerNumber       = "VIRTUAL_HOLDER_YOUR_PHONE_NUMBER"
	KeyOwnerName         = "VIRTUAL_HOLDER_YOUR_NAME"
	KeyCallerID          = "VIRTUAL_HOLDER_PHONE_NUMBER"
	KeyConferenceName    = "VIRTUAL_HOLDER_CONFERENCE_NAME"
	KeyDomainName        = "DOMAIN_NAME"
	KeyBasePath          = "BASE_PATH"
	KeyPublicScheme      = "PUBLIC_SCHEME"
	KeyAccountSID        = "TWILIO_ACCOUNT_SID"
	KeyAuthToken         = "TWILIO_AUTH_TOKEN"
	KeyValidateSignature = "VALIDATE_TWILIO_SIGNATURE"
	KeyHTTPAddr          = "HTTP_ADDR"
	KeyShutdownTimeout   = "SHUTDOWN_TIMEOUT"
	KeyRateLimitRPS      = "RATE_LIMIT_RPS"
	KeyRateLimitBurst    = "RATE_LIMIT_BURST"
	KeyMetricsNamespace  = "METRICS_NAMESPACE"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogFile           = "LOG_FILE"
	KeyConfigFile        = "CONFIG_FILE"
)

// Config is the process configuration
type Config struct {
	OwnerNumber    string
	OwnerName      string
	CallerID       string
	ConferenceName string
	DomainName     string
	BasePath       string
	PublicScheme   string

	AccountSID        string
	AuthToken         string
	ValidateSignature bool

	HTTPAddr         string
	ShutdownTimeout  time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	MetricsNamespace string

	LogLevel string
	LogFile  string
}

// Load reads the configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment values win.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault(KeyOwnerName, "the owner")
	v.SetDefault(KeyBasePath, "/virtual-holder")
	v.SetDefault(KeyPublicScheme, "https")
	v.SetDefault(KeyValidateSignature, true)
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyShutdownTimeout, 15*time.Second)
	v.SetDefault(KeyRateLimitRPS, 20.0)
	v.SetDefault(KeyRateLimitBurst, 40)
	v.SetDefault(KeyMetricsNamespace, "virtualholder")
	v.SetDefault(KeyLogLevel, "info")

	if path := strings.TrimSpace(v.GetString(KeyConfigFile)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		OwnerNumber:       strings.TrimSpace(v.GetString(KeyOwnerNumber)),
		OwnerName:         strings.TrimSpace(v.GetString(KeyOwnerName)),
		CallerID:          strings.TrimSpace(v.GetString(KeyCallerID)),
		ConferenceName:    strings.TrimSpace(v.GetString(KeyConferenceName)),
		DomainName:        strings.TrimSpace(v.GetString(KeyDomainName)),
		BasePath:          strings.TrimSpace(v.GetString(KeyBasePath)),
		PublicScheme:      strings.TrimSpace(v.GetString(KeyPublicScheme)),
		AccountSID:        strings.TrimSpace(v.GetString(KeyAccountSID)),
		AuthToken:         strings.TrimSpace(v.GetString(KeyAuthToken)),
		ValidateSignature: v.GetBool(KeyValidateSignature),
		HTTPAddr:          strings.TrimSpace(v.GetString(KeyHTTPAddr)),
		ShutdownTimeout:   v.GetDuration(KeyShutdownTimeout),
		RateLimitRPS:      v.GetFloat64(KeyRateLimitRPS),
		RateLimitBurst:    v.GetInt(KeyRateLimitBurst),
		MetricsNamespace:  strings.TrimSpace(v.GetString(KeyMetricsNamespace)),
		LogLevel:          strings.TrimSpace(v.GetString(KeyLogLevel)),
		LogFile:           strings.TrimSpace(v.GetString(KeyLogFile)),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required keys and value ranges
func (c Config) Validate() error {
	required := []struct {
		key, value string
	}{
		{KeyOwnerNumber, c.OwnerNumber},
		{KeyCallerID, c.CallerID},
		{KeyConferenceName, c.ConferenceName},
		{KeyDomainName, c.DomainName},
		{KeyAccountSID, c.AccountSID},
		{KeyAuthToken, c.AuthToken},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	if c.PublicScheme != "http" && c.PublicScheme != "https" {
		return fmt.Errorf("%s must be http or https, got %q", KeyPublicScheme, c.PublicScheme)
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%s must start with /, got %q", KeyBasePath, c.BasePath)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyShutdownTimeout)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("%s and %s must be positive", KeyRateLimitRPS, KeyRateLimitBurst)
	}
	return nil
}

// Engine returns the flow configuration
func (c Config) Engine() engine.Config {
	return engine.Config{
		OwnerNumber:    c.OwnerNumber,
		OwnerName:      c.OwnerName,
		CallerID:       c.CallerID,
		ConferenceName: c.ConferenceName,
		PublicScheme:   c.PublicScheme,
		DomainName:     c.DomainName,
		BasePath:       c.BasePath,
	}
}
