// Package config loads the bot's settings from defaults, an optional config
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys double as flag names.
const (
	KeyKnowledgeBaseID   = "knowledge-base-id"
	KeyEndpointKey       = "endpoint-key"
	KeyEndpointHostName  = "endpoint-host"
	KeyDefaultAnswer     = "default-answer"
	KeyOverrideMultiTurn = "override-multiturn"
	KeyOverrideDisplay   = "override-display"
	KeyKnowledgeBaseFile = "kb"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
	KeyTraces            = "traces"
	KeyMetricsAddr       = "metrics-addr"
	KeyMaxInputSize      = "max-input-size"
)

const (
	envPrefix         = "QNABOT"
	defaultConfigName = "qnabot"
	defaultLogLevel   = "info"

	// DefaultMaxInputSize bounds a single line of console input, in bytes.
	DefaultMaxInputSize = 4096
)

// Environment names kept from the original sample deployment.
var legacyEnv = map[string]string{
	KeyKnowledgeBaseID:   "QnAKnowledgebaseId",
	KeyEndpointKey:       "QnAEndpointKey",
	KeyEndpointHostName:  "QnAEndpointHostName",
	KeyDefaultAnswer:     "DefaultAnswer",
	KeyOverrideMultiTurn: "OverrideMultiTurnStep",
	KeyOverrideDisplay:   "OverrideDisplayQnAStep",
}

// presenceSwitches are enabled by any non-empty value.
var presenceSwitches = map[string]bool{
	KeyOverrideMultiTurn: true,
	KeyOverrideDisplay:   true,
}

// Config is read once at startup and passed down by value.
type Config struct {
	KnowledgeBaseID  string
	EndpointKey      string
	EndpointHostName string

	// DefaultAnswer replaces the no-answer text when non-empty.
	DefaultAnswer string

	// OverrideMultiTurnStep and OverrideDisplayQnAStep enable the sample's
	// custom handling in the QnA dialog's last two steps.
	OverrideMultiTurnStep  bool
	OverrideDisplayQnAStep bool

	// KnowledgeBaseFile is a YAML knowledge base. Empty selects the built-in one.
	KnowledgeBaseFile string

	LogLevel     string
	LogFormat    logging.Format
	ShowTraces   bool
	MetricsAddr  string
	MaxInputSize int

	// File is the config file that was read, if any.
	File string
}

// Load resolves the configuration. An explicit path must exist; without one,
// a qnabot.yaml in the working directory or the user config dir is optional.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, string(logging.FormatText))
	v.SetDefault(KeyMaxInputSize, DefaultMaxInputSize)

	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envName(key), legacy); err != nil {
			return Config{}, err
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, err
		}
	}

	configureConfigFile(v, path)
	if err := readConfigFile(v, path != ""); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Config{
		KnowledgeBaseID:   v.GetString(KeyKnowledgeBaseID),
		EndpointKey:       v.GetString(KeyEndpointKey),
		EndpointHostName:  v.GetString(KeyEndpointHostName),
		DefaultAnswer:     v.GetString(KeyDefaultAnswer),
		KnowledgeBaseFile: v.GetString(KeyKnowledgeBaseFile),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         logging.Format(strings.ToLower(v.GetString(KeyLogFormat))),
		MetricsAddr:       v.GetString(KeyMetricsAddr),
		MaxInputSize:      v.GetInt(KeyMaxInputSize),
		File:              v.ConfigFileUsed(),
	}

	var err error
	if cfg.OverrideMultiTurnStep, err = flag(v, KeyOverrideMultiTurn); err != nil {
		return Config{}, err
	}
	if cfg.OverrideDisplayQnAStep, err = flag(v, KeyOverrideDisplay); err != nil {
		return Config{}, err
	}
	if cfg.ShowTraces, err = flag(v, KeyTraces); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.LogFormat)
	}
	if c.MaxInputSize < 0 {
		return fmt.Errorf("max input size must not be negative, got %d", c.MaxInputSize)
	}
	return nil
}

func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// flag reads a boolean setting. Strings use strconv.ParseBool spellings,
// except for the override switches: like the sample's environment variables,
// any non-empty string turns them on, "false" included.
func flag(v *viper.Viper, key string) (bool, error) {
	raw := v.Get(key)
	switch t := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return false, nil
		}
		if presenceSwitches[key] {
			return true, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("%s: expected a boolean, got %q", key, s)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%s: expected a boolean, got %T", key, raw)
	}
}

func configureConfigFile(v *viper.Viper, explicitPath string) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return
	}
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, defaultConfigName))
	}
}

func readConfigFile(v *viper.Viper, strict bool) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && !strict {
			return nil
		}
		return err
	}
	return nil
}
