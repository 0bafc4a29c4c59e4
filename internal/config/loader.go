package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/zero-day-ai/wintermute/internal/types"
)

// ConfigLoader handles loading configuration from files.
type ConfigLoader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperConfigLoader implements ConfigLoader using Viper.
type viperConfigLoader struct {
	validator ConfigValidator
}

// NewConfigLoader creates a new ConfigLoader instance.
func NewConfigLoader(validator ConfigValidator) ConfigLoader {
	return &viperConfigLoader{
		validator: validator,
	}
}

// Load loads configuration from the specified file path. File values overlay
// the defaults, ${VAR_NAME} references are interpolated from the environment,
// and WINTERMUTE_-prefixed environment variables override file values.
// Returns an error if the file doesn't exist or cannot be parsed.
func (l *viperConfigLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnvOverrides(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := decodeSettings(v.AllSettings(), cfg); err != nil {
		return nil, err
	}

	if err := l.validator.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration.
func (l *viperConfigLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return l.Load(path)
}

// bindEnvOverrides wires WINTERMUTE_-prefixed environment overrides, e.g.
// WINTERMUTE_LLM_API_KEY overrides llm.api_key.
func bindEnvOverrides(v *viper.Viper) {
	v.SetEnvPrefix("WINTERMUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"objective",
		"initial_task",
		"agent_name",
		"join_existing",
		"llm.style",
		"llm.model",
		"llm.api_key",
		"llm.base_url",
		"llm.local_command",
		"memory.store.driver",
		"memory.store.path",
		"memory.embedder.api_key",
		"memory.embedder.base_url",
		"task_store.driver",
		"task_store.path",
		"creation.policy",
		"creation.playbook_path",
		"logging.level",
		"logging.format",
		"tracing.endpoint",
	} {
		_ = v.BindEnv(key)
	}
}

// decodeSettings interpolates environment references in the raw settings map
// and unmarshals the result onto cfg, leaving absent keys at their defaults.
func decodeSettings(raw map[string]interface{}, cfg *Config) error {
	interpolated, ok := interpolateEnvVars(raw).(map[string]interface{})
	if !ok {
		return types.NewError(types.CONFIG_PARSE_FAILED, "config root must be a mapping")
	}

	merged := viper.New()
	if err := merged.MergeConfigMap(interpolated); err != nil {
		return types.WrapError(types.CONFIG_PARSE_FAILED, "failed to merge config values", err)
	}
	if err := merged.Unmarshal(cfg); err != nil {
		return types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	return nil
}

// interpolateEnvVars recursively interpolates environment variables in the
// config map. Supports ${VAR_NAME} syntax.
func interpolateEnvVars(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for key, value := range v {
			result[key] = interpolateEnvVars(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, value := range v {
			result[i] = interpolateEnvVars(value)
		}
		return result
	case string:
		return interpolateString(v)
	default:
		return v
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables leave the reference in place.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")

		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}

		return match
	})
}
