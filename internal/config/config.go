package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the bot.
type Config struct {
	General   GeneralConfig   `yaml:"general"`
	Webex     WebexConfig     `yaml:"webex"`
	Router    RouterConfig    `yaml:"router"`
	Poller    PollerConfig    `yaml:"poller"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Providers ProvidersConfig `yaml:"providers"`
	Dedup     DedupConfig     `yaml:"dedup"`
}

type GeneralConfig struct {
	LogLevel string `yaml:"logLevel"` // debug | info | warn | error
}

// WebexConfig holds the chat platform credentials and target room.
type WebexConfig struct {
	APIBase  string `yaml:"apiBase"`
	Token    string `yaml:"token"`
	RoomID   string `yaml:"roomId"`
	BotEmail string `yaml:"botEmail"`
}

// RouterConfig selects the command mode. "commands" runs the named command
// table; "numeric" runs the /<seconds> delay-then-ISS workflow. A deployment
// runs one or the other, never both.
type RouterConfig struct {
	Mode            string `yaml:"mode"` // commands | numeric
	MaxDelaySeconds int    `yaml:"maxDelaySeconds"`
	MaxTextLength   int    `yaml:"maxTextLength"` // free-text truncation limit for replies
}

type PollerConfig struct {
	IntervalSeconds int `yaml:"intervalSeconds"`
}

type WebhookConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

type ProvidersConfig struct {
	TimeoutSeconds int               `yaml:"timeoutSeconds"`
	NASA           NASAConfig        `yaml:"nasa"`
	GraphHopper    GraphHopperConfig `yaml:"graphhopper"`
	Weather        WeatherConfig     `yaml:"weather"`
}

type NASAConfig struct {
	APIKey string `yaml:"apiKey"`
}

type GraphHopperConfig struct {
	APIKey string `yaml:"apiKey"`
}

// WeatherConfig selects the forecast source: "nws" chains a point-metadata
// lookup into a detailed-forecast lookup, "open-meteo" reads current
// conditions directly by coordinate.
type WeatherConfig struct {
	Source string `yaml:"source"` // nws | open-meteo
}

// DedupConfig configures dedup persistence. Empty path keeps the per-room
// last-message record in memory only.
type DedupConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfigDir returns the default config directory (~/.webexbot).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".webexbot"
	}
	return filepath.Join(home, ".webexbot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Webex: WebexConfig{
			APIBase: "https://webexapis.com/v1",
		},
		Router: RouterConfig{
			Mode:            "commands",
			MaxDelaySeconds: 5,
			MaxTextLength:   700,
		},
		Poller: PollerConfig{
			IntervalSeconds: 1,
		},
		Webhook: WebhookConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Path: "/webex",
		},
		Providers: ProvidersConfig{
			TimeoutSeconds: 10,
			Weather: WeatherConfig{
				Source: "open-meteo",
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Dedup.Path = ExpandPath(cfg.Dedup.Path)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks the config for values that would make the bot unable to
// run at all. A failure here is fatal at startup.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Webex.Token == "" {
		errs = append(errs, "webex.token is required")
	}
	if cfg.Webex.APIBase == "" {
		errs = append(errs, "webex.apiBase must not be empty")
	}
	switch cfg.Router.Mode {
	case "commands", "numeric":
	default:
		errs = append(errs, "router.mode must be one of: commands, numeric")
	}
	if cfg.Router.MaxDelaySeconds < 1 {
		errs = append(errs, "router.maxDelaySeconds must be >= 1")
	}
	if cfg.Router.MaxTextLength < 1 {
		errs = append(errs, "router.maxTextLength must be >= 1")
	}
	if cfg.Poller.IntervalSeconds < 1 {
		errs = append(errs, "poller.intervalSeconds must be >= 1")
	}
	if cfg.Webhook.Port < 0 || cfg.Webhook.Port > 65535 {
		errs = append(errs, "webhook.port must be between 0 and 65535")
	}
	if cfg.Providers.TimeoutSeconds < 1 {
		errs = append(errs, "providers.timeoutSeconds must be >= 1")
	}
	switch cfg.Providers.Weather.Source {
	case "nws", "open-meteo":
	default:
		errs = append(errs, "providers.weather.source must be one of: nws, open-meteo")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ValidatePollReady checks the extra fields polling needs: the poller
// watches exactly one configured room.
func ValidatePollReady(cfg *Config) error {
	if cfg.Webex.RoomID == "" {
		return fmt.Errorf("webex.roomId is required for poll mode")
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
