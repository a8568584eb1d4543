package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"

	RecordNone     = "none"
	RecordSupabase = "supabase"
	RecordSQLite   = "sqlite"
)

type Config struct {
	Model       ModelConfig       `mapstructure:"model"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Game        GameConfig        `mapstructure:"game"`
	Record      RecordConfig      `mapstructure:"record"`
	Supabase    SupabaseConfig    `mapstructure:"supabase"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

type ModelConfig struct {
	Provider    string        `mapstructure:"provider"`
	Name        string        `mapstructure:"name"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Retries     int           `mapstructure:"retries"`
	Temperature float32       `mapstructure:"temperature"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type HuggingFaceConfig struct {
	Token    string `mapstructure:"token"`
	Endpoint string `mapstructure:"endpoint"`
}

type GameConfig struct {
	Region string `mapstructure:"region"`
}

type RecordConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type SupabaseConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type LogConfig struct {
	Verbosity int    `mapstructure:"verbosity"`
	File      string `mapstructure:"file"`
}

// Load reads .env, then the optional YAML config file, then the
// environment. An empty path means $HOME/.config/icg/config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ICG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Bare names used by the hosted services' own tooling.
	_ = v.BindEnv("gemini.api_key", "ICG_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("huggingface.token", "ICG_HUGGINGFACE_TOKEN", "HF_TOKEN", "HUGGINGFACEHUB_API_TOKEN")
	_ = v.BindEnv("supabase.url", "ICG_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.key", "ICG_SUPABASE_KEY", "SUPABASE_KEY")

	if path != "" {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".config", "icg"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.provider", ProviderGemini)
	v.SetDefault("model.name", "")
	v.SetDefault("model.timeout", 60*time.Second)
	v.SetDefault("model.retries", 0)
	v.SetDefault("model.temperature", 0.9)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("huggingface.token", "")
	v.SetDefault("huggingface.endpoint", "https://router.huggingface.co/v1/chat/completions")
	v.SetDefault("game.region", "Indian state")
	v.SetDefault("record.backend", "")
	v.SetDefault("record.sqlite_path", "icg.db")
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.key", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.file", "")
}

func (c *Config) normalize() error {
	c.Model.Provider = strings.ToLower(strings.TrimSpace(c.Model.Provider))
	switch c.Model.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini.api_key is required (set GEMINI_API_KEY)")
		}
	case ProviderHuggingFace:
		if c.HuggingFace.Token == "" {
			return fmt.Errorf("huggingface.token is required (set HF_TOKEN)")
		}
	default:
		return fmt.Errorf("unknown model.provider %q", c.Model.Provider)
	}
	if c.Model.Retries < 0 {
		return fmt.Errorf("model.retries must not be negative")
	}

	c.Record.Backend = strings.ToLower(strings.TrimSpace(c.Record.Backend))
	if c.Record.Backend == "" {
		c.Record.Backend = RecordNone
		if c.Supabase.URL != "" {
			c.Record.Backend = RecordSupabase
		}
	}
	switch c.Record.Backend {
	case RecordNone, RecordSQLite:
	case RecordSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return fmt.Errorf("supabase.url and supabase.key are required for the supabase recorder")
		}
	default:
		return fmt.Errorf("unknown record.backend %q", c.Record.Backend)
	}
	return nil
}
