package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	OpenAI   OpenAIConfig   `toml:"openai"`
	Search   SearchConfig   `toml:"search"`
	Chunker  ChunkerConfig  `toml:"chunker"`
	History  HistoryConfig  `toml:"history"`
	Observer ObserverConfig `toml:"observer"`
}

type OpenAIConfig struct {
	Endpoint    string  `toml:"endpoint"`
	Deployment  string  `toml:"deployment"`
	APIKey      string  `toml:"api_key"`
	APIVersion  string  `toml:"api_version"`
	Temperature float64 `toml:"temperature"`
}

type SearchConfig struct {
	Endpoint     string `toml:"endpoint"`
	IndexName    string `toml:"index_name"`
	APIKey       string `toml:"api_key"`
	KeyField     string `toml:"key_field"`
	ContentField string `toml:"content_field"`
	TopK         int    `toml:"top_k"`
}

type ChunkerConfig struct {
	MaxUnits int `toml:"max_units"`
}

type HistoryConfig struct {
	Driver      string `toml:"driver"`
	Path        string `toml:"path"`
	PostgresURL string `toml:"postgres_url"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		OpenAI:  OpenAIConfig{APIVersion: "2024-06-01", Temperature: 0.5},
		Search:  SearchConfig{KeyField: "id", ContentField: "content", TopK: 5},
		Chunker: ChunkerConfig{MaxUnits: 1000},
		History: HistoryConfig{Driver: "sqlite", Path: "docchat.db"},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "docchat.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		cfg.OpenAI.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Deployment = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("AZURE_OPENAI_VERSION"); v != "" {
		cfg.OpenAI.APIVersion = v
	}
	if v := os.Getenv("AZURE_OPENAI_TEMPERATURE"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.OpenAI.Temperature = t
		}
	}
	if v := os.Getenv("AZURE_SEARCH_SERVICE_ENDPOINT"); v != "" {
		cfg.Search.Endpoint = v
	}
	if v := os.Getenv("AZURE_SEARCH_INDEX_NAME"); v != "" {
		cfg.Search.IndexName = v
	}
	if v := os.Getenv("AZURE_SEARCH_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("AZURE_SEARCH_KEY_FIELD_NAME"); v != "" {
		cfg.Search.KeyField = v
	}
	if v := os.Getenv("AZURE_SEARCH_CONTENT_FIELD_NAME"); v != "" {
		cfg.Search.ContentField = v
	}
	if v := os.Getenv("DOCCHAT_HISTORY_DRIVER"); v != "" {
		cfg.History.Driver = v
	}
	if v := os.Getenv("DOCCHAT_POSTGRES_URL"); v != "" {
		cfg.History.PostgresURL = v
	}
	if v := os.Getenv("DOCCHAT_OBSERVER_ENABLED"); v == "true" || v == "1" {
		cfg.Observer.Enabled = true
	}

	return cfg
}
