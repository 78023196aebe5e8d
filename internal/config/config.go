// Package config loads and manages taskpilot configuration.
// Configuration source priority (highest to lowest):
// 1. Environment variables (LLM_API_KEY, LLM_BASE_URL, LLM_MODEL, ANTHROPIC_API_KEY, TODO_API_URL, etc.)
// 2. Config file path specified via --config flag
// 3. ~/.config/taskpilot/config.yaml
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed providers_default.yaml
var defaultProvidersYAML []byte

// ProviderDefaults holds the default base URL and model for a provider.
type ProviderDefaults struct {
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
}

// LoadProviderDefaults parses the embedded defaults and merges any user
// overrides from ~/.config/taskpilot/providers.yaml.
func LoadProviderDefaults() map[string]ProviderDefaults {
	defs := make(map[string]ProviderDefaults)
	_ = yaml.Unmarshal(defaultProvidersYAML, &defs)

	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".config", "taskpilot", "providers.yaml")
		if data, err := os.ReadFile(userPath); err == nil {
			userDefs := make(map[string]ProviderDefaults)
			if yaml.Unmarshal(data, &userDefs) == nil {
				for name, ud := range userDefs {
					d := defs[name]
					if ud.BaseURL != "" {
						d.BaseURL = ud.BaseURL
					}
					if ud.DefaultModel != "" {
						d.DefaultModel = ud.DefaultModel
					}
					defs[name] = d
				}
			}
		}
	}
	return defs
}

// ProviderConfig holds configuration for a single LLM provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// TodoAPIConfig holds settings for the external todo service.
type TodoAPIConfig struct {
	// BaseURL is the todo service API root, e.g. "http://127.0.0.1:8000/api".
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each todo API request. 0 = default (30s).
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ServerConfig holds settings for the inbound HTTP server.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string `yaml:"addr"`
}

// MemoryConfig bounds the in-process conversation memory.
type MemoryConfig struct {
	// MaxSessions caps the number of concurrently retained sessions;
	// the least recently used session is evicted beyond this. 0 = default (256).
	MaxSessions int `yaml:"max_sessions"`

	// MaxMessages caps the history length per session; oldest messages are
	// dropped beyond this. 0 = default (200).
	MaxMessages int `yaml:"max_messages"`
}

// Config is the complete configuration structure for taskpilot.
type Config struct {
	// Provider is the active LLM provider name (e.g. "openai", "anthropic", "deepseek")
	Provider string `yaml:"provider"`

	// Model overrides the provider's default model.
	Model string `yaml:"model"`

	// Providers holds per-provider configuration.
	Providers map[string]*ProviderConfig `yaml:"providers"`

	// TodoAPI holds settings for the external todo service.
	TodoAPI TodoAPIConfig `yaml:"todo_api"`

	// Server holds settings for the inbound HTTP server.
	Server ServerConfig `yaml:"server"`

	// Memory bounds the in-process conversation memory.
	Memory MemoryConfig `yaml:"memory"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:  "openai",
		Providers: make(map[string]*ProviderConfig),
		TodoAPI: TodoAPIConfig{
			BaseURL:        "http://127.0.0.1:8000/api",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
		Memory: MemoryConfig{
			MaxSessions: 256,
			MaxMessages: 200,
		},
	}
}

// Load reads the config file and merges environment variable overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Determine config file path
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "taskpilot", "config.yaml")
		}
	}

	// Read config file (use defaults if not found)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Initialize providers map
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}

	return cfg, nil
}

// GetProviderConfig returns the config for the named provider, or an empty config if not found.
func (c *Config) GetProviderConfig(name string) *ProviderConfig {
	if pc, ok := c.Providers[name]; ok {
		return pc
	}
	return &ProviderConfig{}
}

var (
	// KnownProviderBaseURLs maps well-known provider names to their base URLs.
	// Populated from providers_default.yaml (embedded) + user overrides.
	KnownProviderBaseURLs map[string]string

	// KnownProviderModels maps well-known provider names to their default models.
	// Populated from providers_default.yaml (embedded) + user overrides.
	KnownProviderModels map[string]string
)

func init() {
	defs := LoadProviderDefaults()
	KnownProviderBaseURLs = make(map[string]string, len(defs))
	KnownProviderModels = make(map[string]string, len(defs))
	for name, d := range defs {
		if d.BaseURL != "" {
			KnownProviderBaseURLs[name] = d.BaseURL
		}
		if d.DefaultModel != "" {
			KnownProviderModels[name] = d.DefaultModel
		}
	}
}

// SaveProviderToFile persists a single provider's config and the active provider
// name into ~/.config/taskpilot/config.yaml, preserving all other user settings.
func SaveProviderToFile(providerName string, pc ProviderConfig) error {
	return updateConfigFile(func(raw map[string]any) {
		providers, _ := raw["providers"].(map[string]any)
		if providers == nil {
			providers = make(map[string]any)
		}

		entry := map[string]any{
			"api_key": pc.APIKey,
		}
		if pc.BaseURL != "" {
			entry["base_url"] = pc.BaseURL
		}
		if pc.Model != "" {
			entry["model"] = pc.Model
		}
		providers[providerName] = entry
		raw["providers"] = providers

		// Set active provider and clear stale global model override.
		raw["provider"] = providerName
		delete(raw, "model")
	})
}

// SaveTodoAPIToFile persists the todo service base URL into the user config file.
func SaveTodoAPIToFile(baseURL string) error {
	return updateConfigFile(func(raw map[string]any) {
		todoAPI, _ := raw["todo_api"].(map[string]any)
		if todoAPI == nil {
			todoAPI = make(map[string]any)
		}
		todoAPI["base_url"] = baseURL
		raw["todo_api"] = todoAPI
	})
}

// updateConfigFile applies mutate to the user config file as a generic map,
// preserving fields the struct schema does not know about.
func updateConfigFile(mutate func(raw map[string]any)) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}
	cfgPath := filepath.Join(home, ".config", "taskpilot", "config.yaml")

	raw := make(map[string]any)
	if data, err := os.ReadFile(cfgPath); err == nil {
		_ = yaml.Unmarshal(data, &raw) // ignore errors; start fresh if corrupt
	}

	mutate(raw)

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Generic LLM overrides
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		provider := cfg.Provider
		if cfg.Providers[provider] == nil {
			cfg.Providers[provider] = &ProviderConfig{}
		}
		cfg.Providers[provider].APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		provider := cfg.Provider
		if cfg.Providers[provider] == nil {
			cfg.Providers[provider] = &ProviderConfig{}
		}
		cfg.Providers[provider].BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Model = v
	}

	// OpenAI-specific; only fills in a missing key, never overrides the config file
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if cfg.Providers["openai"] == nil {
			cfg.Providers["openai"] = &ProviderConfig{}
		}
		if cfg.Providers["openai"].APIKey == "" {
			cfg.Providers["openai"].APIKey = v
		}
	}

	// Anthropic-specific
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		if cfg.Providers["anthropic"] == nil {
			cfg.Providers["anthropic"] = &ProviderConfig{}
		}
		cfg.Providers["anthropic"].APIKey = v
	}

	// Provider selection
	if v := os.Getenv("TASKPILOT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("TASKPILOT_MODEL"); v != "" {
		cfg.Model = v
	}

	// Todo service and server
	if v := os.Getenv("TODO_API_URL"); v != "" {
		cfg.TodoAPI.BaseURL = v
	}
	if v := os.Getenv("TASKPILOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}
