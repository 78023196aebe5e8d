package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskpilot-ai/taskpilot/internal/config"
	"github.com/taskpilot-ai/taskpilot/internal/provider"
)

var (
	cfgFile      string
	addrFlag     string
	modelFlag    string
	providerFlag string
	todoAPIFlag  string
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	// Local .env files carry API keys in development deployments.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "taskpilot",
		Short: "Natural-language chat front-end for a todo service",
		Long:  "taskpilot turns chat messages into todo API calls and conversational replies.",
		// Running taskpilot with no subcommand starts the HTTP server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/taskpilot/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "override model")
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "override LLM provider")
	rootCmd.PersistentFlags().StringVar(&todoAPIFlag, "todo-api", "", "override todo service base URL")

	// Subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config values
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}
	if todoAPIFlag != "" {
		cfg.TodoAPI.BaseURL = todoAPIFlag
	}

	return cfg
}

// newLogger builds the process-wide structured logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// providerBaseURLs references the canonical map in the config package.
var providerBaseURLs = config.KnownProviderBaseURLs

// buildProvider creates a Provider instance based on configuration.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	name := cfg.Provider
	pc := cfg.GetProviderConfig(name)

	apiKey := pc.APIKey
	if apiKey == "" {
		return nil, fmt.Errorf(
			"API key not configured for provider %q.\n"+
				"Set it via:\n"+
				"  - config file: providers.%s.api_key\n"+
				"  - environment: LLM_API_KEY\n"+
				"  - run: taskpilot init",
			name, name,
		)
	}

	// Determine model: CLI flag > config file > provider defaults YAML
	model := cfg.Model
	if pc.Model != "" && model == "" {
		model = pc.Model
	}
	if model == "" {
		if m, ok := config.KnownProviderModels[name]; ok {
			model = m
		}
	}

	switch name {
	case "anthropic":
		return provider.NewAnthropicProvider(apiKey, model), nil
	default:
		// All other providers use OpenAI-compatible API
		baseURL := pc.BaseURL
		if baseURL == "" {
			if u, ok := providerBaseURLs[name]; ok {
				baseURL = u
			} else {
				return nil, fmt.Errorf("unknown provider %q; set providers.%s.base_url in config", name, name)
			}
		}
		return provider.NewOpenAIProvider(apiKey, baseURL, model), nil
	}
}
