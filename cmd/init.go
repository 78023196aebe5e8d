package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskpilot-ai/taskpilot/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive configuration wizard",
		Long:  "Guides you through setting up taskpilot: choose an LLM provider, enter your API key, point at your todo service, and save the config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Welcome to the taskpilot configuration wizard!")
	fmt.Println()

	// Provider selection
	providers := []string{
		"openai", "anthropic", "deepseek", "kimi", "qwen", "groq",
	}
	fmt.Println("Available providers:")
	for i, p := range providers {
		fmt.Printf("  %d. %s\n", i+1, p)
	}
	fmt.Printf("\nSelect provider (1-%d) [1]: ", len(providers))
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	selectedIdx := 0
	if input != "" {
		n := 0
		for _, c := range input {
			if c >= '0' && c <= '9' {
				n = n*10 + int(c-'0')
			}
		}
		if n >= 1 && n <= len(providers) {
			selectedIdx = n - 1
		}
	}
	providerName := providers[selectedIdx]
	fmt.Printf("Selected: %s\n\n", providerName)

	// API key, hidden when stdin is a terminal.
	fmt.Printf("Enter API key for %s: ", providerName)
	apiKey, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	// Todo service
	defaults := config.DefaultConfig()
	fmt.Printf("Todo service base URL [%s]: ", defaults.TodoAPI.BaseURL)
	todoURL, _ := reader.ReadString('\n')
	todoURL = strings.TrimSpace(todoURL)
	if todoURL == "" {
		todoURL = defaults.TodoAPI.BaseURL
	}

	if err := config.SaveProviderToFile(providerName, config.ProviderConfig{APIKey: apiKey}); err != nil {
		return err
	}
	if err := config.SaveTodoAPIToFile(todoURL); err != nil {
		return err
	}

	home, _ := os.UserHomeDir()
	fmt.Printf("\nConfig saved to %s/.config/taskpilot/config.yaml\n", home)
	fmt.Println("You can now run: taskpilot serve")
	return nil
}

// readSecret reads a line without echo when stdin is a terminal, so API keys
// stay out of scrollback. Falls back to plain reads for piped input.
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
