package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskpilot-ai/taskpilot/internal/chain"
	"github.com/taskpilot-ai/taskpilot/internal/memory"
	"github.com/taskpilot-ai/taskpilot/internal/todo"
)

var tokenFlag string

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with your todo list from the terminal",
		Long:  "Runs the message pipeline locally without the HTTP server. The todo API token comes from --token or TODO_API_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
	cmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "todo API bearer token (default $TODO_API_TOKEN)")
	return cmd
}

func runChat() error {
	cfg := initConfig()
	logger := newLogger()

	token := tokenFlag
	if token == "" {
		token = os.Getenv("TODO_API_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no todo API token: pass --token or set TODO_API_TOKEN")
	}

	p, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	if cfg.Model == "" {
		cfg.Model = p.DefaultModel()
	}

	client := todo.NewClient(cfg.TodoAPI.BaseURL, time.Duration(cfg.TodoAPI.TimeoutSeconds)*time.Second)
	store := memory.NewStore(cfg.Memory.MaxSessions, cfg.Memory.MaxMessages)
	pipeline := chain.New(p, client, store, cfg.Model, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Printf("taskpilot chat (%s / %s) — type your message, Ctrl-D to quit\n", p.Name(), cfg.Model)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("you> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, _, err := pipeline.Process(ctx, token, line)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
		fmt.Println()
	}
	if interactive {
		fmt.Println("\nbye")
	}
	return scanner.Err()
}
