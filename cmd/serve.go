package cmd

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/taskpilot-ai/taskpilot/internal/chain"
	"github.com/taskpilot-ai/taskpilot/internal/memory"
	"github.com/taskpilot-ai/taskpilot/internal/server"
	"github.com/taskpilot-ai/taskpilot/internal/todo"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	cmd.Flags().StringVarP(&addrFlag, "addr", "a", "", "listen address (default :5000)")
	return cmd
}

// runServe wires the pipeline and serves it over HTTP.
func runServe() error {
	cfg := initConfig()
	logger := newLogger()

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

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(pipeline, logger)
	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"provider", p.Name(),
		"model", cfg.Model,
		"todo_api", cfg.TodoAPI.BaseURL,
	)
	if err := srv.Run(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
