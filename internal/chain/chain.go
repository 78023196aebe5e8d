// Package chain orchestrates one chat turn: record the message, extract the
// intended todo action, execute it, and compose a conversational reply with a
// machine-readable command summary attached.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/taskpilot-ai/taskpilot/internal/intent"
	"github.com/taskpilot-ai/taskpilot/internal/memory"
	"github.com/taskpilot-ai/taskpilot/internal/provider"
)

// Chain wires the intent parser, action executor and response composer.
type Chain struct {
	provider provider.Provider
	parser   *intent.Parser
	api      TodoAPI
	memory   *memory.Store
	model    string
	logger   *slog.Logger
}

// New creates a Chain. model may be empty to use the provider default.
func New(p provider.Provider, api TodoAPI, store *memory.Store, model string, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		provider: p,
		parser:   intent.NewParser(p, model, logger),
		api:      api,
		memory:   store,
		model:    model,
		logger:   logger,
	}
}

// Process handles one chat turn for the session identified by token.
// It returns the full response text (reply plus fenced JSON command block)
// and the structured command summary. An error here means the reply could
// not be composed at all; action-level failures are reported in the summary
// instead.
func (c *Chain) Process(ctx context.Context, token, userMessage string) (string, *Command, error) {
	c.memory.Add(token, memory.RoleUser, userMessage)
	history := c.memory.History(token)

	action := c.parser.ParseIntent(ctx, userMessage)
	status, result := c.Execute(ctx, action, token)
	c.logger.Info("action executed", "action", action.Type, "status", status)

	command := &Command{Action: action, Status: status, Result: result}

	// All turns before the one just recorded.
	prior := history[:len(history)-1]
	reply, err := c.compose(ctx, userMessage, prior, action, result)
	if err != nil {
		return "", nil, err
	}

	commandJSON, err := json.MarshalIndent(command, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encode command summary: %w", err)
	}
	final := fmt.Sprintf("%s\n\n```json\n%s\n```", reply, commandJSON)

	// Only the conversational part goes back into memory; the JSON block is
	// presentation, not conversation.
	c.memory.Add(token, memory.RoleAI, reply)

	return final, command, nil
}
