package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskpilot-ai/taskpilot/internal/provider"
)

const intentSystemPrompt = "You are a helpful assistant that parses user intent for a TODO app."

const intentPromptTemplate = `You are an AI assistant that helps users manage their TODOs through natural language.
Based on the user's message, determine what action they want to perform with their TODOs.

Here are the possible actions:
- create: Create a new TODO
- update: Update an existing TODO
- delete: Delete a TODO
- list: List all TODOs
- get: Get a specific TODO by ID or title

Status values must be one of: notstarted, inprogress, done

User message: %s

Return a JSON object with the following structure:
{
    "action_type": string (create, update, delete, list, or get),
    "todo_id": number or null,
    "title": string or null,
    "description": string or null,
    "status": string or null,
    "dependency": number or null,
    "due_date": string or null
}

JSON response:`

// ParseError reports model output that could not be decoded as an action
// descriptor. Raw retains the completion text for logging and diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("intent output not parseable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser extracts an Action from a user message.
type Parser struct {
	provider provider.Provider
	model    string
	logger   *slog.Logger
}

// NewParser creates a Parser. model may be empty to use the provider default.
func NewParser(p provider.Provider, model string, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{provider: p, model: model, logger: logger}
}

// Parse issues one deterministic completion and strictly decodes the result.
// Failures are typed: a *ParseError for undecodable output, a wrapped provider
// error for transport failures. No retries.
func (p *Parser) Parse(ctx context.Context, userMessage string) (Action, error) {
	out, err := p.provider.Complete(ctx, &provider.CompletionRequest{
		Model:        p.model,
		SystemPrompt: intentSystemPrompt,
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: fmt.Sprintf(intentPromptTemplate, userMessage)},
		},
		Temperature: provider.Float(0),
	})
	if err != nil {
		return Action{}, fmt.Errorf("intent completion: %w", err)
	}

	var action Action
	raw := stripCodeFence(strings.TrimSpace(out))
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		return Action{}, &ParseError{Raw: out, Err: err}
	}

	// Absent action_type means the model produced an otherwise valid object
	// without committing to an action; treat it as a list request.
	if action.Type == "" {
		action.Type = ActionList
	}
	return action, nil
}

// ParseIntent is the degradation wrapper around Parse: any failure yields the
// safe default list action instead of an error.
func (p *Parser) ParseIntent(ctx context.Context, userMessage string) Action {
	action, err := p.Parse(ctx, userMessage)
	if err != nil {
		p.logger.Warn("intent parse failed, falling back to list", "error", err)
		return DefaultAction()
	}
	return action
}

// stripCodeFence unwraps a Markdown-fenced block (```json ... ```), which
// chat models frequently emit around JSON even when told not to.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
