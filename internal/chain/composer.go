package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taskpilot-ai/taskpilot/internal/intent"
	"github.com/taskpilot-ai/taskpilot/internal/memory"
	"github.com/taskpilot-ai/taskpilot/internal/provider"
)

const responsePromptTemplate = `You are a helpful AI assistant integrated with a TODO app.
You can help users manage their TODOs through natural conversation.

Chat history:
%s

User: %s

Action performed: %s
Result: %s

Respond in a natural, conversational way. Be concise but friendly.
Don't mention the technical details of the action unless necessary.
If the action failed, ask for more information or suggest alternatives.
Do not reference the JSON command in your response, it will be attached automatically.`

// composeTemperature keeps replies conversational rather than deterministic.
const composeTemperature = 0.7

// compose asks the model for a short conversational reply about the executed
// action. history is the conversation before the current turn.
func (c *Chain) compose(ctx context.Context, userMessage string, history []memory.Message, action intent.Action, result any) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result for composer: %w", err)
	}

	prompt := fmt.Sprintf(responsePromptTemplate,
		formatHistory(history),
		userMessage,
		action.Type,
		string(resultJSON),
	)

	reply, err := c.provider.Complete(ctx, &provider.CompletionRequest{
		Model: c.model,
		Messages: []provider.Message{
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature: provider.Float(composeTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("response completion: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// formatHistory renders prior turns as "User: ..." / "Ai: ..." lines.
func formatHistory(history []memory.Message) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		role := string(msg.Role)
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		lines = append(lines, role+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
