// Package intent turns one free-text user message into a structured todo
// action via a single temperature-zero LLM completion.
package intent

// ActionType enumerates the todo operations a message can request.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
	ActionList   ActionType = "list"
	ActionGet    ActionType = "get"
)

// Status values accepted by the todo service.
const (
	StatusNotStarted = "notstarted"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
)

// Action is the structured descriptor extracted from one user message.
// Optional fields stay nil when the message does not mention them; the whole
// descriptor, nulls included, is echoed back in the response summary.
type Action struct {
	Type        ActionType `json:"action_type"`
	TodoID      *int       `json:"todo_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Dependency  *int       `json:"dependency"`
	DueDate     *string    `json:"due_date"`
}

// DefaultAction is the safe fallback when intent extraction fails: listing
// todos never mutates anything.
func DefaultAction() Action {
	return Action{Type: ActionList}
}
