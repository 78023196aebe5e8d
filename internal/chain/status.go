package chain

import "github.com/taskpilot-ai/taskpilot/internal/intent"

// Status classifies the outcome of executing one action.
type Status string

const (
	StatusCreateSuccess     Status = "create_success"
	StatusUpdateSuccess     Status = "update_success"
	StatusDeleteSuccess     Status = "delete_success"
	StatusGetSuccess        Status = "get_success"
	StatusListSuccess       Status = "list_success"
	StatusMissingTitle      Status = "missing_title"
	StatusMissingIdentifier Status = "missing_identifier"
	StatusTodoNotFound      Status = "todo_not_found"
	StatusUnknownAction     Status = "unknown_action"
	StatusError             Status = "error"
)

// Command is the machine-readable summary attached to every chat reply.
type Command struct {
	Action intent.Action `json:"action"`
	Status Status        `json:"status"`
	Result any           `json:"result"`
}

// errorPayload is the result body for non-success statuses.
type errorPayload struct {
	Error string `json:"error"`
}

// notFoundPayload carries the underlying lookup failure alongside the
// user-facing message, so callers can see why a title did not resolve.
type notFoundPayload struct {
	Error string `json:"error"`
	Cause string `json:"cause"`
}
