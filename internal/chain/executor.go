package chain

import (
	"context"
	"fmt"

	"github.com/taskpilot-ai/taskpilot/internal/intent"
	"github.com/taskpilot-ai/taskpilot/internal/todo"
)

// TodoAPI is the slice of the todo client the executor needs.
type TodoAPI interface {
	List(ctx context.Context, token string) (*todo.TodoList, error)
	GetByID(ctx context.Context, id int, token string) (*todo.TodoItem, error)
	GetByTitle(ctx context.Context, title, token string) (*todo.TodoItem, error)
	Create(ctx context.Context, payload todo.CreatePayload, token string) (*todo.TodoItem, error)
	Update(ctx context.Context, id int, payload todo.UpdatePayload, token string) (*todo.TodoItem, error)
	Delete(ctx context.Context, id int, token string) (*todo.DeleteResult, error)
}

// Execute runs one parsed action against the todo service and classifies the
// outcome. Missing-input and lookup failures come back as status tags, never
// errors; API failures collapse to StatusError with the error text.
func (c *Chain) Execute(ctx context.Context, action intent.Action, token string) (Status, any) {
	switch action.Type {
	case intent.ActionCreate:
		return c.executeCreate(ctx, action, token)
	case intent.ActionUpdate:
		return c.executeUpdate(ctx, action, token)
	case intent.ActionDelete:
		return c.executeDelete(ctx, action, token)
	case intent.ActionGet:
		return c.executeGet(ctx, action, token)
	case intent.ActionList:
		list, err := c.api.List(ctx, token)
		if err != nil {
			return StatusError, errorPayload{Error: err.Error()}
		}
		return StatusListSuccess, list
	default:
		return StatusUnknownAction, errorPayload{Error: fmt.Sprintf("unknown action type: %s", action.Type)}
	}
}

func (c *Chain) executeCreate(ctx context.Context, action intent.Action, token string) (Status, any) {
	if strptr(action.Title) == "" {
		return StatusMissingTitle, errorPayload{Error: "no title provided for new todo"}
	}

	dueDate, err := NormalizeDueDate(strptr(action.DueDate))
	if err != nil {
		return StatusError, errorPayload{Error: err.Error()}
	}

	status := strptr(action.Status)
	if status == "" {
		status = intent.StatusNotStarted
	}

	payload := todo.CreatePayload{
		Title:       *action.Title,
		Description: strptr(action.Description),
		Status:      status,
		DueDate:     dueDate,
		Dependency:  action.Dependency,
	}

	item, err := c.api.Create(ctx, payload, token)
	if err != nil {
		return StatusError, errorPayload{Error: err.Error()}
	}
	return StatusCreateSuccess, item
}

func (c *Chain) executeUpdate(ctx context.Context, action intent.Action, token string) (Status, any) {
	id, status, payload := c.resolveIdentifier(ctx, action, token)
	if status != "" {
		return status, payload
	}

	update := todo.UpdatePayload{
		Title:       action.Title,
		Description: action.Description,
		Status:      action.Status,
		Dependency:  action.Dependency,
	}
	if due := strptr(action.DueDate); due != "" {
		normalized, err := NormalizeDueDate(due)
		if err != nil {
			return StatusError, errorPayload{Error: err.Error()}
		}
		update.DueDate = normalized
	}

	item, err := c.api.Update(ctx, id, update, token)
	if err != nil {
		return StatusError, errorPayload{Error: err.Error()}
	}
	return StatusUpdateSuccess, item
}

func (c *Chain) executeDelete(ctx context.Context, action intent.Action, token string) (Status, any) {
	id, status, payload := c.resolveIdentifier(ctx, action, token)
	if status != "" {
		return status, payload
	}

	res, err := c.api.Delete(ctx, id, token)
	if err != nil {
		return StatusError, errorPayload{Error: err.Error()}
	}
	return StatusDeleteSuccess, res
}

func (c *Chain) executeGet(ctx context.Context, action intent.Action, token string) (Status, any) {
	switch {
	case action.TodoID != nil:
		item, err := c.api.GetByID(ctx, *action.TodoID, token)
		if err != nil {
			return StatusError, errorPayload{Error: err.Error()}
		}
		return StatusGetSuccess, item
	case strptr(action.Title) != "":
		item, err := c.api.GetByTitle(ctx, *action.Title, token)
		if err != nil {
			return StatusError, errorPayload{Error: err.Error()}
		}
		return StatusGetSuccess, item
	default:
		return StatusMissingIdentifier, errorPayload{Error: "no todo id or title provided to get"}
	}
}

// resolveIdentifier yields the target todo id for update/delete. A non-empty
// status means resolution failed and the caller should return it as-is.
func (c *Chain) resolveIdentifier(ctx context.Context, action intent.Action, token string) (int, Status, any) {
	if action.TodoID != nil {
		return *action.TodoID, "", nil
	}

	title := strptr(action.Title)
	if title == "" {
		return 0, StatusMissingIdentifier, errorPayload{Error: "no todo id or title provided"}
	}

	item, err := c.api.GetByTitle(ctx, title, token)
	if err != nil {
		return 0, StatusTodoNotFound, notFoundPayload{
			Error: fmt.Sprintf("could not find todo with title: %s", title),
			Cause: err.Error(),
		}
	}
	return item.Todo.ID, "", nil
}

// strptr dereferences an optional string, empty when nil.
func strptr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
