package todo

// Todo is the external task entity as serialized by the todo service.
type Todo struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
	Dependency  *int    `json:"dependency"`
}

// TodoItem wraps a single todo; the service envelopes every single-item
// response as {"todo": {...}}.
type TodoItem struct {
	Todo Todo `json:"todo"`
}

// TodoList wraps the list response. The service uses the singular "todo" key
// for the collection as well.
type TodoList struct {
	Todos []Todo `json:"todo"`
}

// DeleteResult is synthesized client-side: the service answers DELETE with an
// empty 204 body.
type DeleteResult struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}

// CreatePayload is the body for POST /todo/.
type CreatePayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
	Dependency  *int    `json:"dependency,omitempty"`
}

// UpdatePayload is the sparse body for PUT /todo/{id}/. Only non-nil fields
// are serialized.
type UpdatePayload struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Dependency  *int    `json:"dependency,omitempty"`
}
