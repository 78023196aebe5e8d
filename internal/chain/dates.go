package chain

import (
	"fmt"
	"strings"
	"time"
)

// dueDateLayouts are the accepted date-only input formats, tried in order.
// Day-first wins for inputs that satisfy both slash layouts, matching the
// todo service's existing clients.
var dueDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
}

// NormalizeDueDate converts a user-supplied due date to the ISO-8601 UTC
// midnight timestamp the todo service expects.
//
//	""             -> nil (no due date)
//	"2024-03-05"   -> "2024-03-05T00:00:00Z"
//	"05/03/2024"   -> "2024-03-05T00:00:00Z"
//	ISO-Z input    -> unchanged (idempotent)
//
// Anything else is an error: substituting a guessed date would silently
// corrupt the task.
func NormalizeDueDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.UTC().Format(time.RFC3339)
			return &out, nil
		}
	}

	if strings.Contains(s, "T") && strings.Contains(s, "Z") {
		return &s, nil
	}

	return nil, fmt.Errorf("unrecognized due date %q: expected YYYY-MM-DD, DD/MM/YYYY, MM/DD/YYYY or an ISO-8601 UTC timestamp", s)
}
