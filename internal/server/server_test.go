package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskpilot-ai/taskpilot/internal/chain"
	"github.com/taskpilot-ai/taskpilot/internal/intent"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockProcessor implements Processor for handler tests.
type mockProcessor struct {
	ProcessFunc func(ctx context.Context, token, message string) (string, *chain.Command, error)
}

func (m *mockProcessor) Process(ctx context.Context, token, message string) (string, *chain.Command, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, token, message)
	}
	return "", nil, errors.New("unexpected Process call")
}

func doChat(t *testing.T, s *Server, authHeader, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestChatSuccess(t *testing.T) {
	var gotToken, gotMessage string
	s := NewServer(&mockProcessor{
		ProcessFunc: func(_ context.Context, token, message string) (string, *chain.Command, error) {
			gotToken, gotMessage = token, message
			return "All done!", &chain.Command{
				Action: intent.Action{Type: intent.ActionList},
				Status: chain.StatusListSuccess,
			}, nil
		},
	}, nil)

	w := doChat(t, s, "Bearer tok123", `{"message":"show my tasks"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotToken != "tok123" {
		t.Errorf("expected token forwarded, got %q", gotToken)
	}
	if gotMessage != "show my tasks" {
		t.Errorf("expected message forwarded, got %q", gotMessage)
	}

	var resp struct {
		Response string `json:"response"`
		Commands struct {
			Status string `json:"status"`
			Action struct {
				Type string `json:"action_type"`
			} `json:"action"`
		} `json:"commands"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "All done!" {
		t.Errorf("unexpected response text: %q", resp.Response)
	}
	if resp.Commands.Status != "list_success" || resp.Commands.Action.Type != "list" {
		t.Errorf("unexpected commands: %+v", resp.Commands)
	}
}

func TestChatRejectsMissingToken(t *testing.T) {
	s := NewServer(&mockProcessor{}, nil)

	for name, header := range map[string]string{
		"no header":       "",
		"wrong scheme":    "Token abc",
		"empty bearer":    "Bearer ",
		"bare bearer tag": "Bearer",
	} {
		w := doChat(t, s, header, `{"message":"hi"}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, w.Code)
		}
	}
}

func TestChatRejectsBadBody(t *testing.T) {
	s := NewServer(&mockProcessor{}, nil)

	w := doChat(t, s, "Bearer tok", `{"message":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestChatProcessorError(t *testing.T) {
	s := NewServer(&mockProcessor{
		ProcessFunc: func(context.Context, string, string) (string, *chain.Command, error) {
			return "", nil, errors.New("llm unreachable")
		},
	}, nil)

	w := doChat(t, s, "Bearer tok", `{"message":"hi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); bytes.Contains([]byte(body), []byte("llm unreachable")) {
		t.Error("internal error detail must not leak to the client")
	}
}

func TestHealthz(t *testing.T) {
	s := NewServer(&mockProcessor{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer(&mockProcessor{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected permissive CORS origin, got %q", origin)
	}
}

func TestTokenFingerprintStableAndShort(t *testing.T) {
	a := tokenFingerprint("secret-token")
	b := tokenFingerprint("secret-token")
	if a != b {
		t.Error("fingerprint must be stable for the same token")
	}
	if len(a) != 8 {
		t.Errorf("expected 8-char fingerprint, got %q", a)
	}
	if a == tokenFingerprint("other-token") {
		t.Error("distinct tokens should produce distinct fingerprints")
	}
}
