package todo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestList(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/todos/" {
			t.Errorf("expected path /todos/, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"todo": []map[string]any{
				{"id": 1, "title": "Buy milk", "status": "notstarted"},
				{"id": 2, "title": "Walk dog", "status": "done"},
			},
		})
	})
	defer srv.Close()

	list, err := c.List(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(list.Todos))
	}
	if list.Todos[0].Title != "Buy milk" {
		t.Errorf("unexpected first todo: %+v", list.Todos[0])
	}
}

func TestGetByID(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/todo/42/" {
			t.Errorf("expected path /todo/42/, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"todo": map[string]any{"id": 42, "title": "Pay rent", "status": "inprogress"},
		})
	})
	defer srv.Close()

	item, err := c.GetByID(context.Background(), 42, "tok")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item.Todo.ID != 42 || item.Todo.Status != "inprogress" {
		t.Errorf("unexpected todo: %+v", item.Todo)
	}
}

func TestGetByTitleEscapesPath(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/todo/title/Buy%20milk/" {
			t.Errorf("expected escaped title path, got %s", r.URL.EscapedPath())
		}
		json.NewEncoder(w).Encode(map[string]any{
			"todo": map[string]any{"id": 7, "title": "Buy milk", "status": "notstarted"},
		})
	})
	defer srv.Close()

	item, err := c.GetByTitle(context.Background(), "Buy milk", "tok")
	if err != nil {
		t.Fatalf("GetByTitle: %v", err)
	}
	if item.Todo.ID != 7 {
		t.Errorf("unexpected todo id: %d", item.Todo.ID)
	}
}

func TestCreateSendsPayload(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/todo/" {
			t.Errorf("expected POST /todo/, got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["title"] != "Buy milk" {
			t.Errorf("expected title in payload, got %v", body["title"])
		}
		if _, hasDue := body["due_date"]; !hasDue {
			t.Error("expected due_date key present (null allowed)")
		}
		if _, hasDep := body["dependency"]; hasDep {
			t.Error("expected dependency omitted when nil")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"todo": map[string]any{"id": 1, "title": "Buy milk", "status": "notstarted"},
		})
	})
	defer srv.Close()

	item, err := c.Create(context.Background(), CreatePayload{
		Title:       "Buy milk",
		Description: "",
		Status:      "notstarted",
	}, "tok")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.Todo.ID != 1 {
		t.Errorf("unexpected created id: %d", item.Todo.ID)
	}
}

func TestUpdateSparsePayload(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/todo/5/" {
			t.Errorf("expected PUT /todo/5/, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 {
			t.Errorf("expected only the status field, got %v", body)
		}
		if body["status"] != "done" {
			t.Errorf("expected status 'done', got %v", body["status"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"todo": map[string]any{"id": 5, "title": "t", "status": "done"},
		})
	})
	defer srv.Close()

	status := "done"
	item, err := c.Update(context.Background(), 5, UpdatePayload{Status: &status}, "tok")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if item.Todo.Status != "done" {
		t.Errorf("unexpected updated status: %q", item.Todo.Status)
	}
}

func TestDeleteSynthesizesResult(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/todo/9/" {
			t.Errorf("expected DELETE /todo/9/, got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	res, err := c.Delete(context.Background(), 9, "tok")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.Status != "deleted" || res.ID != 9 {
		t.Errorf("unexpected delete result: %+v", res)
	}
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	})
	defer srv.Close()

	_, err := c.GetByID(context.Background(), 1, "tok")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"detail":"Not found."}` {
		t.Errorf("expected body preserved, got %q", apiErr.Body)
	}
}

func TestTransportErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	if _, err := c.List(context.Background(), "tok"); err == nil {
		t.Fatal("expected transport error")
	}
}
