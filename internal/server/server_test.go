package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chatmesh/chatd/internal/config"
	"github.com/chatmesh/chatd/internal/domain"
	"github.com/chatmesh/chatd/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:        "0",
		CORSOrigins: []string{"*"},
	}
	return New(cfg, store.NewMemory(), nil, nil).routes()
}

func doRequest(t *testing.T, h http.Handler, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func createProject(t *testing.T, h http.Handler, name string) domain.Project {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/projects/", nil, map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: status %d body %s", rec.Code, rec.Body.String())
	}
	var p domain.Project
	decodeBody(t, rec, &p)
	return p
}

func authHeaders(p domain.Project) map[string]string {
	return map[string]string{
		"X-Project-Id": p.ID,
		"X-Api-Key":    p.APIKey,
	}
}

func TestProjectCRUD(t *testing.T) {
	h := newTestServer(t)

	p := createProject(t, h, "acme")
	if p.ID == "" || len(p.APIKey) != domain.APIKeyLength {
		t.Fatalf("unexpected project: %+v", p)
	}

	rec := doRequest(t, h, http.MethodGet, "/projects/"+p.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get project: status %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/projects/"+p.ID, nil, map[string]string{"name": "acme2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update project: status %d body %s", rec.Code, rec.Body.String())
	}
	var updated domain.Project
	decodeBody(t, rec, &updated)
	if updated.Name != "acme2" {
		t.Fatalf("name = %q, want acme2", updated.Name)
	}
	if updated.APIKey != p.APIKey {
		t.Fatal("partial update must not touch the api key")
	}

	rec = doRequest(t, h, http.MethodDelete, "/projects/"+p.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete project: status %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/projects/"+p.ID, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}

	// Deleting an unknown id still succeeds.
	rec = doRequest(t, h, http.MethodDelete, "/projects/"+p.ID, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second delete: status %d, want 200", rec.Code)
	}
}

func TestProjectCreateValidation(t *testing.T) {
	h := newTestServer(t)
	rec := doRequest(t, h, http.MethodPost, "/projects/", nil, map[string]string{"name": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestTenantAuth(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	// No credentials.
	rec := doRequest(t, h, http.MethodGet, "/chats", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no credentials: status %d, want 401", rec.Code)
	}

	// Wrong key.
	rec = doRequest(t, h, http.MethodGet, "/chats", map[string]string{
		"X-Project-Id": p.ID,
		"X-Api-Key":    "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status %d, want 401", rec.Code)
	}

	// Unknown project.
	rec = doRequest(t, h, http.MethodGet, "/chats", map[string]string{
		"X-Project-Id": "nope",
		"X-Api-Key":    p.APIKey,
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown project: status %d, want 401", rec.Code)
	}

	// Valid credentials.
	rec = doRequest(t, h, http.MethodGet, "/chats", authHeaders(p), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid credentials: status %d, want 200", rec.Code)
	}
}

type chatResponse struct {
	Chat    domain.Chat `json:"chat"`
	Existed bool        `json:"existed"`
}

func TestDirectChatFlow(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	rec := doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p), map[string]string{
		"user_a": "alice", "user_b": "bob",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create direct: status %d body %s", rec.Code, rec.Body.String())
	}
	var first chatResponse
	decodeBody(t, rec, &first)
	if first.Existed {
		t.Fatal("fresh pair reported existed=true")
	}

	// Append two messages.
	for _, text := range []string{"hi", "hello"} {
		rec = doRequest(t, h, http.MethodPost, "/chats/"+first.Chat.ID+"/messages", authHeaders(p), map[string]string{
			"sender_id": "alice", "text": text,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("append %q: status %d body %s", text, rec.Code, rec.Body.String())
		}
	}

	rec = doRequest(t, h, http.MethodGet, "/chats/"+first.Chat.ID+"/messages", authHeaders(p), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list messages: status %d", rec.Code)
	}
	var listed struct {
		Messages []domain.Message `json:"messages"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Messages) != 2 || listed.Messages[0].Text != "hi" || listed.Messages[1].Text != "hello" {
		t.Fatalf("messages out of order: %+v", listed.Messages)
	}

	// The reversed pair resolves to the same chat.
	rec = doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p), map[string]string{
		"user_a": "bob", "user_b": "alice",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat direct: status %d, want 200", rec.Code)
	}
	var second chatResponse
	decodeBody(t, rec, &second)
	if !second.Existed || second.Chat.ID != first.Chat.ID {
		t.Fatalf("repeat direct = %+v, want existed chat %s", second, first.Chat.ID)
	}
}

func TestDirectChatValidation(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	for _, tc := range []map[string]string{
		{"user_a": "alice", "user_b": "alice"},
		{"user_a": "", "user_b": "bob"},
		{"user_a": " alice ", "user_b": "alice"},
	} {
		rec := doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p), tc)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("pair %v: status %d, want 400", tc, rec.Code)
		}
	}
}

func TestGroupChat(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	rec := doRequest(t, h, http.MethodPost, "/chats/group", authHeaders(p), map[string]any{
		"users": []string{"carol", "alice", "bob", "alice"},
		"title": "standup",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: status %d body %s", rec.Code, rec.Body.String())
	}
	var c domain.Chat
	decodeBody(t, rec, &c)
	if len(c.Users) != 3 || c.Users[0] != "alice" || c.Users[2] != "carol" {
		t.Fatalf("users = %v, want deduped sorted [alice bob carol]", c.Users)
	}

	rec = doRequest(t, h, http.MethodPost, "/chats/group", authHeaders(p), map[string]any{
		"users": []string{"alice"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("single-member group: status %d, want 400", rec.Code)
	}
}

func TestCrossTenantChatAccess(t *testing.T) {
	h := newTestServer(t)
	p1 := createProject(t, h, "one")
	p2 := createProject(t, h, "two")

	rec := doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p1), map[string]string{
		"user_a": "alice", "user_b": "bob",
	})
	var created chatResponse
	decodeBody(t, rec, &created)

	// The other tenant cannot read the chat or its messages.
	rec = doRequest(t, h, http.MethodGet, "/chats/"+created.Chat.ID, authHeaders(p2), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("cross-tenant get: status %d, want 401", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/chats/"+created.Chat.ID+"/messages", authHeaders(p2), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("cross-tenant messages: status %d, want 401", rec.Code)
	}

	// The same pair in the other tenant gets its own chat.
	rec = doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p2), map[string]string{
		"user_a": "alice", "user_b": "bob",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("other tenant create: status %d, want 201", rec.Code)
	}
	var other chatResponse
	decodeBody(t, rec, &other)
	if other.Chat.ID == created.Chat.ID {
		t.Fatal("chat deduped across tenants")
	}
}

func TestMessageValidation(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	rec := doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p), map[string]string{
		"user_a": "alice", "user_b": "bob",
	})
	var created chatResponse
	decodeBody(t, rec, &created)

	rec = doRequest(t, h, http.MethodPost, "/chats/"+created.Chat.ID+"/messages", authHeaders(p), map[string]string{
		"sender_id": "", "text": "hi",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty sender: status %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/chats/missing/messages", authHeaders(p), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing chat: status %d, want 404", rec.Code)
	}
}

func TestDeviceEndpoints(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	rec := doRequest(t, h, http.MethodPost, "/devices", authHeaders(p), map[string]string{
		"user_id": "alice", "token": "tok-1", "platform": "ios",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register device: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, http.MethodGet, "/devices?user_id=alice", authHeaders(p), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list devices: status %d", rec.Code)
	}
	var listed struct {
		Devices []domain.Device `json:"devices"`
		Count   int             `json:"count"`
	}
	decodeBody(t, rec, &listed)
	if listed.Count != 1 || listed.Devices[0].Token != "tok-1" {
		t.Fatalf("devices = %+v", listed)
	}

	rec = doRequest(t, h, http.MethodGet, "/devices", authHeaders(p), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("list without user_id: status %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}

	// Both dependencies disabled: ready reports ok.
	rec = doRequest(t, h, http.MethodGet, "/ready", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardPages(t *testing.T) {
	h := newTestServer(t)
	p := createProject(t, h, "acme")

	rec := doRequest(t, h, http.MethodPost, "/chats/direct", authHeaders(p), map[string]string{
		"user_a": "alice", "user_b": "bob",
	})
	var created chatResponse
	decodeBody(t, rec, &created)
	doRequest(t, h, http.MethodPost, "/chats/"+created.Chat.ID+"/messages", authHeaders(p), map[string]string{
		"sender_id": "alice", "text": "hi",
	})

	for _, path := range []string{
		"/dashboard/projects",
		"/dashboard/chats?project_id=" + p.ID,
		"/dashboard/messages?chat_id=" + created.Chat.ID,
	} {
		rec := doRequest(t, h, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Fatalf("%s: content type %q", path, ct)
		}
	}

	rec = doRequest(t, h, http.MethodGet, "/dashboard/chats", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("chats without project_id: status %d, want 400", rec.Code)
	}
}
