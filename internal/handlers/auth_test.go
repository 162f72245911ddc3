package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fhemview/internal/service"
)

func postJSON(r http.Handler, target string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	auth := &mockAuth{signUpID: 5}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/auth/sign-up", map[string]any{
		"username":    "alice",
		"password":    "s3cret",
		"permissions": []string{"admin"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["id"] != 5 {
		t.Fatalf("id=%d, want 5", resp["id"])
	}

	// missing required fields → 400
	w = postJSON(r, "/auth/sign-up", map[string]any{"username": "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestSignIn(t *testing.T) {
	auth := &mockAuth{token: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := postJSON(r, "/auth/sign-in", map[string]any{"username": "alice", "password": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["token"] != "tok123" {
		t.Fatalf("token=%q", resp["token"])
	}

	auth.genErr = errors.New("bad credentials")
	w = postJSON(r, "/auth/sign-in", map[string]any{"username": "alice", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad credentials, got %d", w.Code)
	}
}
