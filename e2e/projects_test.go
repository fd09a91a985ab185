package e2e

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestProjectCreate_Success(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/projects/", `{"title": "Friday stream"}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusCreated)

	result := parseJSON(t, resp)
	if result["id"] == nil || result["id"] == "" {
		t.Error("expected 'id' in response")
	}
	if result["title"] != "Friday stream" {
		t.Errorf("expected title 'Friday stream', got %v", result["title"])
	}
	if result["status"] != "created" {
		t.Errorf("expected status 'created', got %v", result["status"])
	}
	if result["ownerId"] != "test-user-123" {
		t.Errorf("expected owner from token, got %v", result["ownerId"])
	}
}

func TestProjectCreate_NoAuth(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/projects/", `{"title": "x"}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestProjectCreate_MissingTitle(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/projects/", `{}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestProjectGet_Success(t *testing.T) {
	ta := setupApp(t)
	projectID := createTestProject(t, ta)

	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/projects/"+projectID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	if result["id"] != projectID {
		t.Errorf("expected id %s, got %v", projectID, result["id"])
	}
}

func TestProjectGet_NotFound(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/projects/"+uuid.New().String(), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusNotFound)
}
