package e2e

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
)

// doUploadRequest posts a multipart form with an optional video file part.
func doUploadRequest(t *testing.T, ta *testApp, projectID, filename, contentType string, data []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if projectID != "" {
		if err := writer.WriteField("projectId", projectID); err != nil {
			t.Fatalf("failed to write projectId field: %v", err)
		}
	}

	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write file data: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload/source", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+generateToken(t))

	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	return resp
}

func TestUploadSource_Success(t *testing.T) {
	ta := setupApp(t)
	projectID := createTestProject(t, ta)

	resp := doUploadRequest(t, ta, projectID, "match.mp4", "video/mp4", []byte("fake video bytes"))
	assertStatus(t, resp, http.StatusCreated)

	result := parseJSON(t, resp)
	if result["fileId"] == nil || result["fileId"] == "" {
		t.Error("expected 'fileId' in response")
	}
	if result["size"] != float64(len("fake video bytes")) {
		t.Errorf("expected size %d, got %v", len("fake video bytes"), result["size"])
	}
}

func TestUploadSource_MissingProjectID(t *testing.T) {
	ta := setupApp(t)

	resp := doUploadRequest(t, ta, "", "match.mp4", "video/mp4", []byte("data"))
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestUploadSource_MissingFile(t *testing.T) {
	ta := setupApp(t)
	projectID := createTestProject(t, ta)

	resp := doUploadRequest(t, ta, projectID, "", "", nil)
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestUploadSource_UnknownProject(t *testing.T) {
	ta := setupApp(t)

	resp := doUploadRequest(t, ta, uuid.New().String(), "match.mp4", "video/mp4", []byte("data"))
	assertStatus(t, resp, http.StatusNotFound)
}

func TestUploadSource_UnsupportedFormat(t *testing.T) {
	ta := setupApp(t)
	projectID := createTestProject(t, ta)

	resp := doUploadRequest(t, ta, projectID, "notes.txt", "text/plain", []byte("plain text"))
	assertStatus(t, resp, http.StatusBadRequest)
}
