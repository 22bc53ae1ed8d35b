package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/railsim/wap7sim/pkg/core"
)

func TestNew(t *testing.T) {
	c := New("http://localhost:5000", "secret123")

	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected baseURL=http://localhost:5000, got %s", c.baseURL)
	}
	if c.apiKey != "secret123" {
		t.Errorf("expected apiKey=secret123, got %s", c.apiKey)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/", "secret")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
	}
}

func TestHealthcheck_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("expected path /healthcheck, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "")
	err := c.Healthcheck()
	if err != nil {
		t.Errorf("Healthcheck failed: %v", err)
	}
}

func TestHealthcheck_ServerDown(t *testing.T) {
	c := New("http://localhost:59999", "") // unlikely to be listening
	err := c.Healthcheck()
	if err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "")
	err := c.Healthcheck()
	if err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestUpload_Success(t *testing.T) {
	var receivedSecret, receivedFilename, receivedSessionName string
	var receivedVersion, receivedRunningTime, receivedDistance string
	var receivedFileContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sessions/add" {
			t.Errorf("expected path /api/v1/sessions/add, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		err := r.ParseMultipartForm(10 << 20)
		if err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}

		receivedSecret = r.FormValue("secret")
		receivedFilename = r.FormValue("filename")
		receivedSessionName = r.FormValue("sessionName")
		receivedVersion = r.FormValue("version")
		receivedRunningTime = r.FormValue("runningTimeS")
		receivedDistance = r.FormValue("distanceM")

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("failed to get form file: %v", err)
		}
		defer file.Close()
		receivedFileContent, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	journalPath := filepath.Join(t.TempDir(), "evening_run.json")
	if err := os.WriteFile(journalPath, []byte(`{"session":{"name":"Evening Run"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(server.URL, "topsecret")
	err := c.Upload(journalPath, core.UploadMetadata{
		SessionName:  "Evening Run",
		Version:      "2.0.0",
		RunningTimeS: 45,
		DistanceM:    500,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if receivedSecret != "topsecret" {
		t.Errorf("expected secret=topsecret, got %s", receivedSecret)
	}
	if receivedFilename != "evening_run.json" {
		t.Errorf("expected filename=evening_run.json, got %s", receivedFilename)
	}
	if receivedSessionName != "Evening Run" {
		t.Errorf("expected sessionName=Evening Run, got %s", receivedSessionName)
	}
	if receivedVersion != "2.0.0" {
		t.Errorf("expected version=2.0.0, got %s", receivedVersion)
	}
	if receivedRunningTime != "45" {
		t.Errorf("expected runningTimeS=45, got %s", receivedRunningTime)
	}
	if receivedDistance != "500" {
		t.Errorf("expected distanceM=500, got %s", receivedDistance)
	}
	if len(receivedFileContent) == 0 {
		t.Error("expected file content, got none")
	}
}

func TestUpload_MissingFile(t *testing.T) {
	c := New("http://localhost:5000", "")
	err := c.Upload("/nonexistent/file.json", core.UploadMetadata{})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUpload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	journalPath := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(journalPath, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(server.URL, "wrong")
	err := c.Upload(journalPath, core.UploadMetadata{})
	if err == nil {
		t.Error("expected error for 403 response")
	}
}
