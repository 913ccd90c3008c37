package model

import (
	"strings"
	"testing"
)

func TestNewDownloadRequest(t *testing.T) {
	req := NewDownloadRequest("https://example.com/data.json", "./models", "llama", "")

	if req.URL != "https://example.com/data.json" {
		t.Errorf("Expected URL to be 'https://example.com/data.json', got '%s'", req.URL)
	}
	if req.Directory != "./models" {
		t.Errorf("Expected Directory to be './models', got '%s'", req.Directory)
	}
	if req.ModelName != "llama" {
		t.Errorf("Expected ModelName to be 'llama', got '%s'", req.ModelName)
	}
	if req.Filename != "" {
		t.Errorf("Expected empty Filename, got '%s'", req.Filename)
	}
}

func TestGenerateRequestID(t *testing.T) {
	id1 := generateRequestID()
	id2 := generateRequestID()

	if id1 == id2 {
		t.Error("Expected different request IDs")
	}

	if !strings.HasPrefix(id1, RequestIDPrefix) {
		t.Errorf("Expected ID to start with '%s', got: %s", RequestIDPrefix, id1)
	}

	// prefix + 36 chars of UUID
	if len(id1) != len(RequestIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(RequestIDPrefix)+36, len(id1), id1)
	}
}

func TestDownloadRequest_String(t *testing.T) {
	req := &DownloadRequest{ID: "download-1", URL: "https://example.com/a.bin", Directory: ".", ModelName: "m"}
	expected := "download-1 url=https://example.com/a.bin dir=. model=m"
	if req.String() != expected {
		t.Errorf("Expected %q, got %q", expected, req.String())
	}
}
