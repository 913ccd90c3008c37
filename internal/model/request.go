package model

import (
	"fmt"

	"github.com/google/uuid"
)

// RequestIDPrefix prefixes every generated request ID
const RequestIDPrefix = "download-"

// DownloadRequest represents a single invocation of the downloader
type DownloadRequest struct {
	ID        string
	URL       string
	Directory string // destination folder, created if missing
	ModelName string // accepted for CLI compatibility, not used by the pipeline
	Filename  string // explicit output name, empty to derive it from the URL
}

// NewDownloadRequest creates a request with a fresh ID
func NewDownloadRequest(url, directory, modelName, filename string) *DownloadRequest {
	return &DownloadRequest{
		ID:        generateRequestID(),
		URL:       url,
		Directory: directory,
		ModelName: modelName,
		Filename:  filename,
	}
}

// String implements fmt.Stringer for log lines
func (r *DownloadRequest) String() string {
	return fmt.Sprintf("%s url=%s dir=%s model=%s", r.ID, r.URL, r.Directory, r.ModelName)
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return RequestIDPrefix + uuid.NewString()
}
