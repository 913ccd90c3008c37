package download

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/ytget/modelfetch/internal/model"
	"github.com/ytget/modelfetch/internal/platform"
	"github.com/ytget/modelfetch/internal/progress"
)

// Streaming constants
const (
	DefaultChunkSize = 32 * 1024
	FailedMessage    = "download failed"
)

// Service handles download operations
type Service struct {
	client    *http.Client
	chunkSize int
}

// NewService creates a new download service. A nil client means
// http.DefaultClient; a non-positive chunk size means DefaultChunkSize.
func NewService(client *http.Client, chunkSize int) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Service{
		client:    client,
		chunkSize: chunkSize,
	}
}

// Fetch downloads rawURL into outputPath. The output file is only created
// once the response status is known to be a success; on a mid-stream failure
// the partial file is left on disk.
func (s *Service) Fetch(ctx context.Context, rawURL, outputPath string, reporter progress.Reporter) (int64, error) {
	if reporter == nil {
		reporter = progress.Nop{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, model.NewError(model.KindInvalidURL, "failed to build request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, model.NewError(model.KindNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	log.Printf("GET %s: %s (content length %d)", rawURL, resp.Status, resp.ContentLength)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, model.NewHTTPStatusError(resp.StatusCode)
	}

	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, platform.DefaultFilePermissions)
	if err != nil {
		return 0, model.NewError(model.KindIO, "failed to create output file", err)
	}

	reporter.Start(progress.ModeForLength(resp.ContentLength))

	written, err := s.stream(resp.Body, f, reporter)
	if err != nil {
		f.Close()
		reporter.Finish(FailedMessage)
		log.Printf("Download of %s stopped after %d bytes: %v", rawURL, written, err)
		return written, err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		reporter.Finish(FailedMessage)
		return written, model.NewError(model.KindIO, "failed to flush output file", err)
	}
	if err := f.Close(); err != nil {
		reporter.Finish(FailedMessage)
		return written, model.NewError(model.KindIO, "failed to close output file", err)
	}

	reporter.Finish(progress.CompleteMessage)
	log.Printf("Wrote %d bytes to %s", written, outputPath)
	return written, nil
}

// stream copies body to w one chunk at a time, in arrival order, advancing
// the reporter after each chunk is on disk.
func (s *Service) stream(body io.Reader, w io.Writer, reporter progress.Reporter) (int64, error) {
	buf := make([]byte, s.chunkSize)
	var written int64

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return written, model.NewError(model.KindIO, "failed to write output file", err)
			}
			written += int64(n)
			reporter.Advance(int64(n))
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, model.NewError(model.KindNetwork, "failed to read response body", readErr)
		}
	}
}
