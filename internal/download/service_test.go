package download

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/modelfetch/internal/model"
	"github.com/ytget/modelfetch/internal/progress"
)

// recordingReporter keeps every progress event for inspection
type recordingReporter struct {
	mode     progress.Mode
	advances []int64
	finished []string
}

func (r *recordingReporter) Start(mode progress.Mode) { r.mode = mode }
func (r *recordingReporter) Advance(n int64)          { r.advances = append(r.advances, n) }
func (r *recordingReporter) Finish(msg string)        { r.finished = append(r.finished, msg) }

func (r *recordingReporter) total() int64 {
	var sum int64
	for _, n := range r.advances {
		sum += n
	}
	return sum
}

func randomBody(t *testing.T, size int) []byte {
	t.Helper()
	body := make([]byte, size)
	rand.New(rand.NewSource(42)).Read(body)
	return body
}

func TestNewService(t *testing.T) {
	service := NewService(nil, 0)

	assert.Equal(t, http.DefaultClient, service.client)
	assert.Equal(t, DefaultChunkSize, service.chunkSize)

	service = NewService(&http.Client{}, 7)
	assert.Equal(t, 7, service.chunkSize)
}

func TestFetch_KnownLength(t *testing.T) {
	body := randomBody(t, 100_003)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "data.bin")
	reporter := &recordingReporter{}

	written, err := NewService(server.Client(), 4096).Fetch(context.Background(), server.URL+"/data.bin", output, reporter)
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), written)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(body, data), "file content differs from response body")

	assert.Equal(t, progress.Determinate{Total: int64(len(body))}, reporter.mode)
	assert.Equal(t, int64(len(body)), reporter.total())
	for _, n := range reporter.advances {
		assert.LessOrEqual(t, n, int64(4096))
	}
	assert.Equal(t, []string{progress.CompleteMessage}, reporter.finished)
}

func TestFetch_ReachesTotalOnLastChunk(t *testing.T) {
	body := randomBody(t, 10_000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "out.bin")
	reporter := &recordingReporter{}

	_, err := NewService(server.Client(), 999).Fetch(context.Background(), server.URL, output, reporter)
	require.NoError(t, err)
	require.NotEmpty(t, reporter.advances)

	var running int64
	for i, n := range reporter.advances {
		running += n
		if i < len(reporter.advances)-1 {
			assert.Less(t, running, int64(len(body)))
		}
	}
	assert.Equal(t, int64(len(body)), running)
}

func TestFetch_UnknownLength(t *testing.T) {
	parts := [][]byte{[]byte("first-"), []byte("second-"), []byte("third")}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, p := range parts {
			_, _ = w.Write(p)
			flusher.Flush()
		}
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "stream.txt")
	reporter := &recordingReporter{}

	written, err := NewService(server.Client(), 3).Fetch(context.Background(), server.URL, output, reporter)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "first-second-third", string(data))
	assert.Equal(t, int64(len(data)), written)
	assert.Equal(t, progress.Indeterminate{}, reporter.mode)
	assert.Equal(t, written, reporter.total())
}

func TestFetch_TruncatesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new"))
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "existing.txt")
	require.NoError(t, os.WriteFile(output, []byte("much longer old content"), 0644))

	_, err := NewService(server.Client(), 0).Fetch(context.Background(), server.URL, output, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFetch_HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "missing.json")
	reporter := &recordingReporter{}

	written, err := NewService(server.Client(), 0).Fetch(context.Background(), server.URL+"/missing.json", output, reporter)
	require.Error(t, err)
	assert.Zero(t, written)
	assert.True(t, errors.Is(err, model.ErrHTTPStatus))
	assert.Equal(t, 404, model.HTTPStatusCode(err))

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output file may be created for a failed status")
	assert.Nil(t, reporter.mode, "progress must not start for a failed status")
}

func TestFetch_NetworkErrorMidStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Declare more than is sent so the connection ends early
		w.Header().Set("Content-Length", "1000")
		_, _ = w.Write([]byte("partial"))
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "partial.bin")
	reporter := &recordingReporter{}

	written, err := NewService(server.Client(), 0).Fetch(context.Background(), server.URL, output, reporter)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNetwork), "got %v", err)

	// Partial content stays on disk
	data, readErr := os.ReadFile(output)
	require.NoError(t, readErr)
	assert.Equal(t, written, int64(len(data)))
	assert.Equal(t, []string{FailedMessage}, reporter.finished)
}

func TestFetch_NetworkErrorOnRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	output := filepath.Join(t.TempDir(), "never.bin")
	_, err := NewService(nil, 0).Fetch(context.Background(), url, output, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNetwork), "got %v", err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_OutputFileError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "no", "such", "dir", "file.bin")
	_, err := NewService(server.Client(), 0).Fetch(context.Background(), server.URL, output, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrIO), "got %v", err)
}

func TestStream_PreservesOrderAcrossChunkSizes(t *testing.T) {
	body := randomBody(t, 5000)
	for _, size := range []int{1, 7, 512, 4999, 5000, 8192} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			var out bytes.Buffer
			reporter := &recordingReporter{}
			service := NewService(nil, size)

			written, err := service.stream(bytes.NewReader(body), &out, reporter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(body)), written)
			assert.True(t, bytes.Equal(body, out.Bytes()))
			assert.Equal(t, written, reporter.total())
		})
	}
}
