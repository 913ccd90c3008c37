package download

import (
	"context"

	"github.com/ytget/modelfetch/internal/progress"
)

// Fetcher defines the interface for the download service.
type Fetcher interface {
	// Fetch downloads rawURL into outputPath and returns the number of bytes written.
	Fetch(ctx context.Context, rawURL, outputPath string, reporter progress.Reporter) (int64, error)
}
