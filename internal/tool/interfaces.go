package tool

import (
	"context"

	"github.com/ytget/modelfetch/internal/model"
)

// Locator finds an executable by name.
type Locator interface {
	Locate(name string) (string, bool)
}

// Runner executes a located binary and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) model.ToolOutcome
}
