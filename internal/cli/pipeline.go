package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/ytget/modelfetch/internal/console"
	"github.com/ytget/modelfetch/internal/download"
	"github.com/ytget/modelfetch/internal/model"
	"github.com/ytget/modelfetch/internal/platform"
	"github.com/ytget/modelfetch/internal/progress"
	"github.com/ytget/modelfetch/internal/tool"
)

// Result summarizes a completed pipeline run
type Result struct {
	OutputPath     string // canonical path of the downloaded file
	DescriptorPath string // canonical path of the descriptor
	BytesWritten   int64
	Tool           model.ToolOutcome
}

// Pipeline runs resolve, fetch, describe and install for one request
type Pipeline struct {
	resolver    *platform.Resolver
	fetcher     download.Fetcher
	invoker     *tool.Invoker
	console     *console.Console
	toolName    string
	newReporter func(outputPath string) progress.Reporter
}

// NewPipeline wires the pipeline stages together
func NewPipeline(resolver *platform.Resolver, fetcher download.Fetcher, invoker *tool.Invoker, c *console.Console, toolName string) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		fetcher:  fetcher,
		invoker:  invoker,
		console:  c,
		toolName: toolName,
		newReporter: func(string) progress.Reporter {
			return progress.Nop{}
		},
	}
}

// SetReporterFactory sets how progress reporters are created per download
func (p *Pipeline) SetReporterFactory(factory func(outputPath string) progress.Reporter) {
	p.newReporter = factory
}

// Run executes the pipeline. Failures before the tool step are returned;
// the tool step only reports its outcome.
func (p *Pipeline) Run(ctx context.Context, req *model.DownloadRequest) (*Result, error) {
	log.Printf("Starting %s", req)

	outputPath, err := p.resolver.ResolveOutputPath(req.URL, req.Directory, req.Filename)
	if err != nil {
		return nil, err
	}

	written, err := p.fetcher.Fetch(ctx, req.URL, outputPath, p.newReporter(outputPath))
	if err != nil {
		return nil, err
	}

	absOutput, err := platform.CanonicalPath(outputPath)
	if err != nil {
		return nil, err
	}
	p.console.Info(fmt.Sprintf("Downloaded '%s' => '%s'", req.URL, absOutput))

	content, err := platform.DescriptorContent(absOutput)
	if err != nil {
		return nil, err
	}
	descriptor, err := platform.WriteDescriptor(platform.DescriptorPath(req.Directory), []byte(content))
	if err != nil {
		return nil, err
	}
	p.console.Info(fmt.Sprintf("Successfully created file '%s'", descriptor))

	return &Result{
		OutputPath:     absOutput,
		DescriptorPath: descriptor,
		BytesWritten:   written,
		Tool:           p.install(ctx, absOutput, descriptor),
	}, nil
}

// install hands the descriptor to the external tool and reports the outcome
func (p *Pipeline) install(ctx context.Context, outputPath, descriptor string) model.ToolOutcome {
	outcome := p.invoker.LocateAndRun(ctx, p.toolName, descriptor, func(string) {
		p.console.Info(fmt.Sprintf("Installing file %s...", outputPath))
	})

	switch outcome.Status {
	case model.ToolStatusNotFound:
		p.console.Warning(fmt.Sprintf("Could not find '%s' executable in PATH", p.toolName))
	case model.ToolStatusSucceeded:
		p.console.Info(outcome.Stdout)
	case model.ToolStatusFailed:
		p.console.Error(fmt.Sprintf("error (code %d): %s", outcome.ExitCode, outcome.Stderr))
	case model.ToolStatusSpawnFailed:
		p.console.Error(outcome.Err.Error())
	}
	if outcome.Status.IsFailure() {
		log.Printf("Tool step failed, keeping %s: %v", descriptor, outcome.Err)
	}
	return outcome
}
