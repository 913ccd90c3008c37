package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ytget/modelfetch/internal/config"
	"github.com/ytget/modelfetch/internal/console"
	"github.com/ytget/modelfetch/internal/download"
	"github.com/ytget/modelfetch/internal/model"
	"github.com/ytget/modelfetch/internal/platform"
	"github.com/ytget/modelfetch/internal/progress"
	"github.com/ytget/modelfetch/internal/tool"
)

// Process exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Application metadata
const (
	AppName   = "modelfetch"
	LogPrefix = AppName + ": "
)

// Dependencies are the collaborators of the root command. Zero values
// select the real implementations.
type Dependencies struct {
	Version  string
	Console  *console.Console
	Settings *config.Settings
	Client   *http.Client
	Resolver *platform.Resolver
	Locator  tool.Locator
	Runner   tool.Runner
}

func (d *Dependencies) withDefaults() {
	if d.Version == "" {
		d.Version = "dev"
	}
	if d.Console == nil {
		d.Console = console.Stdio()
	}
	if d.Settings == nil {
		d.Settings = config.Load()
	}
	if d.Resolver == nil {
		d.Resolver = platform.NewResolver()
	}
}

type options struct {
	directory string
	modelName string
	filename  string
	verbose   bool
	quiet     bool
}

// NewRootCommand creates the modelfetch command
func NewRootCommand(deps Dependencies) *cobra.Command {
	deps.withDefaults()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   AppName + " <url>",
		Short: "Download a model file and register it with the local model tool",
		Long: `modelfetch streams the content at <url> into a file inside the destination
directory, writes a ModelFile descriptor next to it ("FROM <absolute path>")
and, when the model tool is found in PATH, runs it with "-f <ModelFile>".

A missing or failing model tool is reported but does not fail the command.`,
		Version:       deps.Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(deps.Console.Err, opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateURL(args[0]); err != nil {
				return err
			}

			settings := deps.Settings
			if cmd.Flags().Changed("directory") {
				settings.SetDownloadDirectory(opts.directory)
			}
			if cmd.Flags().Changed("quiet") {
				settings.SetQuiet(opts.quiet)
			}

			req := model.NewDownloadRequest(args[0], settings.GetDownloadDirectory(), opts.modelName, opts.filename)
			log.SetPrefix(LogPrefix + req.ID + " ")

			pipeline := NewPipeline(
				deps.Resolver,
				download.NewService(deps.Client, settings.GetChunkSize()),
				tool.NewInvoker(deps.Locator, deps.Runner),
				deps.Console,
				settings.GetToolName(),
			)
			if !settings.GetQuiet() {
				pipeline.SetReporterFactory(func(outputPath string) progress.Reporter {
					return progress.NewBar(deps.Console.Err, "downloading "+filepath.Base(outputPath))
				})
			}

			_, err := pipeline.Run(cmd.Context(), req)
			return err
		},
	}

	cmd.SetOut(deps.Console.Out)
	cmd.SetErr(deps.Console.Err)

	flags := cmd.Flags()
	flags.StringVarP(&opts.directory, "directory", "d", deps.Settings.GetDownloadDirectory(), "Destination folder (created if it does not exist)")
	flags.StringVarP(&opts.modelName, "model-name", "m", "", "Name of the model")
	flags.StringVarP(&opts.filename, "filename", "f", "", "Name of the file to write inside the destination folder (derived from the URL when omitted)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print diagnostic log lines to stderr")
	flags.BoolVarP(&opts.quiet, "quiet", "q", deps.Settings.GetQuiet(), "Do not display download progress")
	_ = cmd.MarkFlagRequired("model-name")
	_ = cmd.MarkFlagFilename("directory")

	return cmd
}

// Execute runs the command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, deps Dependencies) int {
	deps.withDefaults()

	cmd := NewRootCommand(deps)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if kind, ok := model.KindOf(err); ok {
			log.Printf("Failed with %s: %v", kind, err)
		}
		deps.Console.Error(err.Error())
		return ExitFailure
	}
	return ExitSuccess
}

// validateURL accepts absolute http and https URLs only
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return model.NewError(model.KindInvalidURL, "invalid url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return model.NewError(model.KindInvalidURL, "invalid url", fmt.Errorf("%q must use http or https", raw))
	}
	if u.Host == "" {
		return model.NewError(model.KindInvalidURL, "invalid url", fmt.Errorf("%q has no host", raw))
	}
	return nil
}

func configureLogging(w io.Writer, verbose bool) {
	log.SetPrefix(LogPrefix)
	if verbose {
		log.SetOutput(w)
		return
	}
	log.SetOutput(io.Discard)
}
