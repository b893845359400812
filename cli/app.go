// Package cli wires the command-line surface: command parsing, provider
// construction, and human-readable output.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"nanogen/core"
	"nanogen/history"
	"nanogen/imagegen"
	"nanogen/logging"
)

// App carries the shared dependencies every command needs.
type App struct {
	Config *core.Config
	Logger *logging.Logger
	// Store is the optional generation ledger; nil when disabled.
	Store *history.Store
}

// Execute parses arguments and runs the selected command.
func Execute(ctx context.Context, app *App) error {
	return newRootCmd(app).ExecuteContext(ctx)
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return core.ExitCodeSuccess
	case errors.Is(err, context.Canceled):
		return core.ExitCodeSIGINT
	default:
		var partial *exitPartialError
		if errors.As(err, &partial) {
			return core.ExitCodePartial
		}
		return core.ExitCodeError
	}
}

// newProvider constructs the configured image provider. The model argument
// overrides the configured model when non-empty. The returned cleanup
// function releases provider resources and is safe to call once.
func newProvider(ctx context.Context, app *App, model string) (imagegen.Provider, func(), error) {
	if model == "" {
		model = app.Config.DefaultModel()
	}

	switch app.Config.Provider {
	case core.ProviderGemini:
		provider, err := imagegen.NewGeminiProvider(ctx, app.Config.GoogleAPIKey, model, app.Logger)
		if err != nil {
			return nil, nil, err
		}
		return provider, func() { provider.Close() }, nil

	case core.ProviderOpenAI:
		provider, err := imagegen.NewOpenAIProvider(app.Config.OpenAIAPIKey, model, app.Logger)
		if err != nil {
			return nil, nil, err
		}
		return provider, func() {}, nil

	default:
		return nil, nil, core.ErrUnknownProvider(app.Config.Provider)
	}
}

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

func printSuccess(format string, args ...interface{}) {
	successColor.Printf("✓ "+format+"\n", args...)
}

func printError(format string, args ...interface{}) {
	errorColor.Printf("✗ "+format+"\n", args...)
}

func printWarn(format string, args ...interface{}) {
	warnColor.Printf("! "+format+"\n", args...)
}

func printHeader(format string, args ...interface{}) {
	headerColor.Printf(format+"\n", args...)
}

func printField(name string, value interface{}) {
	fmt.Printf("  %-16s %v\n", name+":", value)
}
