// Package imagegen provides the image generation collaborator boundary.
//
// provider.go defines the Provider interface and the request/result types
// shared by all provider implementations (Gemini, OpenAI).
//
// Providers own failure classification: every error they return is a
// *core.GenerationError whose Kind tells the retry core whether the failure
// was a quota rejection, a transient server problem, or terminal.
package imagegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nanogen/core"
)

// Request describes one image to generate.
type Request struct {
	// Prompt is the text description of the image (required).
	Prompt string

	// OutputPath is where the decoded image file is written (required).
	// Parent directories are created as needed.
	OutputPath string

	// Model overrides the provider's configured model when non-empty.
	Model string

	// AspectRatio selects the output shape. Zero value means the
	// package default (portrait).
	AspectRatio core.AspectRatio
}

// Validate checks that the request has the required fields.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return core.NewGenerationError("prompt cannot be empty", nil)
	}
	if r.OutputPath == "" {
		return core.NewGenerationError("output path cannot be empty", nil)
	}
	return nil
}

// ratio returns the effective aspect ratio for the request.
func (r Request) ratio() core.AspectRatio {
	if r.AspectRatio == "" {
		return core.DefaultAspectRatio
	}
	return r.AspectRatio
}

// Result describes a successfully generated image.
type Result struct {
	Path        string           // Where the image was written
	Width       int              // Image width in pixels
	Height      int              // Image height in pixels
	Prompt      string           // The prompt used
	Model       string           // Model that produced the image
	AspectRatio core.AspectRatio // Requested aspect ratio
	Duration    time.Duration    // Wall-clock generation time
}

// Provider is the interface for image generation backends.
//
// Generate performs the API call, writes the decoded image to
// req.OutputPath, and returns metadata about the result. On failure it
// returns a *core.GenerationError classified at this boundary; the caller
// never inspects transport details.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// writeImageFile writes image bytes to path, creating parent directories.
func writeImageFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write image file: %w", err)
	}
	return nil
}
