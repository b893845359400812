// Package profile implements reusable generation profiles: named presets
// bundling a model, an aspect ratio, and prompt styling that is applied to
// every prompt generated under the profile.
//
// Profiles are YAML files in a profiles directory, addressed by their file
// stem (profiles/comic-panel.yaml has ID "comic-panel").
package profile

import (
	"fmt"
	"os"
	"strings"

	"nanogen/core"

	"gopkg.in/yaml.v3"
)

// Config holds the generation settings a profile applies.
type Config struct {
	// Model is the model ID to generate with; empty uses the provider default.
	Model string `yaml:"model,omitempty"`

	// AspectRatio is the output shape, as a width:height value or symbolic
	// name. Empty uses the package default.
	AspectRatio string `yaml:"aspect_ratio,omitempty"`
}

// Profile is a reusable preset for image generation.
type Profile struct {
	// ID uniquely identifies the profile; set from the file stem on load.
	ID string `yaml:"id"`

	// Name is the human-readable profile name.
	Name string `yaml:"name"`

	// Description explains what the profile is for.
	Description string `yaml:"description,omitempty"`

	// Config holds the generation settings.
	Config Config `yaml:"config,omitempty"`

	// StylePrefix is prepended to every prompt.
	StylePrefix string `yaml:"style_prefix,omitempty"`

	// StyleSuffix is appended to every prompt.
	StyleSuffix string `yaml:"style_suffix,omitempty"`
}

// FormatPrompt applies the profile's style prefix and suffix to a prompt.
func (p *Profile) FormatPrompt(prompt string) string {
	parts := make([]string, 0, 3)
	if p.StylePrefix != "" {
		parts = append(parts, p.StylePrefix)
	}
	parts = append(parts, prompt)
	if p.StyleSuffix != "" {
		parts = append(parts, p.StyleSuffix)
	}
	return strings.Join(parts, " ")
}

// AspectRatio parses the profile's configured aspect ratio, falling back to
// the package default when unset.
func (p *Profile) AspectRatio() (core.AspectRatio, error) {
	if p.Config.AspectRatio == "" {
		return core.DefaultAspectRatio, nil
	}
	return core.ParseAspectRatio(p.Config.AspectRatio)
}

// Validate checks the profile for required fields and a parseable aspect ratio.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile %q: name is required", p.ID)
	}
	if _, err := p.AspectRatio(); err != nil {
		return fmt.Errorf("profile %q: %w", p.ID, err)
	}
	return nil
}

// parseProfile unmarshals YAML data into a Profile and validates it.
func parseProfile(id string, data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", id, err)
	}
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the profile as YAML to the given path.
func (p *Profile) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %q: %w", p.ID, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write profile %q: %w", p.ID, err)
	}
	return nil
}
