package cli

import (
	"os"
	"path/filepath"
	"testing"

	"nanogen/core"
	"nanogen/profile"
)

func TestPromptEntry_UnmarshalStringAndObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	data := `[
		"a watercolor fox",
		{"prompt": "city skyline", "output": "skyline.png", "aspect_ratio": "16:9"},
		{"prompt": "hero close-up", "model": "dall-e-3"}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := loadPromptsFile(path)
	if err != nil {
		t.Fatalf("loadPromptsFile() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	if entries[0].Prompt != "a watercolor fox" || entries[0].Output != "" {
		t.Errorf("entries[0] = %+v, want bare prompt", entries[0])
	}
	if entries[1].Output != "skyline.png" || entries[1].AspectRatio != "16:9" {
		t.Errorf("entries[1] = %+v, want output and aspect ratio set", entries[1])
	}
	if entries[2].Model != "dall-e-3" {
		t.Errorf("entries[2].Model = %q, want %q", entries[2].Model, "dall-e-3")
	}
}

func TestLoadPromptsFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data string
	}{
		{"empty array", `[]`},
		{"not json", `prompts here`},
		{"entry without prompt", `[{"output": "a.png"}]`},
		{"blank string entry", `[""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := loadPromptsFile(path); err == nil {
				t.Errorf("loadPromptsFile(%s) error = nil, want error", tt.name)
			}
		})
	}

	if _, err := loadPromptsFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("loadPromptsFile(missing) error = nil, want error")
	}
}

func TestBuildItems_DefaultsAndOverrides(t *testing.T) {
	entries := []promptEntry{
		{Prompt: "first"},
		{Prompt: "second", Output: "custom.png", AspectRatio: "16:9", Model: "other-model"},
		{Prompt: "third", Output: "/abs/third.png"},
	}
	settings := &promptSettings{
		model:       "default-model",
		aspectRatio: core.AspectPortrait,
	}

	items, err := buildItems(entries, "out", settings)
	if err != nil {
		t.Fatalf("buildItems() error = %v", err)
	}

	if items[0].OutputPath != filepath.Join("out", "image_0000.png") {
		t.Errorf("items[0].OutputPath = %q, want numbered default", items[0].OutputPath)
	}
	if items[0].Model != "default-model" || items[0].AspectRatio != core.AspectPortrait {
		t.Errorf("items[0] did not inherit defaults: %+v", items[0])
	}

	if items[1].OutputPath != filepath.Join("out", "custom.png") {
		t.Errorf("items[1].OutputPath = %q, want custom name under out dir", items[1].OutputPath)
	}
	if items[1].Model != "other-model" || items[1].AspectRatio != core.AspectWide {
		t.Errorf("items[1] overrides not applied: %+v", items[1])
	}

	if items[2].OutputPath != "/abs/third.png" {
		t.Errorf("items[2].OutputPath = %q, want absolute path untouched", items[2].OutputPath)
	}
}

func TestBuildItems_InvalidRatio(t *testing.T) {
	entries := []promptEntry{{Prompt: "p", AspectRatio: "4:3"}}
	settings := &promptSettings{model: "m", aspectRatio: core.AspectPortrait}

	if _, err := buildItems(entries, "out", settings); err == nil {
		t.Error("buildItems() error = nil, want error for unsupported ratio")
	}
}

func TestBuildItems_AppliesProfileStyle(t *testing.T) {
	settings := &promptSettings{
		model:       "m",
		aspectRatio: core.AspectPortrait,
		profile: &profile.Profile{
			ID:          "comic",
			Name:        "Comic",
			StylePrefix: "comic book art,",
			StyleSuffix: "bold ink lines",
		},
	}

	items, err := buildItems([]promptEntry{{Prompt: "a fox"}}, "out", settings)
	if err != nil {
		t.Fatalf("buildItems() error = %v", err)
	}
	want := "comic book art, a fox bold ink lines"
	if items[0].Prompt != want {
		t.Errorf("Prompt = %q, want %q", items[0].Prompt, want)
	}
}

func TestResolveSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	profileYAML := `name: Comic Panel
description: comic style
config:
  model: profile-model
  aspect_ratio: "16:9"
style_prefix: "comic,"
`
	if err := os.WriteFile(filepath.Join(dir, "comic.yaml"), []byte(profileYAML), 0644); err != nil {
		t.Fatal(err)
	}

	app := &App{Config: &core.Config{
		Provider:    core.ProviderGemini,
		ProfilesDir: dir,
	}}

	// No profile, no flags: config defaults.
	settings, err := resolveSettings(app, "", "", "")
	if err != nil {
		t.Fatalf("resolveSettings() error = %v", err)
	}
	if settings.model != app.Config.DefaultModel() {
		t.Errorf("model = %q, want config default %q", settings.model, app.Config.DefaultModel())
	}
	if settings.aspectRatio != core.DefaultAspectRatio {
		t.Errorf("aspectRatio = %q, want default %q", settings.aspectRatio, core.DefaultAspectRatio)
	}

	// Profile overrides config defaults.
	settings, err = resolveSettings(app, "comic", "", "")
	if err != nil {
		t.Fatalf("resolveSettings(profile) error = %v", err)
	}
	if settings.model != "profile-model" {
		t.Errorf("model = %q, want profile model", settings.model)
	}
	if settings.aspectRatio != core.AspectWide {
		t.Errorf("aspectRatio = %q, want 16:9 from profile", settings.aspectRatio)
	}

	// Flags override the profile.
	settings, err = resolveSettings(app, "comic", "flag-model", "square")
	if err != nil {
		t.Fatalf("resolveSettings(flags) error = %v", err)
	}
	if settings.model != "flag-model" {
		t.Errorf("model = %q, want flag override", settings.model)
	}
	if settings.aspectRatio != core.AspectSquare {
		t.Errorf("aspectRatio = %q, want square from flag", settings.aspectRatio)
	}

	// Unknown profile is an error.
	if _, err = resolveSettings(app, "missing", "", ""); err == nil {
		t.Error("resolveSettings(missing profile) error = nil, want error")
	}
}

func TestDefaultFileName(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"a watercolor fox", "a_watercolor_fox.png"},
		{"City Skyline At Dusk, Neon!", "city_skyline_at_dusk_neon.png"},
		{"one two three four five six seven", "one_two_three_four_five.png"},
		{"!!!", "image.png"},
	}

	for _, tt := range tests {
		if got := defaultFileName(tt.prompt); got != tt.want {
			t.Errorf("defaultFileName(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "****"},
		{"sk-abcdefghij1234", "sk-a...1234"},
	}

	for _, tt := range tests {
		if got := maskKey(tt.key); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 70); got != "short" {
		t.Errorf("truncate(short) = %q, want unchanged", got)
	}
	long := "this prompt keeps going well past the limit we allow for display output here"
	got := truncate(long, 20)
	if len(got) != 20 {
		t.Errorf("len(truncate(long, 20)) = %d, want 20", len(got))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("truncate(long) = %q, want ... suffix", got)
	}
}
