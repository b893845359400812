package core

import (
	"testing"
)

func TestParseAspectRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AspectRatio
		wantErr bool
	}{
		{"value portrait", "2:3", AspectPortrait, false},
		{"value landscape", "3:2", AspectLandscape, false},
		{"value square", "1:1", AspectSquare, false},
		{"value wide", "16:9", AspectWide, false},
		{"value tall", "9:16", AspectTall, false},
		{"name portrait", "portrait", AspectPortrait, false},
		{"name uppercase", "SQUARE", AspectSquare, false},
		{"name with whitespace", " wide ", AspectWide, false},
		{"invalid value", "4:3", "", true},
		{"empty string", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAspectRatio(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAspectRatio(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAspectRatio(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAspectRatio_Name(t *testing.T) {
	tests := []struct {
		ratio AspectRatio
		want  string
	}{
		{AspectPortrait, "portrait"},
		{AspectLandscape, "landscape"},
		{AspectSquare, "square"},
		{AspectWide, "wide"},
		{AspectTall, "tall"},
		{AspectRatio("4:3"), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ratio.Name(); got != tt.want {
			t.Errorf("AspectRatio(%q).Name() = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestAspectRatios_ContainsAllSupported(t *testing.T) {
	ratios := AspectRatios()
	if len(ratios) != 5 {
		t.Fatalf("AspectRatios() returned %d ratios, want 5", len(ratios))
	}

	// Every listed ratio must round-trip through the parser
	for _, ratio := range ratios {
		parsed, err := ParseAspectRatio(string(ratio))
		if err != nil {
			t.Errorf("ParseAspectRatio(%q) failed: %v", ratio, err)
		}
		if parsed != ratio {
			t.Errorf("round trip of %q = %q", ratio, parsed)
		}
	}
}
