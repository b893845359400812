package core

import (
	"fmt"
	"strings"
)

// AspectRatio identifies a supported output shape for generated images.
// Values use the width:height notation the provider APIs expect.
type AspectRatio string

const (
	AspectPortrait  AspectRatio = "2:3"
	AspectLandscape AspectRatio = "3:2"
	AspectSquare    AspectRatio = "1:1"
	AspectWide      AspectRatio = "16:9"
	AspectTall      AspectRatio = "9:16"
)

// DefaultAspectRatio is used when no aspect ratio is configured.
const DefaultAspectRatio = AspectPortrait

// AspectRatios lists all supported ratios in display order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{
		AspectPortrait,
		AspectLandscape,
		AspectSquare,
		AspectWide,
		AspectTall,
	}
}

// Name returns the symbolic name of the ratio (e.g. "portrait" for 2:3).
func (a AspectRatio) Name() string {
	switch a {
	case AspectPortrait:
		return "portrait"
	case AspectLandscape:
		return "landscape"
	case AspectSquare:
		return "square"
	case AspectWide:
		return "wide"
	case AspectTall:
		return "tall"
	default:
		return "unknown"
	}
}

// String returns the width:height value.
func (a AspectRatio) String() string {
	return string(a)
}

// ParseAspectRatio converts a string to an AspectRatio.
// Accepts both symbolic names ("portrait") and values ("2:3"),
// case-insensitively for names.
func ParseAspectRatio(value string) (AspectRatio, error) {
	for _, ratio := range AspectRatios() {
		if string(ratio) == value {
			return ratio, nil
		}
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "portrait":
		return AspectPortrait, nil
	case "landscape":
		return AspectLandscape, nil
	case "square":
		return AspectSquare, nil
	case "wide":
		return AspectWide, nil
	case "tall":
		return AspectTall, nil
	}
	valid := make([]string, 0, 5)
	for _, ratio := range AspectRatios() {
		valid = append(valid, string(ratio))
	}
	return "", fmt.Errorf("invalid aspect ratio %q (valid: %s)", value, strings.Join(valid, ", "))
}
