package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("NANOGEN_TEST_STR", "hello")
	if got := GetEnvOrDefault("NANOGEN_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("GetEnvOrDefault() = %q, want %q", got, "hello")
	}
	if got := GetEnvOrDefault("NANOGEN_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnvOrDefault() = %q, want %q", got, "fallback")
	}
}

func TestParseIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue int
		want         int
	}{
		{"valid integer", "42", 10, 42},
		{"negative integer", "-3", 10, -3},
		{"invalid integer", "abc", 10, 10},
		{"empty value", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NANOGEN_TEST_INT", tt.value)
			if got := ParseIntEnv("NANOGEN_TEST_INT", tt.defaultValue); got != tt.want {
				t.Errorf("ParseIntEnv(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"OFF", true, false},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NANOGEN_TEST_BOOL", tt.value)
			if got := ParseBoolEnv("NANOGEN_TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("NANOGEN_TEST_DUR", "30")
	if got := ParseDurationEnv("NANOGEN_TEST_DUR", 5); got != 30*time.Second {
		t.Errorf("ParseDurationEnv() = %v, want 30s", got)
	}

	t.Setenv("NANOGEN_TEST_DUR", "")
	if got := ParseDurationEnv("NANOGEN_TEST_DUR", 5); got != 5*time.Second {
		t.Errorf("ParseDurationEnv() default = %v, want 5s", got)
	}
}
