package core

import (
	"time"
)

// Provider names accepted by NANOGEN_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default model identifiers per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash-preview-image-generation"
	DefaultOpenAIModel = "dall-e-3"
)

// Config holds all configuration values.
type Config struct {
	// API Keys (only the active provider's key is required)
	GoogleAPIKey string
	OpenAIAPIKey string

	// Provider selection
	Provider string // "gemini" or "openai"
	Model    string // Model ID; empty means provider default

	// Throttling configuration
	MaxConcurrent  int           // Upper bound on the adaptive concurrency window
	RPMLimit       int           // Requests-per-minute ceiling
	MaxRetries     int           // Attempts per item before giving up
	RetryBaseDelay time.Duration // First backoff delay; doubles per attempt

	// Directories and files
	OutputDir   string // Default directory for generated images
	ProfilesDir string // Directory holding YAML generation profiles
	HistoryDB   string // SQLite path for the generation ledger; empty disables
	LogFile     string // Log file path

	// Development mode (colored debug console output)
	DevMode bool
}

// Default throttling values, matched to the free-tier limits of the
// generation APIs this tool targets.
const (
	DefaultMaxConcurrent  = 15
	DefaultRPMLimit       = 50
	DefaultMaxRetries     = 5
	DefaultRetryBaseDelay = 2 * time.Second
)

// LoadConfig reads configuration from environment variables.
// Call godotenv.Load before this to pick up a .env file.
//
// Validation of provider API keys is deferred to provider construction,
// so read-only commands (profiles, history) work without credentials.
func LoadConfig() (*Config, error) {
	config := &Config{
		GoogleAPIKey: GetEnvOrDefault("GOOGLE_API_KEY", ""),
		OpenAIAPIKey: GetEnvOrDefault("OPENAI_API_KEY", ""),

		Provider: GetEnvOrDefault("NANOGEN_PROVIDER", ProviderGemini),
		Model:    GetEnvOrDefault("NANOGEN_MODEL", ""),

		MaxConcurrent:  ParseIntEnv("MAX_CONCURRENT", DefaultMaxConcurrent),
		RPMLimit:       ParseIntEnv("RPM_LIMIT", DefaultRPMLimit),
		MaxRetries:     ParseIntEnv("MAX_RETRIES", DefaultMaxRetries),
		RetryBaseDelay: ParseDurationEnv("RETRY_BASE_DELAY", 2),

		OutputDir:   GetEnvOrDefault("OUTPUT_DIR", "output"),
		ProfilesDir: GetEnvOrDefault("PROFILES_DIR", "profiles"),
		HistoryDB:   GetEnvOrDefault("HISTORY_DB", ""),
		LogFile:     GetEnvOrDefault("LOG_FILE", "nanogen.log"),

		DevMode: ParseBoolEnv("DEV_MODE", false),
	}

	switch config.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, ErrUnknownProvider(config.Provider)
	}

	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}
	if config.RPMLimit < 1 {
		config.RPMLimit = 1
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = DefaultRetryBaseDelay
	}

	return config, nil
}

// DefaultModel returns the model ID to use for the configured provider,
// falling back to the provider's default when Model is unset.
func (c *Config) DefaultModel() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultGeminiModel
	}
}
