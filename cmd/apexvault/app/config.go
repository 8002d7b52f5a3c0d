package app

import (
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/apexvault/pkg/bytestore"
	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	NoInput bool
	Format  string

	// Config file
	ConfigFile string

	// Storage configuration
	Storage    bytestore.Config
	StorageKey string `default:"apex_workspace_vault_v1"`

	// Logging configuration. LogLevel holds only an explicit --log-level;
	// LOG_LEVEL is consulted by NewLogger after the -v/-q shortcuts.
	LogLevel  string
	LogFormat string `default:"auto"`
	LogOutput string `default:"stderr"`
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (APEXVAULT_STORAGE_TYPE, ...)
// 3. .env files
// 4. Config file (path, or ~/.apexvault.yaml, or ./.apexvault.yaml)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.type", string(bytestore.TypeFiles))
	v.SetDefault("storage.path", constants.DefaultDataPath)
	v.SetDefault("storage.key", constants.StorageKey)
	v.SetDefault("storage.read_only", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(strings.TrimSuffix(constants.DefaultConfigFile, ".yaml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the default location is optional.
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.WrapParse("yaml", v.ConfigFileUsed(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		NoInput: v.GetBool("no-input"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Storage: bytestore.Config{
			Type:     bytestore.Type(v.GetString("storage.type")),
			Path:     v.GetString("storage.path"),
			ReadOnly: v.GetBool("storage.read_only"),
		},
		StorageKey: v.GetString("storage.key"),

		LogFormat: os.Getenv("LOG_FORMAT"),
		LogOutput: os.Getenv("LOG_OUTPUT"),
	}

	if err := defaults.Set(config); err != nil {
		return nil, errors.NewConfigError("app", "failed to apply defaults", err)
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor, noInput bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor || os.Getenv("NO_COLOR") != ""
	c.NoInput = c.NoInput || noInput
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// godotenv never overrides a variable that is already set, so the
	// first file loaded wins: .env.local overrides .env.
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
