package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files. Per-contest constants live in
// contests.ContestConfig, never here.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Processing configuration
	Concurrency int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.tallysheet.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("concurrency", 4)

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".tallysheet")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose:     viper.GetBool("verbose"),
		Quiet:       viper.GetBool("quiet"),
		NoColor:     viper.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		ConfigFile:  viper.ConfigFileUsed(),
		Concurrency: viper.GetInt("concurrency"),
		LogLevel:    viper.GetString("log_level"),
		LogFormat:   viper.GetString("log_format"),
		LogOutput:   viper.GetString("log_output"),
	}

	if config.Concurrency < 1 {
		config.Concurrency = 1
	}

	return config, nil
}

// loadEnvFiles loads .env files from the working directory upward one level.
func loadEnvFiles() {
	candidates := []string{".env", ".env.local"}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
	// Also check the parent directory, common when running from cmd/.
	if wd, err := os.Getwd(); err == nil {
		parent := filepath.Join(filepath.Dir(wd), ".env")
		if _, err := os.Stat(parent); err == nil {
			_ = godotenv.Load(parent)
		}
	}
}
