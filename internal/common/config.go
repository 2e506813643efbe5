package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Service    ServiceConfig    `toml:"service"`
	Jira       JiraConfig       `toml:"jira"`
	Confluence ConfluenceConfig `toml:"confluence"`
	Google     GoogleConfig     `toml:"google"`
	Output     OutputConfig     `toml:"output"`
	Limits     LimitsConfig     `toml:"limits"`
	Storage    StorageConfig    `toml:"storage"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ServiceConfig struct {
	Name        string `toml:"name"`
	Environment string `toml:"environment"`
	Port        int    `toml:"port"`
	// SyncIntervalMinutes schedules periodic collection; 0 disables the
	// schedule and only the startup sync runs.
	SyncIntervalMinutes int `toml:"sync_interval_minutes"`
}

type JiraConfig struct {
	BaseURL  string          `toml:"base_url"`
	Username string          `toml:"username"`
	APIToken string          `toml:"api_token"`
	Timeout  int             `toml:"timeout_seconds"`
	Projects []ProjectConfig `toml:"projects"`
}

type ProjectConfig struct {
	Key        string   `toml:"key"`
	Name       string   `toml:"name"`
	IssueTypes []string `toml:"issue_types"`
	Statuses   []string `toml:"statuses"`
	MaxResults int      `toml:"max_results"`
}

type ConfluenceConfig struct {
	BaseURL      string `toml:"base_url"`
	Username     string `toml:"username"`
	APIToken     string `toml:"api_token"`
	DefaultSpace string `toml:"default_space"`
	Timeout      int    `toml:"timeout_seconds"`
}

// GoogleConfig is parsed from the environment for parity with the original
// configuration surface. The Drive/Sheets helpers themselves are not part of
// this module.
type GoogleConfig struct {
	CredentialsFile string `toml:"credentials_file"`
	DriveFolderID   string `toml:"drive_folder_id"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

type LimitsConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type StorageConfig struct {
	DatabasePath  string `toml:"database_path"`
	BackupDir     string `toml:"backup_dir"`
	RetentionDays int    `toml:"retention_days"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Output     string `toml:"output"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
}

func DefaultConfig() *Config {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)
	execName := filepath.Base(execPath)
	execName = execName[:len(execName)-len(filepath.Ext(execName))]

	return &Config{
		Service: ServiceConfig{
			Name:                execName,
			Environment:         "development",
			Port:                8080,
			SyncIntervalMinutes: 30,
		},
		Jira: JiraConfig{
			Timeout: 30,
		},
		Confluence: ConfluenceConfig{
			Timeout: 30,
		},
		Output: OutputConfig{
			Dir: "./output",
		},
		Storage: StorageConfig{
			DatabasePath:  filepath.Join(execDir, "data", execName+".db"),
			BackupDir:     "./backups",
			RetentionDays: 90,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "both",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig builds configuration with priority: defaults -> TOML file ->
// .env file -> process environment.
func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile == "" {
		configFile = findConfigFile()
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// .env values become process env unless already set, so real environment
	// variables keep priority.
	loadDotenv()

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func findConfigFile() string {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)
	execName := filepath.Base(execPath)
	execName = execName[:len(execName)-len(filepath.Ext(execName))]

	possiblePaths := []string{
		filepath.Join(execDir, execName+".toml"),
		filepath.Join(execDir, "config.toml"),
		"config.toml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadDotenv() {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		godotenv.Load(envFile)
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		godotenv.Load()
	}
}

func applyEnvOverrides(config *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&config.Jira.BaseURL, "JIRA_BASE_URL")
	setString(&config.Jira.Username, "JIRA_USERNAME")
	setString(&config.Jira.APIToken, "JIRA_API_TOKEN")

	setString(&config.Confluence.BaseURL, "CONFLUENCE_BASE_URL")
	setString(&config.Confluence.Username, "CONFLUENCE_USERNAME")
	setString(&config.Confluence.APIToken, "CONFLUENCE_API_TOKEN")
	setString(&config.Confluence.DefaultSpace, "CONFLUENCE_DEFAULT_SPACE")

	setString(&config.Google.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&config.Google.DriveFolderID, "GOOGLE_DRIVE_FOLDER_ID")

	setString(&config.Output.Dir, "OUTPUT_DIR")
	setString(&config.Storage.DatabasePath, "DATABASE_PATH")
	setString(&config.Storage.BackupDir, "BACKUP_DIR")
	setString(&config.Logging.Level, "LOG_LEVEL")

	if rateLimit := os.Getenv("API_RATE_LIMIT"); rateLimit != "" {
		if rps, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			config.Limits.RequestsPerSecond = rps
		}
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if portNum, err := strconv.Atoi(port); err == nil {
			config.Service.Port = portNum
		}
	}

	if debug := os.Getenv("DEBUG"); debug != "" {
		if on, err := strconv.ParseBool(debug); err == nil && on {
			config.Logging.Level = "debug"
		}
	}
}

func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage database_path is required")
	}

	if c.Service.Port <= 0 {
		c.Service.Port = 8080
	}

	if c.Jira.Timeout <= 0 {
		c.Jira.Timeout = 30
	}
	if c.Confluence.Timeout <= 0 {
		c.Confluence.Timeout = 30
	}

	for _, project := range c.Jira.Projects {
		if project.Key == "" {
			return fmt.Errorf("jira project key is required")
		}
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.Logging.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validOutputs := []string{"console", "file", "both"}
	validOutput := false
	for _, output := range validOutputs {
		if c.Logging.Output == output {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}

	return nil
}

// HasJira reports whether Jira credentials are configured.
func (c *Config) HasJira() bool {
	return c.Jira.BaseURL != "" && c.Jira.Username != "" && c.Jira.APIToken != ""
}

// HasConfluence reports whether Confluence credentials are configured.
func (c *Config) HasConfluence() bool {
	return c.Confluence.BaseURL != "" && c.Confluence.Username != "" && c.Confluence.APIToken != ""
}

func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production"
}
