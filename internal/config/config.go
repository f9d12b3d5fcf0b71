// Package config loads runtime configuration from a YAML file and the
// environment via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// Document is the source PDF path.
	Document string `mapstructure:"document" yaml:"document"`

	// OutputDir receives image artifacts.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Zoom is the rasterization super-sampling factor.
	Zoom float64 `mapstructure:"zoom" yaml:"zoom"`

	// StartPage is where chapter detection begins scanning.
	StartPage int `mapstructure:"start_page" yaml:"start_page"`

	// KnownPagesFile optionally points at a YAML file of chapter-to-page
	// overrides merged over the built-in table.
	KnownPagesFile string `mapstructure:"known_pages_file" yaml:"known_pages_file"`

	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Drive   DriveConfig   `mapstructure:"drive" yaml:"drive"`
	Chat    ChatConfig    `mapstructure:"chat" yaml:"chat"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// APIConfig configures the verse-range provider.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Edition string        `mapstructure:"edition" yaml:"edition"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries uint          `mapstructure:"retries" yaml:"retries"`
}

// DriveConfig configures the cloud-drive asset source. Token may use
// ${ENV_VAR} syntax.
type DriveConfig struct {
	FolderID string `mapstructure:"folder_id" yaml:"folder_id"`
	Token    string `mapstructure:"token" yaml:"token"`
}

// ChatConfig configures the chat delivery channel. Token may use
// ${ENV_VAR} syntax.
type ChatConfig struct {
	InstanceID string `mapstructure:"instance_id" yaml:"instance_id"`
	Token      string `mapstructure:"token" yaml:"token"`
	ChatID     string `mapstructure:"chat_id" yaml:"chat_id"`
}

// DefaultConfig returns the configuration used when no file and no
// environment override anything.
func DefaultConfig() Config {
	return Config{
		Document:  "quran.pdf",
		OutputDir: "output",
		Zoom:      3.0,
		StartPage: 28,
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		API: APIConfig{
			BaseURL: "https://api.alquran.cloud/v1",
			Edition: "quran-uthmani",
			Timeout: 10 * time.Second,
			Retries: 2,
		},
	}
}

// Manager loads and holds the runtime configuration.
type Manager struct {
	v      *viper.Viper
	config Config
}

// NewManager creates a manager, reading cfgFile when given, otherwise
// searching ./config.yaml and ~/.versecrop/config.yaml. A missing file
// is not an error; environment variables with the VERSECROP prefix
// override everything.
func NewManager(cfgFile string) (*Manager, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("document", defaults.Document)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("zoom", defaults.Zoom)
	v.SetDefault("start_page", defaults.StartPage)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.edition", defaults.API.Edition)
	v.SetDefault("api.timeout", defaults.API.Timeout)
	v.SetDefault("api.retries", defaults.API.Retries)

	v.SetEnvPrefix("VERSECROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.versecrop")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Drive.Token = ResolveEnvVars(cfg.Drive.Token)
	cfg.Chat.Token = ResolveEnvVars(cfg.Chat.Token)

	return &Manager{v: v, config: cfg}, nil
}

// Get returns the loaded configuration.
func (m *Manager) Get() Config {
	return m.config
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// LoadKnownPages reads a YAML file mapping chapter numbers to verified
// start pages. An empty path yields no overrides.
func LoadKnownPages(path string) (map[int]int, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading known pages file: %w", err)
	}
	pages := make(map[int]int)
	if err := yaml.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parsing known pages file: %w", err)
	}
	for chapter, page := range pages {
		if chapter < 1 || page < 0 {
			return nil, fmt.Errorf("known pages entry %d: %d out of range", chapter, page)
		}
	}
	return pages, nil
}

// WriteDefault writes a commented starter configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}

	header := []byte(`# versecrop configuration
# Credential fields use ${ENV_VAR} syntax to reference environment variables,
# e.g. token: ${DRIVE_TOKEN}. Every key can also be set via the environment
# with the VERSECROP_ prefix, e.g. VERSECROP_OUTPUT_DIR=out.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
