package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	// AppName names the per-user data directory
	AppName = "sunless"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	DevelopmentBackendURL = "http://localhost:8080"
	ProductionBackendURL  = "https://api.sunless.app"

	envBackendURL  = "BACKEND_URL"
	envEnvironment = "SUNLESS_ENV"
	envLogLevel    = "LOG_LEVEL"
	envFile        = "SUNLESS_ENV_FILE"
)

// Default floating bar size, shared by the window options and the saved geometry.
const (
	DefaultBarWidth  = 600
	DefaultBarHeight = 60
)

// Config holds all application configuration
type Config struct {
	// Backend settings
	BackendURL    string `json:"backend_url,omitempty"`
	OAuthClientID string `json:"oauth_client_id"`
	Environment   string `json:"environment"`

	// Logging
	LogLevel string `json:"log_level"`

	// Floating bar placement
	Window WindowConfig `json:"window"`
}

// WindowConfig holds the last known floating bar geometry
type WindowConfig struct {
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	HasPosition bool `json:"has_position"`
}

// Service manages configuration persistence
type Service struct {
	mu       sync.RWMutex
	config   *Config
	dir      string
	filePath string
}

// New creates a config service in the user's config directory
func New() (*Service, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return NewAt(filepath.Join(base, AppName))
}

// NewAt creates a config service rooted at dir
func NewAt(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.json")

	service := &Service{
		dir:      dir,
		filePath: configPath,
		config:   getDefaultConfig(),
	}

	// Load existing config if it exists, otherwise create a default config file
	if _, err := os.Stat(configPath); err == nil {
		if err := service.Load(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		if err := service.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return service, nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		OAuthClientID: "sunless-desktop",
		Environment:   EnvProduction,
		LogLevel:      "info",
		Window: WindowConfig{
			Width:  DefaultBarWidth,
			Height: DefaultBarHeight,
		},
	}
}

// LoadEnv loads a .env file from the executable directory, or from the path
// in SUNLESS_ENV_FILE. Variables already set in the environment win.
func LoadEnv() string {
	path := resolveEnvPath()
	if path != "" {
		_ = godotenv.Load(path)
	}
	return path
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(envFile); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

// Get returns a copy of the current configuration
func (s *Service) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.config
}

// Set updates the configuration
func (s *Service) Set(config Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &config
}

// Load loads configuration from file
func (s *Service) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	cfg := getDefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

// Save saves configuration to file
func (s *Service) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.config, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// Path returns the full path to the configuration file
func (s *Service) Path() string {
	return s.filePath
}

// Dir returns the per-user data directory
func (s *Service) Dir() string {
	return s.dir
}

// LogPath returns the log file location
func (s *Service) LogPath() string {
	return filepath.Join(s.dir, "logs", AppName+".log")
}

// UpdateWindow updates the remembered window geometry
func (s *Service) UpdateWindow(window WindowConfig) error {
	s.mu.Lock()
	s.config.Window = window
	s.mu.Unlock()
	return s.Save()
}

// IsDevelopment reports whether the app runs against the development backend
func (s *Service) IsDevelopment() bool {
	if env := strings.TrimSpace(os.Getenv(envEnvironment)); env != "" {
		return strings.EqualFold(env, EnvDevelopment)
	}
	return strings.EqualFold(s.Get().Environment, EnvDevelopment)
}

// BackendURL resolves the backend base URL: BACKEND_URL when it is a valid
// http(s) URL, then the configured value, then the environment default.
// Overrides from the environment are never written back to the file.
func (s *Service) BackendURL() string {
	if env := strings.TrimSpace(os.Getenv(envBackendURL)); ValidURL(env) {
		return env
	}
	if configured := strings.TrimSpace(s.Get().BackendURL); ValidURL(configured) {
		return configured
	}
	if s.IsDevelopment() {
		return DevelopmentBackendURL
	}
	return ProductionBackendURL
}

// LogLevel returns LOG_LEVEL if set, else the configured level
func (s *Service) LogLevel() string {
	if env := strings.TrimSpace(os.Getenv(envLogLevel)); env != "" {
		return env
	}
	return s.Get().LogLevel
}

// ValidURL reports whether raw is an absolute http or https URL
func ValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
