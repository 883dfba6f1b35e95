package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/idescope/idescope/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// AllowedProcesses is the process-name allow-list for the target IDE
	// family. A window whose owning process is not on this list is
	// excluded from every result.
	AllowedProcesses []string `json:"allowed_processes" yaml:"allowed_processes"`

	// EnumerationTimeoutSec bounds one full window-system walk.
	EnumerationTimeoutSec int `json:"enumeration_timeout_sec" yaml:"enumeration_timeout_sec"`

	// LayoutCacheTTLSec bounds how long an analyzed layout is reused.
	LayoutCacheTTLSec int `json:"layout_cache_ttl_sec" yaml:"layout_cache_ttl_sec"`

	Capture    CaptureConfig `json:"capture" yaml:"capture"`
	ServerPort int           `json:"server_port" yaml:"server_port"`
	LogLevel   string        `json:"log_level" yaml:"log_level"`
}

// CaptureConfig holds capture-engine settings.
type CaptureConfig struct {
	// Format is the encoding for capture buffers: "png" or "jpeg".
	Format string `json:"format" yaml:"format"`

	// JPEGQuality applies when Format is "jpeg" (1-100).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// WarnBytes logs a warning when the estimated capture cost exceeds it.
	WarnBytes uint64 `json:"warn_bytes" yaml:"warn_bytes"`

	// HardBytes rejects a capture outright before any allocation.
	HardBytes uint64 `json:"hard_bytes" yaml:"hard_bytes"`

	// PressureBytes forces a collection pass when process heap use
	// exceeds it.
	PressureBytes uint64 `json:"pressure_bytes" yaml:"pressure_bytes"`
}

// Manager handles configuration
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "idescope")
	defaultConfigPath := filepath.Join(configDir, "config.yaml")

	actualConfigPath := defaultConfigPath
	if configFile != "" {
		actualConfigPath = configFile
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{
		configPath: actualConfigPath,
	}

	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			logger.WithComponent("config").Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			m.config = Defaults()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Int("allowed_processes", len(m.config.AllowedProcesses)).
		Msg("Config loaded")

	return m, nil
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		AllowedProcesses: []string{
			"devenv",
			"rider",
			"monodevelop",
		},
		EnumerationTimeoutSec: 30,
		LayoutCacheTTLSec:     30,
		Capture: CaptureConfig{
			Format:        "png",
			JPEGQuality:   85,
			WarnBytes:     50_000_000,
			HardBytes:     100_000_000,
			PressureBytes: 500_000_000,
		},
		ServerPort: 8080,
		LogLevel:   "info",
	}
}

// load reads the configuration from disk
func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.AllowedProcesses == nil {
		cfg.AllowedProcesses = []string{}
	}

	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.config)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := *m.config
	cfg.AllowedProcesses = append([]string(nil), m.config.AllowedProcesses...)
	return cfg
}

// GetConfigPath returns the path of the loaded config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetPort overrides the server port.
func (m *Manager) SetPort(port int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.ServerPort = port
}

// SetLogLevel overrides the log level.
func (m *Manager) SetLogLevel(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.LogLevel = level
}

// IsAllowed reports whether a process name is on the allow-list.
// Matching is case-insensitive.
func (m *Manager) IsAllowed(process string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.config.AllowedProcesses {
		if strings.EqualFold(p, process) {
			return true
		}
	}
	return false
}

// AddAllowedProcess adds a process name to the allow-list.
func (m *Manager) AddAllowedProcess(process string) error {
	m.mu.Lock()
	for _, p := range m.config.AllowedProcesses {
		if strings.EqualFold(p, process) {
			m.mu.Unlock()
			return fmt.Errorf("process %q already allowlisted", process)
		}
	}
	m.config.AllowedProcesses = append(m.config.AllowedProcesses, process)
	m.mu.Unlock()

	return m.Save()
}

// RemoveAllowedProcess removes a process name from the allow-list.
func (m *Manager) RemoveAllowedProcess(process string) error {
	m.mu.Lock()
	found := false
	kept := m.config.AllowedProcesses[:0]
	for _, p := range m.config.AllowedProcesses {
		if strings.EqualFold(p, process) {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	m.config.AllowedProcesses = kept
	m.mu.Unlock()

	if !found {
		return fmt.Errorf("process %q is not allowlisted", process)
	}
	return m.Save()
}
