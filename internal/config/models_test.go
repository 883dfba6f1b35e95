package config

import (
	"os"
	"path/filepath"
	"testing"
)

func managerAt(t *testing.T, path string) *Manager {
	t.Helper()
	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m
}

func TestNewManagerCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := managerAt(t, path)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	cfg := m.Get()
	if len(cfg.AllowedProcesses) == 0 {
		t.Error("default allow-list is empty")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Capture.Format != "png" {
		t.Errorf("default format = %q, want png", cfg.Capture.Format)
	}
	if cfg.Capture.HardBytes != 100_000_000 {
		t.Errorf("default hard threshold = %d, want 100MB", cfg.Capture.HardBytes)
	}
}

func TestManagerLoadsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("allowed_processes:\n  - devenv\nserver_port: 9090\nlog_level: debug\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	m := managerAt(t, path)
	cfg := m.Get()

	if cfg.ServerPort != 9090 {
		t.Errorf("port = %d, want 9090", cfg.ServerPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if len(cfg.AllowedProcesses) != 1 || cfg.AllowedProcesses[0] != "devenv" {
		t.Errorf("allow-list = %v, want [devenv]", cfg.AllowedProcesses)
	}
	// Unset fields keep their defaults.
	if cfg.EnumerationTimeoutSec != 30 {
		t.Errorf("enumeration timeout = %d, want default 30", cfg.EnumerationTimeoutSec)
	}
}

func TestManagerAllowlist(t *testing.T) {
	m := managerAt(t, filepath.Join(t.TempDir(), "config.yaml"))

	if err := m.AddAllowedProcess("code"); err != nil {
		t.Fatalf("AddAllowedProcess() error: %v", err)
	}
	if !m.IsAllowed("code") {
		t.Error("added process not allowed")
	}
	if !m.IsAllowed("CODE") {
		t.Error("allow check is case-sensitive")
	}

	if err := m.AddAllowedProcess("Code"); err == nil {
		t.Error("duplicate add (case-insensitive) succeeded")
	}

	if err := m.RemoveAllowedProcess("CODE"); err != nil {
		t.Fatalf("RemoveAllowedProcess() error: %v", err)
	}
	if m.IsAllowed("code") {
		t.Error("removed process still allowed")
	}

	if err := m.RemoveAllowedProcess("code"); err == nil {
		t.Error("removing an absent process succeeded")
	}
}

func TestManagerGetReturnsCopy(t *testing.T) {
	m := managerAt(t, filepath.Join(t.TempDir(), "config.yaml"))

	cfg := m.Get()
	cfg.AllowedProcesses[0] = "clobbered"
	cfg.ServerPort = 1

	fresh := m.Get()
	if fresh.AllowedProcesses[0] == "clobbered" {
		t.Error("mutating a returned config leaked into the manager")
	}
	if fresh.ServerPort == 1 {
		t.Error("mutating a returned config changed the stored port")
	}
}

func TestManagerOverrides(t *testing.T) {
	m := managerAt(t, filepath.Join(t.TempDir(), "config.yaml"))

	m.SetPort(9999)
	m.SetLogLevel("warn")

	cfg := m.Get()
	if cfg.ServerPort != 9999 {
		t.Errorf("port = %d, want 9999", cfg.ServerPort)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want warn", cfg.LogLevel)
	}
}
