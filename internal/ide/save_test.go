package ide

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idescope/idescope/internal/capture"
)

func validCapture() capture.Capture {
	return capture.Capture{
		Buffer: []byte{0x89, 0x50, 0x4e, 0x47},
		Format: "png",
		Width:  1,
		Height: 1,
		Taken:  time.Now(),
	}
}

func TestSaveCapture(t *testing.T) {
	s := &Service{}
	path := filepath.Join(t.TempDir(), "nested", "shot.png")

	if err := s.SaveCapture(validCapture(), path); err != nil {
		t.Fatalf("SaveCapture() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved capture: %v", err)
	}
	if len(data) != 4 {
		t.Errorf("saved %d bytes, want 4", len(data))
	}
}

func TestSaveCaptureRejectsEmpty(t *testing.T) {
	s := &Service{}
	path := filepath.Join(t.TempDir(), "shot.png")

	if err := s.SaveCapture(capture.Capture{}, path); err == nil {
		t.Fatal("empty capture was saved")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("a file was written for an empty capture")
	}
}

func TestSaveCaptureRejectsBadPaths(t *testing.T) {
	s := &Service{}

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"traversal", "../../../tmp/shot.png"},
		{"embedded traversal", "/tmp/a/../../etc/shot.png"},
		{"etc", "/etc/shot.png"},
		{"proc", "/proc/shot.png"},
		{"sys", "/sys/shot.png"},
		{"usr", "/usr/share/shot.png"},
		{"boot", "/boot/shot.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SaveCapture(validCapture(), tt.path); err == nil {
				t.Errorf("path %q was accepted", tt.path)
			}
		})
	}
}
