package ide

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idescope/idescope/internal/capture"
	"github.com/idescope/idescope/internal/logger"
)

// systemPrefixes are directories a capture must never be written under.
var systemPrefixes = []string{
	"/etc", "/proc", "/sys", "/dev", "/boot", "/bin", "/sbin", "/lib", "/usr",
}

// SaveCapture writes a capture's buffer to the given path. This is the
// core's only filesystem surface, so the path is validated strictly:
// absolute after cleaning, no traversal components, and not under a
// system directory. Invalid arguments surface as errors to the caller.
func (s *Service) SaveCapture(c capture.Capture, path string) error {
	if c.Empty() {
		return fmt.Errorf("refusing to save an empty capture")
	}

	cleaned, err := validateSavePath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(cleaned, c.Buffer, 0644); err != nil {
		return fmt.Errorf("failed to write capture: %w", err)
	}

	logger.WithComponent("ide").Info().
		Str("path", cleaned).
		Int("bytes", len(c.Buffer)).
		Str("format", c.Format).
		Msg("Capture saved")
	return nil
}

func validateSavePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("save path is empty")
	}
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("save path %q contains a traversal component", path)
	}

	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", fmt.Errorf("cannot resolve save path %q: %w", path, err)
		}
		cleaned = abs
	}

	for _, prefix := range systemPrefixes {
		if cleaned == prefix || strings.HasPrefix(cleaned, prefix+string(filepath.Separator)) {
			return "", fmt.Errorf("save path %q is under a system directory", path)
		}
	}

	return cleaned, nil
}
