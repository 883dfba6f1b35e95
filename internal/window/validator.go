package window

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idescope/idescope/internal/faults"
	"github.com/idescope/idescope/internal/logger"
)

// ProcessResolver resolves the executable name of a process id.
type ProcessResolver interface {
	ProcessName(pid int) (string, error)
}

// ProcFS resolves process names from /proc.
type ProcFS struct{}

// ProcessName reads /proc/<pid>/comm. The error kind distinguishes a
// process that no longer exists from one the caller may not inspect.
func (ProcFS) ProcessName(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return "", faults.Wrap(faults.ErrNotFound, err)
		case os.IsPermission(err):
			return "", faults.Wrap(faults.ErrAccessDenied, err)
		default:
			return "", faults.Wrap(faults.ErrMalformed, err)
		}
	}
	return strings.TrimSpace(string(data)), nil
}

// Validator confirms a window's owning process belongs to the allow-listed
// IDE family. Every failure path fails closed.
type Validator struct {
	resolver ProcessResolver
	allowed  map[string]bool
}

// NewValidator builds a validator over the given allow-list. Names are
// matched case-insensitively against the process's executable name.
func NewValidator(resolver ProcessResolver, allowed []string) *Validator {
	set := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		set[strings.ToLower(name)] = true
	}
	return &Validator{resolver: resolver, allowed: set}
}

// Validate reports whether the window's owning process is allow-listed.
// It never returns an error: a vanished process, a denied lookup, and a
// process outside the family all return false.
func (v *Validator) Validate(w Window) bool {
	log := logger.WithComponent("validator")

	if w.PID <= 0 {
		log.Debug().Uint32("handle", uint32(w.Handle)).Msg("Window has no owning pid, rejecting")
		return false
	}

	name, err := v.resolver.ProcessName(w.PID)
	if err != nil {
		log.Debug().
			Uint32("handle", uint32(w.Handle)).
			Int("pid", w.PID).
			Err(err).
			Msg("Ownership lookup failed, rejecting")
		return false
	}

	// Compare both the reported name and its basename; some resolvers
	// return a full executable path.
	lower := strings.ToLower(name)
	if v.allowed[lower] || v.allowed[strings.ToLower(filepath.Base(name))] {
		return true
	}

	log.Debug().
		Uint32("handle", uint32(w.Handle)).
		Int("pid", w.PID).
		Str("process", name).
		Msg("Owning process not in allow-list, rejecting")
	return false
}
