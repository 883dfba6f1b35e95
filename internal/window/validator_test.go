package window

import (
	"testing"

	"github.com/idescope/idescope/internal/faults"
)

// fakeResolver maps pids to names or errors.
type fakeResolver struct {
	names map[int]string
	errs  map[int]error
}

func (f fakeResolver) ProcessName(pid int) (string, error) {
	if err, ok := f.errs[pid]; ok {
		return "", err
	}
	if name, ok := f.names[pid]; ok {
		return name, nil
	}
	return "", faults.Wrap(faults.ErrNotFound, nil)
}

func TestValidate(t *testing.T) {
	resolver := fakeResolver{
		names: map[int]string{
			100: "devenv",
			101: "Rider",
			102: "/usr/bin/monodevelop",
			103: "firefox",
		},
		errs: map[int]error{
			200: faults.Wrap(faults.ErrNotFound, nil),
			201: faults.Wrap(faults.ErrAccessDenied, nil),
		},
	}
	v := NewValidator(resolver, []string{"devenv", "rider", "monodevelop"})

	tests := []struct {
		name string
		pid  int
		want bool
	}{
		{"allowed process", 100, true},
		{"allowed case-insensitive", 101, true},
		{"allowed by path basename", 102, true},
		{"foreign process rejected", 103, false},
		{"vanished process fails closed", 200, false},
		{"denied lookup fails closed", 201, false},
		{"unknown pid fails closed", 999, false},
		{"zero pid fails closed", 0, false},
		{"negative pid fails closed", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(Window{Handle: 1, PID: tt.pid})
			if got != tt.want {
				t.Errorf("Validate(pid=%d) = %v, want %v", tt.pid, got, tt.want)
			}
		})
	}
}

func TestValidateEmptyAllowlist(t *testing.T) {
	resolver := fakeResolver{names: map[int]string{100: "devenv"}}
	v := NewValidator(resolver, nil)

	if v.Validate(Window{Handle: 1, PID: 100}) {
		t.Error("empty allow-list accepted a window")
	}
}
