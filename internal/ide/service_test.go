package ide

import (
	"context"
	"errors"
	"image"
	"os"
	"strings"
	"testing"

	"github.com/idescope/idescope/internal/config"
	"github.com/idescope/idescope/internal/window"
)

// fakeBackend serves a fixed window tree owned by the test process, so
// ownership validation runs against the real /proc.
type fakeBackend struct {
	windows map[window.Handle]window.Window
	active  window.Handle
}

func (f *fakeBackend) TopLevelWindows() ([]window.Handle, error) {
	handles := make([]window.Handle, 0, len(f.windows))
	// Deterministic order: main window first.
	for _, h := range []window.Handle{1, 2, 3, 4} {
		if _, ok := f.windows[h]; ok {
			handles = append(handles, h)
		}
	}
	return handles, nil
}

func (f *fakeBackend) ChildWindows(h window.Handle) ([]window.Handle, error) { return nil, nil }

func (f *fakeBackend) WindowInfo(h window.Handle) (window.Window, error) {
	w, ok := f.windows[h]
	if !ok {
		return window.Window{}, errors.New("no such window")
	}
	return w, nil
}

func (f *fakeBackend) ActiveWindow() (window.Handle, error) { return f.active, nil }

func (f *fakeBackend) Close() error { return nil }

type fakeGrabber struct{}

func (fakeGrabber) GrabWindow(h window.Handle, b window.Bounds) (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, b.Width, b.Height)), nil
}

func (fakeGrabber) GrabRegion(x, y, width, height int) (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

// ownName resolves the test binary's process name so the allow-list can
// admit the fake windows.
func ownName(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("/proc/self/comm")
	if err != nil {
		t.Skipf("cannot read /proc/self/comm: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func testService(t *testing.T) (*Service, *fakeBackend) {
	t.Helper()

	pid := os.Getpid()
	backend := &fakeBackend{
		windows: map[window.Handle]window.Window{
			1: {Handle: 1, PID: pid, Title: "MyApp - Microsoft Visual Studio", Visible: true,
				Bounds: window.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}},
			2: {Handle: 2, PID: pid, Title: "Solution Explorer", Visible: true,
				Bounds: window.Bounds{X: 10, Y: 50, Width: 280, Height: 900}},
			3: {Handle: 3, PID: pid, Title: "Output - Build", Visible: true,
				Bounds: window.Bounds{X: 400, Y: 880, Width: 1100, Height: 200}},
			4: {Handle: 4, PID: 99999999, Title: "Solution Explorer", Visible: true,
				Bounds: window.Bounds{X: 0, Y: 0, Width: 100, Height: 100}},
		},
		active: 2,
	}

	cfg := *config.Defaults()
	cfg.AllowedProcesses = []string{ownName(t)}
	cfg.LayoutCacheTTLSec = -1

	return build(cfg, backend, fakeGrabber{}), backend
}

func TestServiceDiscoverWindows(t *testing.T) {
	s, _ := testService(t)

	windows := s.DiscoverWindows(context.Background())

	// Window 4 belongs to a foreign (nonexistent) process.
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	roles := map[window.Handle]window.Role{}
	for _, w := range windows {
		roles[w.Handle] = w.Role
	}
	if roles[1] != window.RoleMainWindow {
		t.Errorf("window 1 role = %v, want main_window", roles[1])
	}
	if roles[2] != window.RoleSolutionExplorer {
		t.Errorf("window 2 role = %v, want solution_explorer", roles[2])
	}
	if roles[3] != window.RoleOutputLog {
		t.Errorf("window 3 role = %v, want output_log", roles[3])
	}
}

func TestServiceActiveWindow(t *testing.T) {
	s, backend := testService(t)

	active := s.GetActiveWindow(context.Background())
	if active == nil || active.Handle != 2 {
		t.Fatalf("active = %+v, want handle 2", active)
	}

	// A focused window outside the IDE falls back to the main window.
	backend.active = 7777
	s.InvalidateLayout()
	active = s.GetActiveWindow(context.Background())
	if active == nil || active.Handle != 1 {
		t.Errorf("active = %+v, want fallback to main (handle 1)", active)
	}
}

func TestServiceFindWindowsByType(t *testing.T) {
	s, _ := testService(t)

	found := s.FindWindowsByType(context.Background(), window.RoleSolutionExplorer)
	if len(found) != 1 || found[0].Handle != 2 {
		t.Errorf("found = %+v, want the owned solution explorer", found)
	}

	if got := s.FindWindowsByType(context.Background(), window.RoleToolbox); len(got) != 0 {
		t.Errorf("found %d toolboxes, want 0", len(got))
	}
}

func TestServiceCaptureWindow(t *testing.T) {
	s, _ := testService(t)

	shot := s.CaptureWindow(context.Background(), 3)
	if shot.Empty() {
		t.Fatal("capture of an owned window is empty")
	}
	if shot.Width != 1100 || shot.Height != 200 {
		t.Errorf("dimensions = %dx%d, want 1100x200", shot.Width, shot.Height)
	}
}

// Failures collapse to empty results at this boundary, never errors.
func TestServiceCaptureFailSoft(t *testing.T) {
	s, _ := testService(t)

	if shot := s.CaptureWindow(context.Background(), 99); !shot.Empty() {
		t.Error("capture of a nonexistent window is not empty")
	}
	// Foreign process: ownership rejects.
	if shot := s.CaptureWindow(context.Background(), 4); !shot.Empty() {
		t.Error("capture of a foreign window is not empty")
	}
	if shot := s.CaptureRegion(context.Background(), 0, 0, -5, 10); !shot.Empty() {
		t.Error("capture of a bad region is not empty")
	}
}

func TestServiceCaptureWithAnnotation(t *testing.T) {
	s, _ := testService(t)

	spec := s.CaptureWithAnnotation(context.Background(), 3)
	if spec.Role != window.RoleOutputLog {
		t.Errorf("role = %v, want output_log", spec.Role)
	}
	if spec.Empty() {
		t.Fatal("annotated capture is empty")
	}
	if spec.Meta.Output == nil || spec.Meta.Output.Pane != "Build" {
		t.Errorf("output metadata = %+v, want pane Build", spec.Meta.Output)
	}
}

func TestServiceCaptureFullIDE(t *testing.T) {
	s, _ := testService(t)

	result := s.CaptureFullIDE(context.Background())
	if result == nil {
		t.Fatal("result is nil")
	}
	if result.Primary.Empty() {
		t.Error("primary capture is empty")
	}
	// Solution explorer and output panels, main excluded.
	if len(result.Panels) != 2 {
		t.Errorf("got %d panels, want 2", len(result.Panels))
	}
}

func TestServiceClassifyWindow(t *testing.T) {
	s, _ := testService(t)

	if got := s.ClassifyWindow(window.Window{Title: "Call Stack"}); got != window.RoleCallStackWindow {
		t.Errorf("ClassifyWindow = %v, want call_stack_window", got)
	}
}
