package window

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/idescope/idescope/internal/faults"
)

// fakeBackend serves canned windows and records calls. delay, if set,
// is charged on every WindowInfo call.
type fakeBackend struct {
	tops     []Handle
	children map[Handle][]Handle
	info     map[Handle]Window
	failing  map[Handle]bool
	delay    time.Duration

	infoCalls int
}

func (f *fakeBackend) TopLevelWindows() ([]Handle, error) {
	return append([]Handle(nil), f.tops...), nil
}

func (f *fakeBackend) ChildWindows(h Handle) ([]Handle, error) {
	return f.children[h], nil
}

func (f *fakeBackend) WindowInfo(h Handle) (Window, error) {
	f.infoCalls++
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failing[h] {
		return Window{}, errors.New("window vanished")
	}
	w, ok := f.info[h]
	if !ok {
		return Window{}, errors.New("no such window")
	}
	return w, nil
}

func (f *fakeBackend) ActiveWindow() (Handle, error) { return 0, errors.New("not implemented") }

func (f *fakeBackend) Close() error { return nil }

func TestEnumerateCollectsTree(t *testing.T) {
	backend := &fakeBackend{
		tops: []Handle{1, 2},
		children: map[Handle][]Handle{
			1: {10, 11},
		},
		info: map[Handle]Window{
			1:  {Handle: 1, Title: "MyApp - Microsoft Visual Studio"},
			2:  {Handle: 2, Title: "Solution Explorer"},
			10: {Handle: 10, Title: "Output"},
			11: {Handle: 11, Title: "Properties"},
		},
	}

	e := NewEnumerator(backend, time.Second)
	windows, err := e.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("got %d top-level windows, want 2", len(windows))
	}
	if len(windows[0].Children) != 2 {
		t.Fatalf("got %d children of window 1, want 2", len(windows[0].Children))
	}
	if windows[0].Children[0].Parent != 1 {
		t.Errorf("child parent = %v, want 1", windows[0].Children[0].Parent)
	}
}

func TestEnumerateSkipsFailingWindows(t *testing.T) {
	backend := &fakeBackend{
		tops: []Handle{1, 2, 3},
		info: map[Handle]Window{
			1: {Handle: 1},
			3: {Handle: 3},
		},
		failing: map[Handle]bool{2: true},
	}

	e := NewEnumerator(backend, time.Second)
	windows, err := e.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2 (handle 2 skipped)", len(windows))
	}
	for _, w := range windows {
		if w.Handle == 2 {
			t.Errorf("failing window 2 present in results")
		}
	}
}

func TestEnumerateDeadlineReturnsPartial(t *testing.T) {
	backend := &fakeBackend{
		tops:  []Handle{1, 2, 3, 4},
		info:  map[Handle]Window{1: {Handle: 1}, 2: {Handle: 2}, 3: {Handle: 3}, 4: {Handle: 4}},
		delay: 30 * time.Millisecond,
	}

	e := NewEnumerator(backend, 50*time.Millisecond)
	windows, err := e.Enumerate(context.Background())

	if err == nil {
		t.Fatal("Enumerate() returned no error past the deadline")
	}
	if !errors.Is(err, faults.ErrTimeout) {
		t.Errorf("error kind = %v, want ErrTimeout", err)
	}
	if len(windows) == 0 {
		t.Error("deadline hit but no partial result returned")
	}
	if len(windows) == len(backend.tops) {
		t.Error("all windows collected, deadline never took effect")
	}
}

func TestEnumerateReturnsOwnedSlices(t *testing.T) {
	backend := &fakeBackend{
		tops: []Handle{1},
		info: map[Handle]Window{1: {Handle: 1, Title: "Output"}},
	}

	e := NewEnumerator(backend, time.Second)
	first, err := e.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}
	first[0].Title = "clobbered"

	second, err := e.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate() error: %v", err)
	}
	if second[0].Title != "Output" {
		t.Errorf("second pass title = %q, mutation of the first result leaked", second[0].Title)
	}
}

func TestEnumerateCanceledContext(t *testing.T) {
	backend := &fakeBackend{
		tops: []Handle{1, 2},
		info: map[Handle]Window{1: {Handle: 1}, 2: {Handle: 2}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEnumerator(backend, time.Second)
	_, err := e.Enumerate(ctx)
	if !errors.Is(err, faults.ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout kind", err)
	}
}
