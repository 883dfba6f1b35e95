package capture

import "testing"

func TestPixmapGuardReleaseOnce(t *testing.T) {
	frees := 0
	g := &PixmapGuard{id: 42, free: func() { frees++ }}

	g.Release()
	g.Release()
	g.Release()

	if frees != 1 {
		t.Errorf("pixmap freed %d times, want exactly 1", frees)
	}
}

func TestGContextGuardReleaseOnce(t *testing.T) {
	frees := 0
	g := &GContextGuard{id: 7, free: func() { frees++ }}

	g.Release()
	g.Release()

	if frees != 1 {
		t.Errorf("gcontext freed %d times, want exactly 1", frees)
	}
}

func TestSourceGuardReleaseOnce(t *testing.T) {
	frees := 0
	g := &SourceGuard{drawable: 9, free: func() { frees++ }}

	g.Release()
	g.Release()

	if frees != 1 {
		t.Errorf("source released %d times, want exactly 1", frees)
	}
}

func TestGuardNilReleaseIsNoop(t *testing.T) {
	var p *PixmapGuard
	var gc *GContextGuard
	var s *SourceGuard

	// Must not panic.
	p.Release()
	gc.Release()
	s.Release()
}

func TestSourceGuardDrawable(t *testing.T) {
	g := &SourceGuard{drawable: 1234, free: func() {}}
	if g.Drawable() != 1234 {
		t.Errorf("Drawable() = %v, want 1234", g.Drawable())
	}
	// Reading the drawable does not release.
	if g.released {
		t.Error("Drawable() released the guard")
	}
}
