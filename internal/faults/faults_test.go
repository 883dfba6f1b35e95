package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesKind(t *testing.T) {
	base := errors.New("window 0x42 gone")
	err := Wrap(ErrNotFound, base)

	if !errors.Is(err, ErrNotFound) {
		t.Error("wrapped error lost its kind")
	}
	if Kind(err) != ErrNotFound {
		t.Errorf("Kind() = %v, want ErrNotFound", Kind(err))
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(ErrTimeout, nil); err != ErrTimeout {
		t.Errorf("Wrap(kind, nil) = %v, want the bare kind", err)
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrResourceExhausted, "estimated %d bytes", 400_000_000)

	if !errors.Is(err, ErrResourceExhausted) {
		t.Error("formatted error lost its kind")
	}
	if want := "resource exhausted: estimated 400000000 bytes"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestKindSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("capture failed: %w", Wrap(ErrAccessDenied, errors.New("pid 123 not allowed")))

	if Kind(err) != ErrAccessDenied {
		t.Errorf("Kind() = %v through an outer wrap, want ErrAccessDenied", Kind(err))
	}
}

func TestKindUnclassified(t *testing.T) {
	if Kind(errors.New("plain")) != nil {
		t.Error("plain error reported a kind")
	}
	if Kind(nil) != nil {
		t.Error("nil error reported a kind")
	}
}
