package api

import (
	"net/http/httptest"
	"testing"

	"github.com/idescope/idescope/internal/window"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    window.Handle
		wantErr bool
	}{
		{"decimal", "123", 123, false},
		{"hex", "0x3a00007", 0x3a00007, false},
		{"garbage", "not-a-handle", 0, true},
		{"negative", "-1", 0, true},
		{"too large", "0x1ffffffff", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHandle(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHandle(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseHandle(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestWriteImageHeaders(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
	}{
		{"png", "image/png"},
		{"jpeg", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeImage(rec, tt.format, []byte{1, 2, 3}, 640, 480)

			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := rec.Header().Get("X-Capture-Width"); got != "640" {
				t.Errorf("X-Capture-Width = %q, want 640", got)
			}
			if got := rec.Header().Get("X-Capture-Height"); got != "480" {
				t.Errorf("X-Capture-Height = %q, want 480", got)
			}
			if rec.Body.Len() != 3 {
				t.Errorf("body length = %d, want 3", rec.Body.Len())
			}
		})
	}
}
