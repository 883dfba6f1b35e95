// Package capture renders windows and screen regions into encoded,
// memory-bounded image buffers.
package capture

import "time"

// Capture is one single-shot image of a window or region. A failed
// capture is the empty value: zero dimensions and a nil buffer. Callers
// distinguish success by checking the buffer length.
type Capture struct {
	Buffer   []byte            `json:"buffer,omitempty"`
	Format   string            `json:"format,omitempty"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Taken    time.Time         `json:"taken"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Empty reports whether the capture failed or holds no pixels.
func (c Capture) Empty() bool {
	return len(c.Buffer) == 0
}

// emptyCapture is the failure value: timestamped but dimensionless.
func emptyCapture() Capture {
	return Capture{Taken: time.Now()}
}
