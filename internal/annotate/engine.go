package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/idescope/idescope/internal/capture"
	"github.com/idescope/idescope/internal/logger"
	"github.com/idescope/idescope/internal/window"
)

const outlineThickness = 3

// Engine produces role-annotated captures. Dispatch is total: a role
// without special handling still receives the generic outline and label.
type Engine struct{}

// NewEngine creates an annotation engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Annotate decorates a capture with role-specific overlays and metadata.
// An empty capture gets its role and metadata but no overlays; a capture
// whose buffer cannot be decoded keeps its original pixels and the
// annotation list still describes what would have been drawn.
func (e *Engine) Annotate(c capture.Capture, w window.Window) Specialized {
	log := logger.WithComponent("annotate")

	spec := Specialized{
		Capture: c,
		Role:    w.Role,
		Meta:    metadataFor(w),
	}

	if c.Empty() {
		return spec
	}

	roleColor := ColorForRole(w.Role)
	outline := Annotation{
		Type: TypeOutline,
		Bounds: window.Bounds{
			X:      outlineThickness,
			Y:      outlineThickness,
			Width:  c.Width - 2*outlineThickness,
			Height: c.Height - 2*outlineThickness,
		},
		Color: roleColor,
	}
	label := Annotation{
		Type:   TypeLabel,
		Bounds: window.Bounds{X: outlineThickness, Y: outlineThickness},
		Color:  roleColor,
		Label:  labelText(w),
	}
	spec.Annotations = []Annotation{outline, label}

	img, err := decode(c)
	if err != nil {
		log.Warn().Err(err).Str("format", c.Format).Msg("Cannot decode capture for overlay rendering")
		return spec
	}

	StrokeRect(img, outline.Bounds.X, outline.Bounds.Y, outline.Bounds.Width, outline.Bounds.Height,
		outlineThickness, roleColor)
	DrawLabel(img, label.Bounds.X+outlineThickness, label.Bounds.Y+outlineThickness,
		label.Label, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, roleColor)

	encoded, err := encode(img, c.Format)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot re-encode annotated capture, keeping original pixels")
		return spec
	}
	spec.Buffer = encoded

	return spec
}

// labelText renders a human-readable role name, with the window title
// appended when it adds information.
func labelText(w window.Window) string {
	name := strings.ReplaceAll(string(w.Role), "_", " ")
	if w.Title == "" {
		return name
	}
	return name + ": " + w.Title
}

func decode(c capture.Capture) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(c.Buffer))
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

func encode(img *image.RGBA, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
