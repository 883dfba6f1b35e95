package annotate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BlendImage blends a source image onto a destination image at the given
// position with the specified opacity.
func BlendImage(dst *image.RGBA, src image.Image, x, y int, opacity float64) {
	srcBounds := src.Bounds()
	dstBounds := dst.Bounds()

	for sy := srcBounds.Min.Y; sy < srcBounds.Max.Y; sy++ {
		dy := y + (sy - srcBounds.Min.Y)
		if dy < dstBounds.Min.Y || dy >= dstBounds.Max.Y {
			continue
		}

		for sx := srcBounds.Min.X; sx < srcBounds.Max.X; sx++ {
			dx := x + (sx - srcBounds.Min.X)
			if dx < dstBounds.Min.X || dx >= dstBounds.Max.X {
				continue
			}

			srcColor := src.At(sx, sy)
			sr, sg, sb, sa := srcColor.RGBA()

			alpha := float64(sa) * opacity / 65535.0
			if alpha <= 0 {
				continue
			}

			dstColor := dst.At(dx, dy)
			dr, dg, db, da := dstColor.RGBA()

			outAlpha := alpha + float64(da)/65535.0*(1-alpha)
			if outAlpha > 0 {
				outR := uint8((float64(sr)*alpha + float64(dr)/65535.0*float64(da)/65535.0*(1-alpha)) / outAlpha / 256)
				outG := uint8((float64(sg)*alpha + float64(dg)/65535.0*float64(da)/65535.0*(1-alpha)) / outAlpha / 256)
				outB := uint8((float64(sb)*alpha + float64(db)/65535.0*float64(da)/65535.0*(1-alpha)) / outAlpha / 256)
				outA := uint8(outAlpha * 255)

				dst.SetRGBA(dx, dy, color.RGBA{R: outR, G: outG, B: outB, A: outA})
			}
		}
	}
}

// FillRect draws a filled rectangle with the given color and opacity.
func FillRect(dst *image.RGBA, x, y, width, height int, c color.RGBA, opacity float64) {
	rect := image.Rect(0, 0, width, height)
	tmp := image.NewRGBA(rect)
	draw.Draw(tmp, rect, &image.Uniform{c}, image.Point{}, draw.Src)
	BlendImage(dst, tmp, x, y, opacity)
}

// StrokeRect draws a rectangle outline of the given thickness.
func StrokeRect(dst *image.RGBA, x, y, width, height, thickness int, c color.RGBA) {
	if thickness < 1 {
		thickness = 1
	}
	FillRect(dst, x, y, width, thickness, c, 1.0)
	FillRect(dst, x, y+height-thickness, width, thickness, c, 1.0)
	FillRect(dst, x, y, thickness, height, c, 1.0)
	FillRect(dst, x+width-thickness, y, thickness, height, c, 1.0)
}

const (
	labelFontHeight = 13
	labelPadding    = 4
)

// DrawLabel renders text with a solid background at (x, y) and returns
// the drawn box dimensions.
func DrawLabel(dst *image.RGBA, x, y int, text string, fg, bg color.RGBA) (int, int) {
	face := basicfont.Face7x13

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	textWidthPx := int(d.MeasureString(text) >> 6)

	boxWidth := textWidthPx + labelPadding*2
	boxHeight := labelFontHeight + labelPadding*2

	FillRect(dst, x, y, boxWidth, boxHeight, bg, 0.85)

	d.Dot = fixed.Point26_6{
		X: fixed.I(x + labelPadding),
		Y: fixed.I(y + labelPadding + labelFontHeight - 2),
	}
	d.DrawString(text)

	return boxWidth, boxHeight
}
