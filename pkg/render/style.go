package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Style holds every presentation setting of the chart. It is passed to the
// renderer explicitly; nothing is configured globally.
type Style struct {
	Title          string
	YLabel         string
	TitleSize      vg.Length
	LabelSize      vg.Length
	TickSize       vg.Length
	AnnotationSize vg.Length

	Width  vg.Length
	Height vg.Length
	DPI    int

	Grid      bool
	GridColor color.Color

	BoxWidth        float64 // fraction of a category slot
	BoxLineWidth    vg.Length
	MedianLineWidth vg.Length
	FlierRadius     vg.Length

	StripFraction float64
	StripSeed     uint64
	StripJitter   float64 // half-width of the horizontal jitter, in category units
	StripRadius   vg.Length
	StripColor    color.Color
}

// DefaultStyle is a white-grid presentation style: an 8x8in figure at
// 64 dpi, rendered as a 512x512 PNG.
func DefaultStyle() Style {
	return Style{
		Title:          "Distribution of Purchase Amounts by Customer Segment",
		YLabel:         "Purchase amount (USD)",
		TitleSize:      vg.Points(18),
		LabelSize:      vg.Points(14),
		TickSize:       vg.Points(12),
		AnnotationSize: vg.Points(10),

		Width:  8 * vg.Inch,
		Height: 8 * vg.Inch,
		DPI:    64,

		Grid:      true,
		GridColor: color.Gray{Y: 0xdd},

		BoxWidth:        0.6,
		BoxLineWidth:    vg.Points(1.2),
		MedianLineWidth: vg.Points(1.6),
		FlierRadius:     vg.Points(2.5),

		StripFraction: 0.25,
		StripSeed:     1,
		StripJitter:   0.25,
		StripRadius:   vg.Points(1.5),
		StripColor:    color.NRGBA{A: 64},
	}
}

// PixelSize returns the raster dimensions produced by s.
func (s Style) PixelSize() (int, int) {
	w := int(s.Width.Dots(float64(s.DPI)) + 0.5)
	h := int(s.Height.Dots(float64(s.DPI)) + 0.5)
	return w, h
}

// ParseHexColor parses a #rrggbb color.
func ParseHexColor(hex string) (color.Color, error) {
	var r, g, b uint8
	if len(hex) != 7 || hex[0] != '#' {
		return nil, fmt.Errorf("invalid hex color %q", hex)
	}
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
