// Package render draws the segment box-and-strip chart.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/stats"
	"github.com/dustin/go-humanize"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// slotWidth approximates the share of the figure width covered by the data area.
const slotWidth = 0.8

// Result describes what was drawn.
type Result struct {
	Segments   []string
	Medians    []float64
	UpperBound float64
	Sampled    int
}

type Renderer struct {
	style Style
}

func New(style Style) *Renderer {
	return &Renderer{style: style}
}

// RenderFile renders the chart into path, replacing any existing file.
// The file is closed before returning, whether rendering succeeded or not.
func (r *Renderer) RenderFile(path string, ds domain.Dataset, segments []domain.SegmentSpec) (res *Result, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close chart file: %w", cerr)
		}
	}()

	return r.Render(f, ds, segments)
}

// Render writes the chart as PNG to w.
func (r *Renderer) Render(w io.Writer, ds domain.Dataset, segments []domain.SegmentSpec) (*Result, error) {
	p, res, err := r.Plot(ds, segments)
	if err != nil {
		return nil, err
	}

	c := vgimg.NewWith(vgimg.UseWH(r.style.Width, r.style.Height), vgimg.UseDPI(r.style.DPI))
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return res, nil
}

// Plot builds the chart without rasterizing it.
func (r *Renderer) Plot(ds domain.Dataset, segments []domain.SegmentSpec) (*plot.Plot, *Result, error) {
	if len(segments) == 0 {
		return nil, nil, errors.New("no segments to plot")
	}

	groups := ds.BySegment()
	names := make([]string, len(segments))
	for i, seg := range segments {
		if len(groups[seg.Name]) == 0 {
			return nil, nil, fmt.Errorf("segment %q has no records", seg.Name)
		}
		names[i] = seg.Name
	}

	p := plot.New()
	r.applyStyle(p)

	if r.style.Grid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = nil
		grid.Horizontal.Color = r.style.GridColor
		p.Add(grid)
	}

	boxWidth := vg.Length(r.style.BoxWidth*slotWidth) * r.style.Width / vg.Length(len(segments))
	for i, seg := range segments {
		box, err := r.box(boxWidth, float64(i), seg, groups[seg.Name])
		if err != nil {
			return nil, nil, err
		}
		p.Add(box)
	}

	strip, sampled, err := r.strip(ds, names)
	if err != nil {
		return nil, nil, err
	}
	p.Add(strip)

	medians := stats.Medians(ds, names)
	labels, err := r.medianLabels(medians)
	if err != nil {
		return nil, nil, err
	}
	p.Add(labels)

	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(names)) - 0.5

	upper := stats.AxisUpperBound(ds)
	p.Y.Min = 0
	p.Y.Max = upper

	return p, &Result{
		Segments:   names,
		Medians:    medians,
		UpperBound: upper,
		Sampled:    sampled,
	}, nil
}

func (r *Renderer) applyStyle(p *plot.Plot) {
	s := r.style
	p.BackgroundColor = color.White

	p.Title.Text = s.Title
	p.Title.TextStyle.Font.Size = s.TitleSize
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.Title.Padding = vg.Points(8)

	p.X.Label.Text = ""
	p.X.Tick.Label.Font.Size = s.TickSize
	p.X.Tick.Length = 0

	p.Y.Label.Text = s.YLabel
	p.Y.Label.TextStyle.Font.Size = s.LabelSize
	p.Y.Tick.Label.Font.Size = s.TickSize
	p.Y.Tick.Marker = amountTicks{}
}

func (r *Renderer) box(width vg.Length, loc float64, seg domain.SegmentSpec, values []float64) (*plotter.BoxPlot, error) {
	fill, err := ParseHexColor(seg.Color)
	if err != nil {
		return nil, fmt.Errorf("segment %q: %w", seg.Name, err)
	}

	b, err := plotter.NewBoxPlot(width, loc, plotter.Values(values))
	if err != nil {
		return nil, fmt.Errorf("segment %q box plot: %w", seg.Name, err)
	}
	b.FillColor = fill
	b.BoxStyle.Color = color.Black
	b.BoxStyle.Width = r.style.BoxLineWidth
	b.MedianStyle.Color = color.Black
	b.MedianStyle.Width = r.style.MedianLineWidth
	b.WhiskerStyle.Color = color.Black
	b.WhiskerStyle.Width = r.style.BoxLineWidth
	b.GlyphStyle.Shape = draw.PyramidGlyph{}
	b.GlyphStyle.Color = color.Gray{Y: 0x40}
	b.GlyphStyle.Radius = r.style.FlierRadius
	return b, nil
}

// strip scatters a jittered subsample of the dataset over the boxes.
func (r *Renderer) strip(ds domain.Dataset, order []string) (*plotter.Scatter, int, error) {
	slot := make(map[string]float64, len(order))
	for i, name := range order {
		slot[name] = float64(i)
	}

	rng := rand.New(rand.NewPCG(r.style.StripSeed, r.style.StripSeed))
	picked := Subsample(rng, len(ds), r.style.StripFraction)

	xys := make(plotter.XYs, 0, len(picked))
	for _, idx := range picked {
		rec := ds[idx]
		x, ok := slot[rec.Segment]
		if !ok {
			continue
		}
		jitter := (rng.Float64()*2 - 1) * r.style.StripJitter
		xys = append(xys, plotter.XY{X: x + jitter, Y: rec.Amount})
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, 0, fmt.Errorf("strip plot: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{
		Color:  r.style.StripColor,
		Radius: r.style.StripRadius,
		Shape:  draw.CircleGlyph{},
	}
	return s, len(xys), nil
}

func (r *Renderer) medianLabels(medians []float64) (*plotter.Labels, error) {
	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(medians)),
		Labels: make([]string, len(medians)),
	}
	for i, m := range medians {
		xyl.XYs[i] = plotter.XY{X: float64(i), Y: m * 1.02}
		xyl.Labels[i] = "Median: " + FormatUSD(m)
	}

	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, fmt.Errorf("median labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = color.Black
		labels.TextStyle[i].Font.Size = r.style.AnnotationSize
		labels.TextStyle[i].XAlign = text.XCenter
	}
	return labels, nil
}

// Subsample picks round(fraction*n) distinct indices out of n, in draw order.
func Subsample(rng *rand.Rand, n int, fraction float64) []int {
	k := int(math.Round(fraction * float64(n)))
	if k <= 0 || n == 0 {
		return nil
	}
	if k > n {
		k = n
	}
	return rng.Perm(n)[:k]
}

// FormatUSD renders amount as "$1,234.56".
func FormatUSD(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// amountTicks labels the y axis with thousands separators.
type amountTicks struct{}

func (amountTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		if t.Value == math.Trunc(t.Value) && math.Abs(t.Value) < 1e15 {
			ticks[i].Label = humanize.Comma(int64(t.Value))
			continue
		}
		ticks[i].Label = strconv.FormatFloat(t.Value, 'f', -1, 64)
	}
	return ticks
}
