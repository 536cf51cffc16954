// Package pipeline runs synthesis and rendering in sequence and wires the
// optional persistence and publishing steps around them.
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/purchase-atlas/pkg/adapters"
	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/models/store"
	"github.com/de-tools/purchase-atlas/pkg/render"
	"github.com/de-tools/purchase-atlas/pkg/services/config"
	"github.com/de-tools/purchase-atlas/pkg/stats"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb/purchase"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb/run"
	"github.com/de-tools/purchase-atlas/pkg/synth"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Publisher interface {
	Publish(ctx context.Context, path, key string) (string, error)
}

type Result struct {
	RunID     string
	Dataset   domain.Dataset
	Summaries []domain.SegmentSummary
	Chart     *render.Result
	Output    string
	Location  string // set when the chart was published
	CreatedAt time.Time
}

type Pipeline struct {
	cfg         *config.Config
	style       render.Style
	synthesizer *synth.Synthesizer

	db        *sql.DB
	runs      run.Store
	purchases purchase.Store

	publisher  Publisher
	publishKey string

	now func() time.Time
}

type Option func(*Pipeline)

func WithStyle(style render.Style) Option {
	return func(p *Pipeline) { p.style = style }
}

// WithStore persists every run and its purchases in one transaction.
func WithStore(db *sql.DB, runs run.Store, purchases purchase.Store) Option {
	return func(p *Pipeline) {
		p.db = db
		p.runs = runs
		p.purchases = purchases
	}
}

func WithPublisher(publisher Publisher, key string) Option {
	return func(p *Pipeline) {
		p.publisher = publisher
		p.publishKey = key
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	style := render.DefaultStyle()
	style.StripSeed = cfg.SampleSeed
	style.StripFraction = cfg.SampleFraction

	p := &Pipeline{
		cfg:   cfg,
		style: style,
		synthesizer: synth.New(synth.Options{
			HeavyTailProbability: cfg.HeavyTail.Probability,
			HeavyTailMin:         cfg.HeavyTail.Min,
			HeavyTailMax:         cfg.HeavyTail.Max,
		}),
		publishKey: cfg.Publish.Key,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.db != nil && (p.runs == nil || p.purchases == nil) {
		return nil, errors.New("store requires both run and purchase stores")
	}
	return p, nil
}

// Generate synthesizes the dataset for seed.
func (p *Pipeline) Generate(seed uint64) (domain.Dataset, error) {
	ds, err := p.synthesizer.Generate(synth.NewRand(seed), p.cfg.SegmentSpecs())
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}
	return ds, nil
}

// Summaries returns the per-segment statistics of ds in configured order.
func (p *Pipeline) Summaries(ds domain.Dataset) []domain.SegmentSummary {
	return stats.Summarize(ds, p.segmentNames())
}

// Run generates the dataset, renders it to the configured output and, when
// configured, persists and publishes it.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Uint64("seed", p.cfg.Seed).Logger()

	res := &Result{
		RunID:     uuid.NewString(),
		Output:    p.cfg.Output,
		CreatedAt: p.now().UTC(),
	}
	logger = logger.With().Str("run_id", res.RunID).Logger()

	ds, err := p.Generate(p.cfg.Seed)
	if err != nil {
		return nil, err
	}
	res.Dataset = ds
	res.Summaries = p.Summaries(ds)
	logger.Info().Int("records", len(ds)).Msg("dataset generated")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chart, err := render.New(p.style).RenderFile(p.cfg.Output, ds, p.cfg.SegmentSpecs())
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	res.Chart = chart
	logger.Info().
		Str("output", p.cfg.Output).
		Float64("y_max", chart.UpperBound).
		Floats64("medians", chart.Medians).
		Int("strip_points", chart.Sampled).
		Msg("chart rendered")

	if p.db != nil {
		if err := p.persist(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to persist run: %w", err)
		}
		logger.Info().Msg("run persisted")
	}

	if p.publisher != nil {
		location, err := p.publisher.Publish(ctx, p.cfg.Output, p.publishKey)
		if err != nil {
			return nil, fmt.Errorf("failed to publish chart: %w", err)
		}
		res.Location = location
	}

	return res, nil
}

// RenderTo renders the chart for seed into w without touching the filesystem.
func (p *Pipeline) RenderTo(w io.Writer, seed uint64) (*render.Result, error) {
	ds, err := p.Generate(seed)
	if err != nil {
		return nil, err
	}
	chart, err := render.New(p.style).Render(w, ds, p.cfg.SegmentSpecs())
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return chart, nil
}

// Persist stores a generated dataset under a new run without rendering it.
func (p *Pipeline) Persist(ctx context.Context, ds domain.Dataset) (string, error) {
	if p.db == nil {
		return "", errors.New("no store configured")
	}
	res := &Result{
		RunID:     uuid.NewString(),
		Dataset:   ds,
		CreatedAt: p.now().UTC(),
	}
	if err := p.persist(ctx, res); err != nil {
		return "", fmt.Errorf("failed to persist run: %w", err)
	}
	return res.RunID, nil
}

func (p *Pipeline) persist(ctx context.Context, res *Result) error {
	return duckdb.InTx(ctx, p.db, func(ctx context.Context) error {
		err := p.runs.Create(ctx, store.Run{
			ID:         res.RunID,
			Seed:       p.cfg.Seed,
			SampleSeed: p.cfg.SampleSeed,
			Records:    len(res.Dataset),
			Output:     res.Output,
			CreatedAt:  res.CreatedAt,
		})
		if err != nil {
			return err
		}
		return p.purchases.Add(ctx, res.RunID, adapters.MapDatasetToStorePurchases(res.RunID, res.Dataset))
	})
}

func (p *Pipeline) segmentNames() []string {
	names := make([]string, len(p.cfg.Segments))
	for i, s := range p.cfg.Segments {
		names[i] = s.Name
	}
	return names
}
