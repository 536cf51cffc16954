package commands

import (
	"fmt"

	"github.com/de-tools/purchase-atlas/pkg/adapters"
	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/services/pipeline"
	"github.com/de-tools/purchase-atlas/pkg/stats"
	"github.com/spf13/cobra"
)

// ReportHandler renders a report to the terminal.
type ReportHandler interface {
	Handle(report *domain.Report) error
}

type SummaryCmd struct {
	env       *Env
	seed      uint64
	format    string
	reporters map[string]ReportHandler
}

func NewSummaryCmd(env *Env, reporters map[string]ReportHandler) *cobra.Command {
	sc := &SummaryCmd{env: env, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-segment statistics of the generated dataset",
		RunE:  sc.run,
	}

	cmd.Flags().Uint64Var(&sc.seed, "seed", 0, "Seed of the sampling generator (default from config: 42)")
	cmd.Flags().StringVar(&sc.format, "format", "table", "Output format (table or text)")

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, _ []string) error {
	reporter, ok := sc.reporters[sc.format]
	if !ok {
		return fmt.Errorf("unsupported format %q", sc.format)
	}

	cfg, _, err := sc.env.Load(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = sc.seed
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	ds, err := p.Generate(cfg.Seed)
	if err != nil {
		return err
	}

	// The dataset is not stored, so the report carries no run id.
	return reporter.Handle(datasetReport("", cfg.Seed, p, ds))
}

func datasetReport(runID string, seed uint64, p *pipeline.Pipeline, ds domain.Dataset) *domain.Report {
	return adapters.MapSummariesToReport(
		runID,
		seed,
		len(ds),
		stats.AxisUpperBound(ds),
		p.Summaries(ds),
		timeNow(),
	)
}
