package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/de-tools/purchase-atlas/pkg/services/pipeline"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb/purchase"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb/run"
	"github.com/spf13/cobra"
)

const (
	formatCSV   = "csv"
	formatTable = "table"
)

type GenerateCmd struct {
	env       *Env
	seed      uint64
	dbPath    string
	format    string
	reporters map[string]ReportHandler
}

func NewGenerateCmd(env *Env, reporters map[string]ReportHandler) *cobra.Command {
	gc := &GenerateCmd{env: env, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the purchase dataset, optionally storing it in DuckDB",
		RunE:  gc.run,
	}

	cmd.Flags().Uint64Var(&gc.seed, "seed", 0, "Seed of the sampling generator (default from config: 42)")
	cmd.Flags().StringVar(&gc.dbPath, "db", "", "DuckDB file to store the dataset in")
	cmd.Flags().StringVar(&gc.format, "format", formatCSV, "Output format (csv or table)")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	var reporter ReportHandler
	if gc.format != formatCSV {
		r, ok := gc.reporters[gc.format]
		if !ok || gc.format != formatTable {
			return fmt.Errorf("unsupported format %q", gc.format)
		}
		reporter = r
	}

	cfg, ctx, err := gc.env.Load(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = gc.seed
	}

	var opts []pipeline.Option
	if gc.dbPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: gc.dbPath})
		if err != nil {
			return fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		defer db.Close()

		runs, err := run.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create run store: %w", err)
		}
		purchases, err := purchase.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create purchase store: %w", err)
		}
		opts = append(opts, pipeline.WithStore(db, runs, purchases))
	}

	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		return err
	}
	ds, err := p.Generate(cfg.Seed)
	if err != nil {
		return err
	}

	var runID string
	if gc.dbPath != "" {
		runID, err = p.Persist(ctx, ds)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "stored %d records as run %s in %s\n", len(ds), runID, gc.dbPath); err != nil {
			return err
		}
	}

	if reporter != nil {
		return reporter.Handle(datasetReport(runID, cfg.Seed, p, ds))
	}
	return WriteCSV(gc.env.out(), ds)
}

// WriteCSV writes ds with a segment,purchase_amount,heavy_tail header.
func WriteCSV(w io.Writer, ds domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"segment", "purchase_amount", "heavy_tail"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range ds {
		row := []string{
			r.Segment,
			strconv.FormatFloat(r.Amount, 'f', 2, 64),
			strconv.FormatBool(r.HeavyTail),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
