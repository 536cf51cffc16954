package commands

import (
	"fmt"
	"sort"

	"github.com/de-tools/purchase-atlas/pkg/adapters"
	"github.com/de-tools/purchase-atlas/pkg/services/config"
	"github.com/de-tools/purchase-atlas/pkg/stats"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb/purchase"
	"github.com/de-tools/purchase-atlas/pkg/store/duckdb/run"
	"github.com/spf13/cobra"
)

type RunsCmd struct {
	env       *Env
	dbPath    string
	limit     int
	reporters map[string]ReportHandler
	format    string
}

func NewRunsCmd(env *Env, reporters map[string]ReportHandler) *cobra.Command {
	rc := &RunsCmd{env: env, reporters: reporters}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect datasets stored in DuckDB",
	}
	cmd.PersistentFlags().StringVar(&rc.dbPath, "db", "", "DuckDB file (default from config: purchase-atlas.db)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE:  rc.list,
	}
	list.Flags().IntVar(&rc.limit, "limit", 20, "Maximum number of runs to list")

	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Summarize a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.show,
	}
	show.Flags().StringVar(&rc.format, "format", "table", "Output format (table or text)")

	cmd.AddCommand(list, show)
	return cmd
}

func (rc *RunsCmd) open(cfg *config.Config) (run.Store, purchase.Store, func() error, error) {
	path := rc.dbPath
	if path == "" {
		path = cfg.Database.Path
	}
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	runs, err := run.NewStore(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	purchases, err := purchase.NewStore(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return runs, purchases, db.Close, nil
}

func (rc *RunsCmd) list(cmd *cobra.Command, _ []string) error {
	cfg, ctx, err := rc.env.Load(cmd)
	if err != nil {
		return err
	}
	runs, _, closeDB, err := rc.open(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	items, err := runs.List(ctx, rc.limit)
	if err != nil {
		return err
	}
	out := rc.env.out()
	for _, r := range items {
		if _, err := fmt.Fprintf(out, "%s  %s  seed=%d  records=%d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Seed, r.Records, r.Output); err != nil {
			return err
		}
	}
	return nil
}

func (rc *RunsCmd) show(cmd *cobra.Command, args []string) error {
	reporter, ok := rc.reporters[rc.format]
	if !ok {
		return fmt.Errorf("unsupported format %q", rc.format)
	}

	cfg, ctx, err := rc.env.Load(cmd)
	if err != nil {
		return err
	}
	runs, purchases, closeDB, err := rc.open(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	r, err := runs.Get(ctx, args[0])
	if err != nil {
		return err
	}
	rows, err := purchases.List(ctx, r.ID)
	if err != nil {
		return err
	}
	medians, err := purchases.SegmentMedians(ctx, r.ID)
	if err != nil {
		return err
	}

	ds := adapters.MapStorePurchasesToDataset(rows)
	report := adapters.MapSummariesToReport(
		r.ID,
		r.Seed,
		len(ds),
		stats.AxisUpperBound(ds),
		stats.Summarize(ds, stats.Segments(ds)),
		r.CreatedAt,
	)
	if err := reporter.Handle(report); err != nil {
		return err
	}

	segments := make([]string, 0, len(medians))
	for s := range medians {
		segments = append(segments, s)
	}
	sort.Strings(segments)
	out := rc.env.out()
	if _, err := fmt.Fprintln(out, "DuckDB medians:"); err != nil {
		return err
	}
	for _, s := range segments {
		if _, err := fmt.Fprintf(out, "  %s: %.2f\n", s, medians[s]); err != nil {
			return err
		}
	}
	return nil
}
