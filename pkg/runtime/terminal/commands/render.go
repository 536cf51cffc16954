package commands

import (
	"fmt"

	"github.com/de-tools/purchase-atlas/pkg/services/pipeline"
	"github.com/spf13/cobra"
)

type RenderCmd struct {
	env    *Env
	output string
	seed   uint64
}

func NewRenderCmd(env *Env) *cobra.Command {
	rc := &RenderCmd{env: env}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate the dataset and render the segment chart",
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Path of the PNG to write (default from config: chart.png)")
	cmd.Flags().Uint64Var(&rc.seed, "seed", 0, "Seed of the sampling generator (default from config: 42)")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, ctx, err := rc.env.Load(cmd)
	if err != nil {
		return err
	}
	if rc.output != "" {
		cfg.Output = rc.output
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = rc.seed
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(rc.env.out(), "chart written to %s (%d records, run %s)\n", res.Output, len(res.Dataset), res.RunID)
	return err
}
