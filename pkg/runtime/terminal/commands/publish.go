package commands

import (
	"errors"
	"fmt"

	"github.com/de-tools/purchase-atlas/pkg/publish/s3"
	"github.com/de-tools/purchase-atlas/pkg/services/pipeline"
	"github.com/spf13/cobra"
)

type PublishCmd struct {
	env     *Env
	bucket  string
	key     string
	region  string
	profile string
}

func NewPublishCmd(env *Env) *cobra.Command {
	pc := &PublishCmd{env: env}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Render the chart and upload it to S3",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.bucket, "bucket", "", "Destination S3 bucket (default from config)")
	cmd.Flags().StringVar(&pc.key, "key", "", "Object key (default from config: charts/chart.png)")
	cmd.Flags().StringVar(&pc.region, "region", "", "AWS region (default from config: us-east-1)")
	cmd.Flags().StringVar(&pc.profile, "profile", "", "AWS shared config profile")

	return cmd
}

func (pc *PublishCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, ctx, err := pc.env.Load(cmd)
	if err != nil {
		return err
	}
	if pc.bucket != "" {
		cfg.Publish.Bucket = pc.bucket
	}
	if pc.key != "" {
		cfg.Publish.Key = pc.key
	}
	if pc.region != "" {
		cfg.Publish.Region = pc.region
	}
	if pc.profile != "" {
		cfg.Publish.Profile = pc.profile
	}
	if cfg.Publish.Bucket == "" {
		return errors.New("a bucket is required (--bucket or publish.bucket)")
	}

	awsCfg, err := s3.LoadConfig(ctx, cfg.Publish.Profile, cfg.Publish.Region)
	if err != nil {
		return err
	}
	publisher, err := s3.NewFromConfig(*awsCfg, cfg.Publish.Bucket)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, pipeline.WithPublisher(publisher, cfg.Publish.Key))
	if err != nil {
		return err
	}
	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pc.env.out(), "chart published to %s\n", res.Location)
	return err
}
