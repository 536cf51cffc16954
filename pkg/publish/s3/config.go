package s3

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	DefaultRegion = "us-east-1" // Default region if not specified in AWS profile
)

func LoadConfig(ctx context.Context, profile, region string) (*awssdk.Config, error) {
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{
		config.WithDefaultRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	if _, err = awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("invalid AWS credentials for profile %q: %w", profile, err)
	}

	return &awsCfg, nil
}
