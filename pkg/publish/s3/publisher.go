// Package s3 uploads rendered charts to an S3 bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const contentType = "image/png"

// PutObjectAPI is the part of *s3.Client used by the publisher.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Publisher struct {
	client PutObjectAPI
	bucket string
}

func NewPublisher(client PutObjectAPI, bucket string) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("s3 client is nil")
	}
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	return &Publisher{client: client, bucket: bucket}, nil
}

func NewFromConfig(cfg aws.Config, bucket string) (*Publisher, error) {
	return NewPublisher(s3.NewFromConfig(cfg), bucket)
}

// Publish uploads the file at path under key and returns its s3:// location.
func (p *Publisher) Publish(ctx context.Context, path, key string) (string, error) {
	if key == "" {
		return "", errors.New("object key is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open chart: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat chart: %w", err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload chart to s3://%s/%s: %w", p.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	zerolog.Ctx(ctx).Info().Str("location", location).Int64("bytes", info.Size()).Msg("chart published")
	return location, nil
}
