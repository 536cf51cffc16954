package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/purchase-atlas/pkg/services/config"
	"github.com/de-tools/purchase-atlas/pkg/services/pipeline"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	p, err := pipeline.New(config.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, err := p.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Str("output", res.Output).Msg("chart saved")
}
