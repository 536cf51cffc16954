package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/purchase-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Env carries the persistent flags shared by every command.
type Env struct {
	ConfigPath string
	LogLevel   string
	Output     io.Writer
	LogOutput  io.Writer
}

// Load reads the configuration and returns a context carrying the logger.
func (e *Env) Load(cmd *cobra.Command) (*config.Config, context.Context, error) {
	cfg, err := config.LoadConfig(e.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	out := e.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cfg, logger.WithContext(ctx), nil
}

func (e *Env) out() io.Writer {
	if e.Output == nil {
		return os.Stdout
	}
	return e.Output
}
