package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/purchase-atlas/pkg/server"
	"github.com/de-tools/purchase-atlas/pkg/services/config"
	"github.com/de-tools/purchase-atlas/pkg/services/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the chart preview server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (defaults are used when empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "8080"
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Charts:      p,
			DefaultSeed: cfg.Seed,
		},
	})

	return api.Start()
}
