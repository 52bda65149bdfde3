package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vireodb/vireo/internal/pipeline"
	"github.com/vireodb/vireo/pkg/config"
	"github.com/vireodb/vireo/pkg/logger"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "vireo",
		Short: "Vireo - streaming query execution core",
		Long: `Vireo is the execution core of a streaming query engine: columnar blocks
flowing through pipeline stages under an adaptive speed governor that caps
or fails queries based on observed throughput.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Vireo v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	limitsCmd := &cobra.Command{
		Use:   "limits <config.yaml>",
		Short: "Validate a query configuration and print the effective limits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewQueryConfig("")
			if err := config.Load(args[0], cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out, err := gojson.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	root.AddCommand(limitsCmd)

	var (
		runConfig string
		runBlocks int
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a demo pipeline over generated blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewQueryConfig("demo")
			if runConfig != "" {
				if err := config.Load(runConfig, cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
				Encoding:    cfg.Logging.Encoding,
			}); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			log := logger.With(zap.String("query", cfg.Name))

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			source := pipeline.NewGeneratorSource(cfg.Pipeline.BlockRows, runBlocks)
			sink := &pipeline.DiscardSink{}

			p := pipeline.New(cfg, source, sink, log)
			if err := p.Run(ctx); err != nil {
				return err
			}

			stats := p.Stats()
			out, err := stats.JSON()
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	runCmd.Flags().StringVarP(&runConfig, "config", "c", "", "query configuration YAML")
	runCmd.Flags().IntVarP(&runBlocks, "blocks", "n", 100, "number of blocks to generate")
	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
