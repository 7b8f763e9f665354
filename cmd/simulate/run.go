package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/report"
	"github.com/rxtech-lab/argo-rotation/internal/scenario"
	"github.com/rxtech-lab/argo-rotation/internal/simulation/engine"
	enginev1 "github.com/rxtech-lab/argo-rotation/internal/simulation/engine/engine_v1"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run every selected pattern of a scenario",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Scenario file (`.yaml`/`.yml` or the line-oriented DSL)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Quote provider: yahoo, polygon or binance",
				Value:   string(marketdata.ProviderYahoo),
			},
			&cli.StringFlag{
				Name:    "polygon-api-key",
				Usage:   "Polygon.io API key (required for the polygon provider)",
				Sources: cli.EnvVars("POLYGON_API_KEY"),
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Override the quote provider base URL",
			},
			&cli.StringFlag{
				Name:  "engine-config",
				Usage: "Engine configuration YAML file",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "Trade policy: single_trade or weekly_trade (overrides the engine config)",
			},
			&cli.IntFlag{
				Name:  "window",
				Usage: "Number of cached closes averaged by weekly_trade (overrides the engine config)",
			},
			&cli.StringFlag{
				Name:  "stats",
				Usage: "Write result figures to this YAML file",
			},
			&cli.StringFlag{
				Name:  "ledger",
				Usage: "Write the trade ledger to this Parquet file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log cache and engine activity",
			},
		},
		Action: runAction,
	}
}

// runAction loads the scenario, runs the engine and writes the report plus optional exports.
func runAction(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	errOut := cmd.Root().ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}

	log := logger.NewNopLogger()
	if cmd.Bool("verbose") {
		var err error

		log, err = logger.NewDevelopmentLogger()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		defer log.Sync()
	}

	loaded, err := scenario.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	engineConfig, err := buildEngineConfig(cmd)
	if err != nil {
		return err
	}

	quoteProvider, err := marketdata.NewProvider(marketdata.ProviderConfig{
		Type:          marketdata.ProviderType(cmd.String("provider")),
		PolygonApiKey: cmd.String("polygon-api-key"),
		BaseURL:       cmd.String("base-url"),
	})
	if err != nil {
		return err
	}

	simulator := enginev1.NewSimulatorV1()
	if err := simulator.SetLogger(log); err != nil {
		return err
	}

	if err := simulator.Initialize(engineConfig); err != nil {
		return err
	}

	if err := simulator.SetQuoteProvider(quoteProvider); err != nil {
		return err
	}

	if err := simulator.SetScenario(loaded); err != nil {
		return err
	}

	resultSet, err := simulator.Run(ctx, newProgressCallbacks(errOut, len(loaded.Investments)))
	if err != nil {
		return err
	}

	fmt.Fprint(out, report.RenderText(resultSet))

	return writeExports(cmd, resultSet, log)
}

// buildEngineConfig reads --engine-config and applies the --policy and --window overrides.
// Overrides replace keys already set in the file.
func buildEngineConfig(cmd *cli.Command) (string, error) {
	config := map[string]any{}

	if path := cmd.String("engine-config"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read engine config: %w", err)
		}

		if err := yaml.Unmarshal(content, &config); err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse engine config", err)
		}

		// an empty document decodes to a nil map
		if config == nil {
			config = map[string]any{}
		}
	}

	if cmd.IsSet("policy") {
		config["policy"] = cmd.String("policy")
	}

	if cmd.IsSet("window") {
		config["periodic_gain_window"] = cmd.Int("window")
	}

	if len(config) == 0 {
		return "", nil
	}

	content, err := yaml.Marshal(config)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode engine config", err)
	}

	return string(content), nil
}

func writeExports(cmd *cli.Command, resultSet types.ResultSet, log *logger.Logger) error {
	if path := cmd.String("stats"); path != "" {
		if err := report.WriteStats(path, resultSet); err != nil {
			return err
		}
	}

	if path := cmd.String("ledger"); path != "" {
		writer := report.NewLedgerWriter(path, log)
		if err := writer.Initialize(); err != nil {
			return err
		}
		defer writer.Close()

		if err := writer.WriteAll(resultSet); err != nil {
			return err
		}

		if _, err := writer.Finalize(); err != nil {
			return err
		}
	}

	return nil
}

// newProgressCallbacks shows warm-up progress on w.
func newProgressCallbacks(w io.Writer, symbols int) engine.LifecycleCallbacks {
	bar := progressbar.NewOptions(symbols,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Fetching market data"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	onWarmup := engine.OnWarmupSymbolCallback(func(index int, total int, symbol string) error {
		bar.Describe(fmt.Sprintf("Fetching %s", symbol))

		// index symbols are already fetched
		return bar.Set(index)
	})

	onEnd := engine.OnSimulationEndCallback(func(err error) {
		if err != nil {
			_ = bar.Exit()

			return
		}

		_ = bar.Finish()
	})

	return engine.LifecycleCallbacks{
		OnSimulationStart: nil,
		OnSimulationEnd:   &onEnd,
		OnWarmupSymbol:    &onWarmup,
		OnRunStart:        nil,
		OnRunEnd:          nil,
	}
}
