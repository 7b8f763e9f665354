package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/scenario"
	"github.com/rxtech-lab/argo-rotation/internal/simulation/engine"
	enginev1 "github.com/rxtech-lab/argo-rotation/internal/simulation/engine/engine_v1"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/internal/version"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

// newSimulationRunner returns a RunFunc that loads the scenario and runs it through SimulatorV1.
func newSimulationRunner(scenarioPath string, providerConfig marketdata.ProviderConfig, engineConfig string) RunFunc {
	return func(ctx context.Context) (types.ResultSet, error) {
		loaded, err := scenario.Load(scenarioPath)
		if err != nil {
			return types.ResultSet{}, err
		}

		quoteProvider, err := marketdata.NewProvider(providerConfig)
		if err != nil {
			return types.ResultSet{}, err
		}

		simulator := enginev1.NewSimulatorV1()
		if err := simulator.SetLogger(logger.NewNopLogger()); err != nil {
			return types.ResultSet{}, err
		}

		if err := simulator.Initialize(engineConfig); err != nil {
			return types.ResultSet{}, err
		}

		if err := simulator.SetQuoteProvider(quoteProvider); err != nil {
			return types.ResultSet{}, err
		}

		if err := simulator.SetScenario(loaded); err != nil {
			return types.ResultSet{}, err
		}

		return simulator.Run(ctx, engine.LifecycleCallbacks{})
	}
}

func exploreAction(ctx context.Context, cmd *cli.Command) error {
	var engineConfig string
	if cmd.IsSet("policy") {
		engineConfig = fmt.Sprintf("policy: %s\n", cmd.String("policy"))
	}

	run := newSimulationRunner(cmd.String("config"), marketdata.ProviderConfig{
		Type:          marketdata.ProviderType(cmd.String("provider")),
		PolygonApiKey: cmd.String("polygon-api-key"),
		BaseURL:       cmd.String("base-url"),
	}, engineConfig)

	p := tea.NewProgram(NewModel(run), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run explorer: %w", err)
	}

	return nil
}

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "explore",
		Usage:   "Browse simulation results and trade ledgers in the terminal",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Scenario file",
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
				Name:  "policy",
				Usage: "Trade policy: single_trade or weekly_trade",
			},
		},
		Action: exploreAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
