package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-rotation/internal/scenario"
	enginev1 "github.com/rxtech-lab/argo-rotation/internal/simulation/engine/engine_v1"
	"github.com/rxtech-lab/argo-rotation/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

const (
	schemaKindScenario = "scenario"
	schemaKindEngine   = "engine"
	schemaKindProvider = "provider"
)

func newSchemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print a JSON schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Schema to print: scenario, engine or provider",
				Value: schemaKindScenario,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var (
				schema string
				err    error
			)

			switch kind := cmd.String("kind"); kind {
			case schemaKindScenario:
				schema, err = scenario.Schema()
			case schemaKindEngine:
				schema, err = enginev1.NewSimulatorV1().GetConfigSchema()
			case schemaKindProvider:
				schema, err = marketdata.GetProviderConfigSchema()
			default:
				return fmt.Errorf("unknown schema kind: %s", kind)
			}

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.Root().Writer, schema)

			return nil
		},
	}
}

func newProvidersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the supported quote providers",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, name := range marketdata.GetSupportedProviders() {
				info, err := marketdata.GetProviderInfo(name)
				if err != nil {
					return err
				}

				auth := ""
				if info.RequiresAuth {
					auth = " (requires API key)"
				}

				fmt.Fprintf(cmd.Root().Writer, "%-8s %s%s\n         %s\n", info.Name, info.DisplayName, auth, info.Description)
			}

			return nil
		},
	}
}
